// Package server provides the HTTP server and routing for the Metiseon site.
package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/metiseon/landing/internal/di"
	"github.com/metiseon/landing/internal/scheduler"
	"github.com/metiseon/landing/internal/utils"
)

// SystemHandlers handles process monitoring and manual job triggers
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	container   *di.Container
	jobs        *di.JobInstances

	// Swapped in tests to avoid sampling the host
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, container *di.Container, jobs *di.JobInstances) *SystemHandlers {
	if jobs == nil {
		jobs = &di.JobInstances{}
	}
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		container:   container,
		jobs:        jobs,
	}
	h.systemStats = h.getSystemStats
	return h
}

// SystemStatusResponse represents the process and content status
type SystemStatusResponse struct {
	Status           string  `json:"status"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	GoVersion        string  `json:"go_version"`
	Goroutines       int     `json:"goroutines"`
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	LedgerTrades     int64   `json:"ledger_trades"`
	ScheduledJobs    int     `json:"scheduled_jobs"`
	PublishEnabled   bool    `json:"publish_enabled"`
	LiveReload       bool    `json:"live_reload"`
	LiveReloadPeers  int     `json:"live_reload_peers"`
	FixtureWarnings  int     `json:"fixture_warnings"`
	LastDecisionDate string  `json:"last_decision_date"`
}

// JobStatus describes one job that can be triggered manually
type JobStatus struct {
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
}

// HandleSystemStatus returns process and content status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.systemStats()
	response := SystemStatusResponse{
		Status:         "healthy",
		UptimeSeconds:  time.Since(h.startupTime).Seconds(),
		GoVersion:      runtime.Version(),
		Goroutines:     runtime.NumGoroutine(),
		CPUPercent:     cpuPercent,
		MemoryPercent:  memPercent,
		PublishEnabled: h.container.Publisher != nil,
		LiveReload:     h.container.LiveReload != nil,
	}

	if h.container.LedgerRepo != nil {
		summary, err := h.container.LedgerRepo.Summary(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to summarize ledger")
			response.Status = "degraded"
		} else {
			response.LedgerTrades = summary.TotalTrades
		}
	}
	if h.container.Scheduler != nil {
		response.ScheduledJobs = h.container.Scheduler.Entries()
	}
	if h.container.LiveReload != nil {
		response.LiveReloadPeers = h.container.LiveReload.Clients()
	}
	if h.container.Site != nil {
		response.LastDecisionDate = h.container.Site.DecisionTrace().Date
		response.FixtureWarnings = len(h.container.Site.Warnings())
	}

	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(response), h.log)
}

// HandleJobsStatus lists the jobs that can be triggered
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := []JobStatus{
		{Name: "check_ledger_database", Registered: h.jobs.CheckLedgerDatabase != nil},
		{Name: "publish_site", Registered: h.jobs.PublishSite != nil},
	}
	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(jobs), h.log)
}

// HandleTriggerCheckLedgerDatabase runs the ledger integrity check
// POST /api/system/jobs/check-ledger-database
func (h *SystemHandlers) HandleTriggerCheckLedgerDatabase(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, h.jobs.CheckLedgerDatabase)
}

// HandleTriggerPublishSite exports and uploads the site
// POST /api/system/jobs/publish-site
func (h *SystemHandlers) HandleTriggerPublishSite(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, h.jobs.PublishSite)
}

func (h *SystemHandlers) trigger(w http.ResponseWriter, r *http.Request, job scheduler.Job) {
	if job == nil {
		http.Error(w, "Job not registered", http.StatusNotFound)
		return
	}

	h.log.Info().Str("job", job.Name()).Msg("Manual job triggered")
	if err := h.container.Scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(map[string]string{
		"status":  "success",
		"message": job.Name() + " completed",
	}), h.log)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the status call stays fast
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
