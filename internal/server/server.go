// Package server provides the HTTP server and routing for the Metiseon site.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/di"
	chartshandlers "github.com/metiseon/landing/internal/modules/charts/handlers"
	ledgerhandlers "github.com/metiseon/landing/internal/modules/ledger/handlers"
	pageshandlers "github.com/metiseon/landing/internal/modules/pages/handlers"
	snippetshandlers "github.com/metiseon/landing/internal/modules/snippets/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")
	_ = mime.AddExtensionType(".json", "application/json")

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		port:           cfg.Port,
		container:      cfg.Container,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Container, cfg.Jobs),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root router
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// Live reload holds a long-lived socket, so it stays outside the timeout group
	if s.container.LiveReload != nil {
		s.router.Get("/dev/livereload", s.container.LiveReload.ServeHTTP)
	}

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		pageHandler := pageshandlers.NewHandler(s.container.Site, s.log)
		chartHandler := chartshandlers.NewHandler(s.container.Charts, s.log)

		// API routes
		r.Route("/api", func(r chi.Router) {
			pageHandler.RegisterAPIRoutes(r)
			chartHandler.RegisterAPIRoutes(r)
			ledgerhandlers.NewHandler(s.container.LedgerRepo, s.log).RegisterRoutes(r)
			snippetshandlers.NewHandler(s.container.Site, s.log).RegisterRoutes(r)
			s.setupSystemRoutes(r)
		})

		// Site
		pageHandler.RegisterRoutes(r)
		chartHandler.RegisterRoutes(r)
		s.setupAssetRoutes(r)
	})
}

// setupSystemRoutes configures status and job trigger routes
func (s *Server) setupSystemRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", s.systemHandlers.HandleSystemStatus)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.systemHandlers.HandleJobsStatus)
			r.Post("/check-ledger-database", s.systemHandlers.HandleTriggerCheckLedgerDatabase)
			r.Post("/publish-site", s.systemHandlers.HandleTriggerPublishSite)
		})
	})
}

// setupAssetRoutes serves the static and fixture directories of the assets FS
func (s *Server) setupAssetRoutes(r chi.Router) {
	for _, dir := range []string{"static", "charts", "logic"} {
		sub, err := fs.Sub(s.container.AssetsFS, dir)
		if err != nil {
			s.log.Error().Err(err).Str("dir", dir).Msg("Failed to mount asset directory")
			continue
		}
		prefix := "/" + dir + "/"
		r.Handle(prefix+"*", s.assetsHandler(http.StripPrefix(prefix, http.FileServer(http.FS(sub)))))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// assetsHandler disables directory listings and sets a short cache lifetime
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > 0 && r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
