package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/charts"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func setupRouter(svc ChartSource) chi.Router {
	h := NewHandler(svc, testLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api", h.RegisterAPIRoutes)
	return r
}

func testService() *charts.Service {
	var nav []domain.NavPoint
	for i, d := range []string{"2024-01-05", "2024-06-07", "2025-03-07", "2025-06-27"} {
		nav = append(nav, domain.NavPoint{Date: d, NAV: 1 + float64(i)/10})
	}
	trace := &domain.DecisionTrace{
		Date:        "2025-06-27",
		Candidates:  []string{"GLD", "BND"},
		Chosen:      "GLD",
		Scores:      map[string]float64{"GLD": 65, "BND": 45},
		Sigma:       map[string]float64{"GLD": 0.138, "BND": 0.061},
		SigmaMedian: 0.0995,
	}
	weights := []domain.MeoWeight{{Symbol: "USD", Weight: 0.4}, {Symbol: "XAU", Weight: 0.2}}
	return charts.NewService(charts.Data{Nav: nav, Trace: trace, Weights: weights}, testLogger())
}

func TestHandleGetChart(t *testing.T) {
	router := setupRouter(testService())

	for _, path := range []string{"/charts/nav_meo.svg", "/logic/score_breakdown.svg", "/logic/sigma_gate.svg", "/logic/meo_weights.svg"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.True(t, strings.Contains(w.Body.String(), "<svg"), path)
	}
}

type failingSource struct{ err error }

func (f failingSource) Render(string) ([]byte, error) { return nil, f.err }
func (f failingSource) NavSeries(string) []charts.ChartDataPoint { return nil }

func TestHandleGetChart_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown", charts.ErrUnknownChart, http.StatusNotFound},
		{"render failure", errors.New("need at least 2 points"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(failingSource{err: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/logic/sigma_gate.svg", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleGetNavSeries(t *testing.T) {
	router := setupRouter(testService())

	get := func(url string) (string, int) {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Range  string                  `json:"range"`
				Points []charts.ChartDataPoint `json:"points"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Data.Range, len(resp.Data.Points)
	}

	rng, n := get("/api/charts/nav")
	assert.Equal(t, "ALL", rng)
	assert.Equal(t, 4, n)

	rng, n = get("/api/charts/nav?range=1y")
	assert.Equal(t, "1Y", rng)
	assert.Equal(t, 2, n)

	rng, n = get("/api/charts/nav?range=ytd")
	assert.Equal(t, "YTD", rng)
	assert.Equal(t, 2, n)
}

func TestHandleGetNavSeries_InvalidRange(t *testing.T) {
	router := setupRouter(testService())

	for _, rng := range []string{"5Y", "bogus"} {
		req := httptest.NewRequest(http.MethodGet, "/api/charts/nav?range="+rng, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, rng)
	}
}
