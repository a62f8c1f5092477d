/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request log (method, path, status, duration, request id)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/workers/*        Worker roster
  /api/jobs/*           Job definitions and previews
  /api/job-entries/*    Computed job entries
  /api/attendance       Attendance records
  /api/leave-*          Leave requests and balances
  /api/dashboards/*     Analytics dashboards
  /api/alerts           Alert monitor state
  /api/scenarios/*      Demo data (dev only)
  /healthz              Liveness and database ping
  /metrics              Prometheus metrics (when enabled)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures the parts of the router that vary per deployment.
type RouterOptions struct {
	AllowedOrigins []string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Ping checks the backing store for /healthz when set.
	Ping func(ctx context.Context) error
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ping != nil {
			if err := opts.Ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.CreateWorker)
			r.Get("/{id}", h.GetWorker)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Get("/{id}", h.GetJob)
			r.Delete("/{id}", h.DeleteJob)
			r.Post("/{id}/preview", h.PreviewJob)
		})

		// No update route: entries are deleted and re-entered.
		r.Route("/job-entries", func(r chi.Router) {
			r.Get("/", h.ListJobEntries)
			r.Post("/", h.CreateJobEntry)
			r.Get("/{id}", h.GetJobEntry)
			r.Delete("/{id}", h.DeleteJobEntry)
		})

		r.Post("/attendance", h.CreateAttendance)
		r.Post("/leave-requests", h.CreateLeaveRequest)
		r.Post("/leave-balances", h.CreateLeaveBalance)

		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/", h.ListDashboards)
			r.Get("/{name}", h.GetDashboard)
		})
		r.Get("/alerts", h.ListAlerts)

		// Demo data (dev only)
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// =============================================================================
// REQUEST LOGGING
// =============================================================================

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
