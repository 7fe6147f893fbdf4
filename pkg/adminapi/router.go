// Package adminapi is the operator-facing REST management server: account
// CRUD, connected-session listing and kicking, server-wide broadcast, and
// health/metrics probes, all distinct from the TRTP wire protocol itself.
package adminapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trtpd/trtpd/internal/logger"
	internalserver "github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/pkg/adminapi/auth"
)

// NewRouter builds the chi router serving the admin API: unauthenticated
// health and metrics probes, a login endpoint, and JWT-protected account,
// session, and broadcast management routes.
//
// Routes:
//   - GET  /health            - liveness probe
//   - GET  /health/ready      - readiness probe (account store reachable)
//   - GET  /metrics           - Prometheus exposition
//   - POST /api/v1/auth/login - operator login
//   - /api/v1/accounts/*      - account management (authenticated)
//   - /api/v1/sessions/*      - connected-session listing and kick (authenticated)
//   - POST /api/v1/broadcast  - server-wide broadcast (authenticated)
func NewRouter(state *internalserver.State, jwtService *auth.JWTService, operator auth.Operator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	health := newHealthHandler(state)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", health.Liveness)
		r.Get("/ready", health.Readiness)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	authH := newAuthHandler(operator, jwtService)
	accountH := newAccountHandler(state.Account)
	sessionH := newSessionHandler(state)
	broadcastH := newBroadcastHandler(state)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth(jwtService))

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", accountH.Create)
				r.Get("/", accountH.List)
				r.Get("/{login}", accountH.Get)
				r.Put("/{login}", accountH.Update)
				r.Delete("/{login}", accountH.Delete)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionH.List)
				r.Delete("/{id}", sessionH.Kick)
			})

			r.Post("/broadcast", broadcastH.Send)
		})
	})

	return r
}

// requestLogger logs every request through the shared slog-based logger,
// demoting health checks to DEBUG so they don't drown out real traffic.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		args := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		}

		if r.URL.Path == "/health" || r.URL.Path == "/health/ready" {
			logger.Debug("admin API request", args...)
		} else {
			logger.Info("admin API request", args...)
		}
	})
}
