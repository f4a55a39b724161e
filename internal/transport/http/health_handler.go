package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mcainsights/internal/services"
)

// HealthHandler serves the probe and version endpoints under /api.
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the probe and version routes, relative to /api.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(noStore)

	r.Get("/health", h.probe("health", h.service.HealthCheck))
	r.Get("/health/ready", h.probe("readiness", h.service.ReadinessCheck))
	r.Get("/health/live", h.probe("liveness", h.service.LivenessCheck))
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, h.service.Version())
	})
	return r
}

// probe answers with the check's body and a status code derived from it, so
// orchestrators can act on the code alone.
func (h *HealthHandler) probe(name string, check func(context.Context) services.HealthStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := check(r.Context())
		code := probeStatusCode(status.Status)
		if code != http.StatusOK {
			h.logger.DebugContext(r.Context(), "probe not passing",
				slog.String("probe", name),
				slog.String("status", status.Status))
		}
		render.Status(r, code)
		render.JSON(w, r, status)
	}
}

// probeStatusCode maps a HealthStatus.Status to HTTP. Anything other than
// a passing state, including "loading" and "failed" data, is 503.
func probeStatusCode(status string) int {
	switch status {
	case "ok", "ready", "alive":
		return http.StatusOK
	default:
		return http.StatusServiceUnavailable
	}
}

// noStore keeps intermediaries from caching probe answers.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
