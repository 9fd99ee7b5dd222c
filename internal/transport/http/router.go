package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"showup/internal/platform/metrics"
	"showup/internal/platform/middleware"
)

type RouterOption func(*routerConfig)

type routerConfig struct {
	throttler *middleware.Throttler
}

// WithThrottler rate limits state-changing endpoints.
func WithThrottler(t *middleware.Throttler) RouterOption {
	return func(c *routerConfig) { c.throttler = t }
}

// NewRouter wires all endpoints. Event reads, health, and metrics are open;
// every state-changing operation requires a bearer token.
func NewRouter(
	h *Handler,
	validator middleware.TokenValidator,
	httpMetrics *metrics.Metrics,
	logger *slog.Logger,
	opts ...RouterOption,
) http.Handler {
	var cfg routerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	if httpMetrics != nil {
		r.Use(middleware.Latency(httpMetrics))
	}

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/events/{eventID}", h.handleGetEvent)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		if cfg.throttler != nil {
			r.Use(cfg.throttler.Handler)
		}
		r.Post("/events", h.handleCreateEvent)
		r.Post("/events/{eventID}/rsvp", h.handleRSVP)
		r.Post("/events/{eventID}/attendees/{attendeeID}/confirm", h.handleConfirmAttendee)
		r.Post("/events/{eventID}/confirmations", h.handleConfirmAll)
		r.Post("/events/{eventID}/settlement", h.handleSettlement)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}
