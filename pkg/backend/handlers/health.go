package handlers

import (
	"net/http"
	"time"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
)

// MetricsSource reports outbound traffic to one upstream
type MetricsSource interface {
	Metrics() gwhttp.ClientMetrics
}

type HealthHandler struct {
	upstreams map[string]MetricsSource
	version   string
	startTime time.Time
}

func NewHealthHandler(upstreams map[string]MetricsSource, version string) *HealthHandler {
	return &HealthHandler{
		upstreams: upstreams,
		version:   version,
		startTime: time.Now(),
	}
}

// Status returns simple liveness status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{"status": "ok"})
}

// Health returns uptime and a traffic summary per upstream
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	upstreams := make(map[string]backendtypes.UpstreamHealth, len(h.upstreams))
	for name, src := range h.upstreams {
		upstreams[name] = summarize(src.Metrics())
	}

	SendSuccess(w, r, backendtypes.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Upstreams: upstreams,
	})
}

// Version returns version information
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{
		"version": h.version,
	})
}

// summarize reports "idle" before any traffic and "degraded" when every
// request so far failed at the transport level
func summarize(m gwhttp.ClientMetrics) backendtypes.UpstreamHealth {
	health := backendtypes.UpstreamHealth{
		Status:       "ok",
		Requests:     m.TotalRequests,
		Failures:     m.FailedReqs,
		AvgLatencyMs: m.AvgLatency.Milliseconds(),
	}
	switch {
	case m.TotalRequests == 0:
		health.Status = "idle"
	case m.SuccessfulReqs == 0 && m.FailedReqs > 0:
		health.Status = "degraded"
		health.Message = "no upstream replies received"
	}
	return health
}
