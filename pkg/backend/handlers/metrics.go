package handlers

import (
	"net/http"
	"runtime"
	"time"

	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
)

// MetricsHandler serves outbound client and runtime metrics
type MetricsHandler struct {
	upstreams map[string]MetricsSource
	startTime time.Time
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(upstreams map[string]MetricsSource) *MetricsHandler {
	return &MetricsHandler{
		upstreams: upstreams,
		startTime: time.Now(),
	}
}

// UpstreamMetricsResponse holds client metrics per upstream
type UpstreamMetricsResponse struct {
	Upstreams map[string]gwhttp.ClientMetrics `json:"upstreams"`
	Timestamp time.Time                       `json:"timestamp"`
}

// SystemMetricsResponse represents system-level metrics
type SystemMetricsResponse struct {
	Uptime          string    `json:"uptime"`
	Goroutines      int       `json:"goroutines"`
	MemoryAllocated uint64    `json:"memory_allocated_bytes"`
	MemoryTotal     uint64    `json:"memory_total_bytes"`
	MemorySys       uint64    `json:"memory_sys_bytes"`
	NumGC           uint32    `json:"num_gc"`
	Timestamp       time.Time `json:"timestamp"`
}

// GetUpstreamMetrics handles GET /api/metrics/upstreams
func (h *MetricsHandler) GetUpstreamMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := make(map[string]gwhttp.ClientMetrics, len(h.upstreams))
	for name, src := range h.upstreams {
		metrics[name] = src.Metrics()
	}

	SendSuccess(w, r, UpstreamMetricsResponse{
		Upstreams: metrics,
		Timestamp: time.Now(),
	})
}

// GetSystemMetrics handles GET /api/metrics/system
func (h *MetricsHandler) GetSystemMetrics(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SendSuccess(w, r, SystemMetricsResponse{
		Uptime:          time.Since(h.startTime).String(),
		Goroutines:      runtime.NumGoroutine(),
		MemoryAllocated: m.Alloc,
		MemoryTotal:     m.TotalAlloc,
		MemorySys:       m.Sys,
		NumGC:           m.NumGC,
		Timestamp:       time.Now(),
	})
}
