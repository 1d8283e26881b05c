package backendtypes

import "time"

// APIResponse is the standard response wrapper for the gateway's own
// endpoints
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CoverResponse is the success body of POST /api/cover-generator
type CoverResponse struct {
	ImageURL string `json:"imageUrl"`
}

// CoverErrorResponse is the failure body of POST /api/cover-generator
type CoverErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the failure body of the catalog relay routes
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse for health endpoints
type HealthResponse struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version"`
	Uptime    string                    `json:"uptime"`
	Upstreams map[string]UpstreamHealth `json:"upstreams,omitempty"`
}

// UpstreamHealth summarizes outbound traffic to one upstream
type UpstreamHealth struct {
	Status       string `json:"status"`
	Requests     int64  `json:"requests"`
	Failures     int64  `json:"failures"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
	Message      string `json:"message,omitempty"`
}
