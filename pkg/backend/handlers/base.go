package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend/middleware"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
)

// maxBodyBytes bounds inbound request bodies
const maxBodyBytes = 1 << 20

// SendSuccess sends a successful JSON response with data
func SendSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, backendtypes.APIResponse{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now(),
	})
}

// SendError sends an error JSON response with APIError
func SendError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	writeJSON(w, statusCode, backendtypes.APIResponse{
		Success: false,
		Error: &backendtypes.APIError{
			Code:    code,
			Message: message,
		},
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now(),
	})
}

// SendRaw relays an upstream JSON body with its status
func SendRaw(w http.ResponseWriter, statusCode int, body json.RawMessage) {
	if statusCode == http.StatusNoContent || statusCode == http.StatusNotModified {
		w.WriteHeader(statusCode)
		return
	}
	if len(body) == 0 {
		body = json.RawMessage(`{}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// ParseJSON parses JSON from request body into target
func ParseJSON(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// callerMessage picks the caller-facing text carried by err, or fallback
// when err is not one of the gateway's typed errors
func callerMessage(err error, fallback string) string {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ue *types.UpstreamError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	var md *types.MissingDataError
	if errors.As(err, &md) && md.Message != "" {
		return md.Message
	}
	return fallback
}

// statusFor maps err to an HTTP status, keeping it in the valid range
func statusFor(err error) int {
	status := types.HTTPStatus(err)
	if status < 400 || status > 599 {
		return http.StatusBadGateway
	}
	return status
}
