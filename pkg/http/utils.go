package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an upstream error body is kept
const maxErrorBody = 64 << 10

// NewJSONRequest creates a JSON HTTP request with proper headers
func NewJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// ErrorResponse covers the two error body shapes the gateway talks to:
// OpenAI's {"error": {"message": ...}} and the catalog's
// {"status": "error", "message": ...}.
type ErrorResponse struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError represents a failed upstream reply
type APIError struct {
	StatusCode int
	Message    string // Empty when the body carried no message
	Type       string
	Code       string
	RawBody    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// ParseAPIError extracts the upstream message from an error body.
// Message stays empty when the body has none, so callers can apply
// their own status-specific fallback.
func ParseAPIError(statusCode int, body []byte) *APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	apiErr := &APIError{
		StatusCode: statusCode,
		RawBody:    string(body),
	}

	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorResp.Error != nil {
			apiErr.Message = errorResp.Error.Message
			apiErr.Type = errorResp.Error.Type
			apiErr.Code = errorResp.Error.Code
		} else {
			apiErr.Message = errorResp.Message
		}
	}

	apiErr.Message = strings.TrimSpace(apiErr.Message)
	return apiErr
}

// IsSuccess reports whether status is 2xx
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// ReadAll drains and closes resp.Body
func ReadAll(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// BearerHeader builds an Authorization header map for token
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
