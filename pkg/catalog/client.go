// Package catalog is a thin client for the book catalog backend.
//
// Every call takes the resolved base URL of the backend, since the address
// can change per request. Calls return the raw upstream status and body;
// deciding what a non-2xx reply means is left to the caller.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
	"go.uber.org/zap"
)

// Catalog backend paths
const (
	PathSignup     = "/api/v1/users/signup"
	PathLogin      = "/api/v1/users/login"
	PathBooks      = "/api/v1/books"
	PathBooksList  = "/api/v1/books/list"
	PathBooksPut   = "/api/v1/books/put"
	PathBooksDel   = "/api/v1/books/delete"
	PathBooksCheck = "/api/v1/books/check"
	PathImage      = "/api/v1/image"
	PathImagePut   = "/api/v1/image/put"
	PathImageCheck = "/api/v1/image/check"
)

// RelayResult is an upstream reply as received
type RelayResult struct {
	Status int
	Body   json.RawMessage
}

// OK reports whether the upstream answered 2xx
func (r RelayResult) OK() bool {
	return gwhttp.IsSuccess(r.Status)
}

// Message returns the upstream "message" field, if the body has one
func (r RelayResult) Message() string {
	if len(r.Body) == 0 {
		return ""
	}
	return gwhttp.ParseAPIError(r.Status, r.Body).Message
}

// Client talks to the catalog backend
type Client struct {
	http   *gwhttp.HTTPClient
	logger *zap.Logger
}

// NewClient creates a catalog client
func NewClient(client *gwhttp.HTTPClient, logger *zap.Logger) *Client {
	if client == nil {
		client = gwhttp.NewHTTPClient(gwhttp.HTTPClientConfig{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: client, logger: logger}
}

// Metrics exposes the underlying client metrics
func (c *Client) Metrics() gwhttp.ClientMetrics {
	return c.http.GetMetrics()
}

// Relay sends payload as JSON to baseURL+path and returns whatever came
// back. The error is non-nil only when no reply was received.
func (c *Client) Relay(ctx context.Context, method, baseURL, path string, payload interface{}) (RelayResult, error) {
	url := strings.TrimRight(baseURL, "/") + path

	resp, err := c.http.DoJSON(ctx, method, url, payload, nil)
	if err != nil {
		return RelayResult{}, fmt.Errorf("catalog %s: %w", path, err)
	}

	body, err := gwhttp.ReadAll(resp)
	if err != nil {
		return RelayResult{}, fmt.Errorf("catalog %s: %w", path, err)
	}

	c.logger.Debug("catalog call completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode))

	if len(body) > 0 && !json.Valid(body) {
		// Keep passthrough bodies valid JSON
		quoted, _ := json.Marshal(string(body))
		body = quoted
	}
	return RelayResult{Status: resp.StatusCode, Body: body}, nil
}

// Signup registers a user
func (c *Client) Signup(ctx context.Context, baseURL string, req SignupPayload) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathSignup, req)
}

// Login authenticates a user
func (c *Client) Login(ctx context.Context, baseURL string, req LoginPayload) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathLogin, req)
}

// ListBooks lists all books
func (c *Client) ListBooks(ctx context.Context, baseURL string) (RelayResult, error) {
	return c.Relay(ctx, http.MethodGet, baseURL, PathBooksList, nil)
}

// CreateBook creates a book
func (c *Client) CreateBook(ctx context.Context, baseURL string, draft BookDraft) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathBooks, draft)
}

// UpdateBook edits a book owned by draft.UserID
func (c *Client) UpdateBook(ctx context.Context, baseURL string, draft BookDraft) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPut, baseURL, PathBooksPut, draft)
}

// DeleteBook deletes a book owned by ref.UserID
func (c *Client) DeleteBook(ctx context.Context, baseURL string, ref BookRef) (RelayResult, error) {
	return c.Relay(ctx, http.MethodDelete, baseURL, PathBooksDel, ref)
}

// CheckBook fetches one book as seen by ref.UserID
func (c *Client) CheckBook(ctx context.Context, baseURL string, ref BookRef) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathBooksCheck, ref)
}

// CreateImage attaches a generated image to a book
func (c *Client) CreateImage(ctx context.Context, baseURL string, ref ImageRef) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathImage, ref)
}

// UpdateImage replaces a book's image
func (c *Client) UpdateImage(ctx context.Context, baseURL string, ref ImageRef) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPut, baseURL, PathImagePut, ref)
}

// CheckImage fetches a book's image
func (c *Client) CheckImage(ctx context.Context, baseURL string, ref ImageRef) (RelayResult, error) {
	return c.Relay(ctx, http.MethodPost, baseURL, PathImageCheck, ref)
}

// SaveCover records a freshly generated cover with the backend. Any
// non-2xx reply is returned as an error.
func (c *Client) SaveCover(ctx context.Context, baseURL string, cover CoverRecord) error {
	result, err := c.Relay(ctx, http.MethodPost, baseURL, PathImage, cover)
	if err != nil {
		return err
	}
	if !result.OK() {
		return gwhttp.ParseAPIError(result.Status, result.Body)
	}
	return nil
}

// BookID extracts book_id from a create-book reply
func BookID(result RelayResult) (int64, error) {
	var created struct {
		BookID *int64 `json:"book_id"`
	}
	if err := json.Unmarshal(result.Body, &created); err != nil {
		return 0, fmt.Errorf("failed to parse create-book response: %w", err)
	}
	if created.BookID == nil {
		return 0, fmt.Errorf("create-book response has no book_id")
	}
	return *created.BookID, nil
}
