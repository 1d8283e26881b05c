package backendtypes

import (
	"bytes"
	"encoding/json"
)

// FlexString accepts a JSON string or number, so a port can be sent as
// "8080" or 8080
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// BackendTarget optionally overrides the catalog backend for one request.
// BackendIP wins over BackendHost.
type BackendTarget struct {
	BackendIP   string     `json:"backendIp,omitempty"`
	BackendHost string     `json:"backendHost,omitempty"`
	BackendPort FlexString `json:"backendPort,omitempty"`
}

// CoverGenerateRequest is the body of POST /api/cover-generator
type CoverGenerateRequest struct {
	APIKey  string `json:"apiKey"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Model   string `json:"model"`
	BackendTarget
}

// CredentialsRequest is the body of POST /api/signup and POST /api/login
type CredentialsRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
	BackendTarget
}

// BookRequest is the body of the book and image passthrough routes
type BookRequest struct {
	BookID      json.Number `json:"book_id,omitempty"`
	UserID      json.Number `json:"user_id,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	BackendTarget
}

// PublishRequest is the body of POST /api/books/publish. An empty BookID
// creates a new book.
type PublishRequest struct {
	BookID   json.Number `json:"bookId,omitempty"`
	UserID   json.Number `json:"userId,omitempty"`
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	ImageURL string      `json:"imageUrl"`
	BackendTarget
}
