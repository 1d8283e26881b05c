package catalog

import "encoding/json"

// SignupPayload is the signup body. UserID is always sent as null.
type SignupPayload struct {
	UserID   *int64 `json:"user_id"`
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// NewSignupPayload builds a signup body with a null user_id
func NewSignupPayload(loginID, password string) SignupPayload {
	return SignupPayload{LoginID: loginID, Password: password}
}

// LoginPayload is the login body
type LoginPayload struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// BookDraft is a book create or update body. IDs accept JSON numbers and
// numeric strings.
type BookDraft struct {
	BookID      json.Number `json:"book_id,omitempty"`
	UserID      json.Number `json:"user_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// BookRef identifies a book on behalf of a user
type BookRef struct {
	BookID json.Number `json:"book_id,omitempty"`
	UserID json.Number `json:"user_id,omitempty"`
}

// ImageRef points a book at an image URL
type ImageRef struct {
	BookID   json.Number `json:"book_id,omitempty"`
	UserID   json.Number `json:"user_id,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
}

// CoverRecord is the body sent to the image endpoint after a cover is
// generated
type CoverRecord struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}
