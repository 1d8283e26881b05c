package handlers

import (
	"net/http"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
)

// ListBooks handles GET /api/books. The backend target comes from the
// query string.
func (h *GatewayHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := backendtypes.BackendTarget{
		BackendIP:   q.Get("backendIp"),
		BackendHost: q.Get("backendHost"),
		BackendPort: backendtypes.FlexString(q.Get("backendPort")),
	}

	baseURL, err := h.resolveBackend(target)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	result, err := h.forwarder.RelayCatalog(r.Context(), forwarder.OpListBooks, forwarder.CatalogRequest{}, baseURL)
	if err != nil {
		writeRelayError(w, err)
		return
	}
	SendRaw(w, result.Status, result.Body)
}

// CreateBook handles POST /api/books
func (h *GatewayHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpCreateBook)
}

// UpdateBook handles PUT /api/books
func (h *GatewayHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpUpdateBook)
}

// DeleteBook handles DELETE /api/books
func (h *GatewayHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpDeleteBook)
}

// CheckBook handles POST /api/books/check
func (h *GatewayHandler) CheckBook(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpCheckBook)
}

// UpdateImage handles PUT /api/image
func (h *GatewayHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpUpdateImage)
}

// CheckImage handles POST /api/image/check
func (h *GatewayHandler) CheckImage(w http.ResponseWriter, r *http.Request) {
	h.relayBook(w, r, forwarder.OpCheckImage)
}

func (h *GatewayHandler) relayBook(w http.ResponseWriter, r *http.Request, op forwarder.CatalogOp) {
	var body backendtypes.BookRequest
	if err := ParseJSON(r, &body); err != nil {
		writeRelayError(w, types.NewValidationError(types.KindInvalidRequest, types.MsgInvalidJSON))
		return
	}

	baseURL, err := h.resolveBackend(body.BackendTarget)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	result, err := h.forwarder.RelayCatalog(r.Context(), op, forwarder.CatalogRequest{
		BookID:      body.BookID,
		UserID:      body.UserID,
		Title:       body.Title,
		Description: body.Description,
		ImageURL:    body.ImageURL,
	}, baseURL)
	if err != nil {
		writeRelayError(w, err)
		return
	}
	SendRaw(w, result.Status, result.Body)
}

// Publish handles POST /api/books/publish
func (h *GatewayHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var body backendtypes.PublishRequest
	if err := ParseJSON(r, &body); err != nil {
		writeRelayError(w, types.NewValidationError(types.KindInvalidRequest, types.MsgInvalidJSON))
		return
	}

	req := forwarder.PublishRequest{
		BookID:   body.BookID,
		UserID:   body.UserID,
		Title:    body.Title,
		Content:  body.Content,
		ImageURL: body.ImageURL,
	}
	if err := req.Validate(); err != nil {
		writeRelayError(w, err)
		return
	}

	baseURL, err := h.resolveBackend(body.BackendTarget)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	result, err := h.forwarder.Publish(r.Context(), req, baseURL)
	if err != nil {
		writeRelayError(w, err)
		return
	}
	SendRaw(w, result.Status, result.Body)
}
