package handlers

import (
	"errors"
	"net/http"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend/middleware"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"go.uber.org/zap"
)

// GenerateCover handles POST /api/cover-generator
func (h *GatewayHandler) GenerateCover(w http.ResponseWriter, r *http.Request) {
	var body backendtypes.CoverGenerateRequest
	if err := ParseJSON(r, &body); err != nil {
		h.writeCoverError(w, r, types.NewValidationError(types.KindInvalidRequest, types.MsgInvalidJSON))
		return
	}

	req := forwarder.CoverRequest{
		APIKey:  body.APIKey,
		Title:   body.Title,
		Content: body.Content,
		Model:   body.Model,
	}
	if err := req.Validate(); err != nil {
		h.writeCoverError(w, r, err)
		return
	}

	baseURL, err := h.resolveBackend(body.BackendTarget)
	if err != nil {
		h.writeCoverError(w, r, err)
		return
	}

	result, err := h.forwarder.ForwardCover(r.Context(), req, baseURL)
	if err != nil {
		h.writeCoverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, backendtypes.CoverResponse{ImageURL: result.ImageURL})
}

func (h *GatewayHandler) writeCoverError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := callerMessage(err, types.MsgServerError)

	var sc types.StatusCoder
	if !errors.As(err, &sc) {
		h.logger.Error("cover generation failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
	}

	writeJSON(w, status, backendtypes.CoverErrorResponse{Error: message})
}
