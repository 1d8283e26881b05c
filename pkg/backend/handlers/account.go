package handlers

import (
	"net/http"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
)

// Signup handles POST /api/signup
func (h *GatewayHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.relayCredentials(w, r, h.forwarder.ForwardSignup)
}

// Login handles POST /api/login
func (h *GatewayHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.relayCredentials(w, r, h.forwarder.ForwardLogin)
}

func (h *GatewayHandler) relayCredentials(w http.ResponseWriter, r *http.Request, forward credentialsForwardFunc) {
	var body backendtypes.CredentialsRequest
	if err := ParseJSON(r, &body); err != nil {
		writeRelayError(w, types.NewValidationError(types.KindInvalidRequest, types.MsgInvalidJSON))
		return
	}

	baseURL, err := h.resolveBackend(body.BackendTarget)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	result, err := forward(r.Context(), forwarder.Credentials{
		LoginID:  body.LoginID,
		Password: body.Password,
	}, baseURL)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	SendRaw(w, result.Status, result.Body)
}

// writeRelayError answers a failed catalog relay with {"message": ...}
func writeRelayError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), backendtypes.MessageResponse{
		Message: callerMessage(err, types.MsgBackendError),
	})
}
