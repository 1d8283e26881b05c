package forwarder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"go.uber.org/zap"
)

// Credentials is a login id and password pair
type Credentials struct {
	LoginID  string
	Password string
}

// CatalogOp names a passthrough catalog operation
type CatalogOp string

const (
	OpListBooks   CatalogOp = "list_books"
	OpCreateBook  CatalogOp = "create_book"
	OpUpdateBook  CatalogOp = "update_book"
	OpDeleteBook  CatalogOp = "delete_book"
	OpCheckBook   CatalogOp = "check_book"
	OpCreateImage CatalogOp = "create_image"
	OpUpdateImage CatalogOp = "update_image"
	OpCheckImage  CatalogOp = "check_image"
)

// CatalogRequest carries the fields any catalog operation may need.
// Each operation sends only the fields its endpoint reads.
type CatalogRequest struct {
	BookID      json.Number
	UserID      json.Number
	Title       string
	Description string
	ImageURL    string
}

// fallbackMessage picks the caller-facing message for a failed relay
// whose upstream body carried none
type fallbackMessage func(status int) string

func backendFallback(status int) string {
	if status == http.StatusBadRequest {
		return types.MsgInvalidBackendAddress
	}
	return types.MsgBackendError
}

func signupFallback(status int) string {
	if status == http.StatusNotFound {
		return types.MsgCheckCredentials
	}
	return backendFallback(status)
}

func loginFallback(status int) string {
	if status == http.StatusUnauthorized {
		return types.MsgWrongCredentials
	}
	return signupFallback(status)
}

// ForwardSignup registers a user with the catalog backend at baseURL
func (f *Forwarder) ForwardSignup(ctx context.Context, creds Credentials, baseURL string) (catalog.RelayResult, error) {
	result, err := f.catalog.Signup(ctx, baseURL, catalog.NewSignupPayload(creds.LoginID, creds.Password))
	return f.checkRelay("signup", baseURL, result, err, signupFallback)
}

// ForwardLogin authenticates a user against the catalog backend at baseURL
func (f *Forwarder) ForwardLogin(ctx context.Context, creds Credentials, baseURL string) (catalog.RelayResult, error) {
	result, err := f.catalog.Login(ctx, baseURL, catalog.LoginPayload{
		LoginID:  creds.LoginID,
		Password: creds.Password,
	})
	return f.checkRelay("login", baseURL, result, err, loginFallback)
}

// RelayCatalog runs one passthrough catalog operation
func (f *Forwarder) RelayCatalog(ctx context.Context, op CatalogOp, req CatalogRequest, baseURL string) (catalog.RelayResult, error) {
	var (
		result catalog.RelayResult
		err    error
	)

	switch op {
	case OpListBooks:
		result, err = f.catalog.ListBooks(ctx, baseURL)
	case OpCreateBook:
		result, err = f.catalog.CreateBook(ctx, baseURL, req.draft())
	case OpUpdateBook:
		result, err = f.catalog.UpdateBook(ctx, baseURL, req.draft())
	case OpDeleteBook:
		result, err = f.catalog.DeleteBook(ctx, baseURL, req.bookRef())
	case OpCheckBook:
		result, err = f.catalog.CheckBook(ctx, baseURL, req.bookRef())
	case OpCreateImage:
		result, err = f.catalog.CreateImage(ctx, baseURL, req.imageRef())
	case OpUpdateImage:
		result, err = f.catalog.UpdateImage(ctx, baseURL, req.imageRef())
	case OpCheckImage:
		result, err = f.catalog.CheckImage(ctx, baseURL, req.imageRef())
	default:
		return catalog.RelayResult{}, fmt.Errorf("unknown catalog operation %q", op)
	}

	return f.checkRelay(string(op), baseURL, result, err, backendFallback)
}

// checkRelay turns a transport failure or a non-2xx reply into an
// *types.UpstreamError. The upstream message wins over the fallback.
func (f *Forwarder) checkRelay(operation, baseURL string, result catalog.RelayResult, err error, fallback fallbackMessage) (catalog.RelayResult, error) {
	if err != nil {
		f.logger.Error("catalog call failed",
			zap.String("operation", operation),
			zap.String("backend", baseURL),
			zap.Error(err))
		return catalog.RelayResult{}, types.NewUpstreamError(types.UpstreamCatalog, operation, 0, types.MsgBackendError).
			WithOriginalErr(err)
	}

	if !result.OK() {
		message := result.Message()
		if message == "" {
			message = fallback(result.Status)
		}
		f.logger.Warn("catalog returned an error",
			zap.String("operation", operation),
			zap.String("backend", baseURL),
			zap.Int("status", result.Status),
			zap.String("message", message))
		return result, types.NewUpstreamError(types.UpstreamCatalog, operation, result.Status, message)
	}

	return result, nil
}

func (r CatalogRequest) draft() catalog.BookDraft {
	return catalog.BookDraft{
		BookID:      r.BookID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
	}
}

func (r CatalogRequest) bookRef() catalog.BookRef {
	return catalog.BookRef{BookID: r.BookID, UserID: r.UserID}
}

func (r CatalogRequest) imageRef() catalog.ImageRef {
	return catalog.ImageRef{BookID: r.BookID, UserID: r.UserID, ImageURL: r.ImageURL}
}
