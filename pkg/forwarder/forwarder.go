// Package forwarder relays gateway requests to the image API and the
// catalog backend, and maps upstream failures onto caller-facing errors.
//
// A Forwarder holds no per-request state. The backend base URL is resolved
// by the caller and passed into every operation.
package forwarder

import (
	"context"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/providers/openai"
	"go.uber.org/zap"
)

// ImageGenerator produces an image URL from a generation request
type ImageGenerator interface {
	GenerateImage(ctx context.Context, apiKey string, req openai.ImageRequest) (string, error)
}

// Catalog is the subset of the catalog backend the forwarder uses
type Catalog interface {
	Signup(ctx context.Context, baseURL string, req catalog.SignupPayload) (catalog.RelayResult, error)
	Login(ctx context.Context, baseURL string, req catalog.LoginPayload) (catalog.RelayResult, error)
	ListBooks(ctx context.Context, baseURL string) (catalog.RelayResult, error)
	CreateBook(ctx context.Context, baseURL string, draft catalog.BookDraft) (catalog.RelayResult, error)
	UpdateBook(ctx context.Context, baseURL string, draft catalog.BookDraft) (catalog.RelayResult, error)
	DeleteBook(ctx context.Context, baseURL string, ref catalog.BookRef) (catalog.RelayResult, error)
	CheckBook(ctx context.Context, baseURL string, ref catalog.BookRef) (catalog.RelayResult, error)
	CreateImage(ctx context.Context, baseURL string, ref catalog.ImageRef) (catalog.RelayResult, error)
	UpdateImage(ctx context.Context, baseURL string, ref catalog.ImageRef) (catalog.RelayResult, error)
	CheckImage(ctx context.Context, baseURL string, ref catalog.ImageRef) (catalog.RelayResult, error)
	SaveCover(ctx context.Context, baseURL string, cover catalog.CoverRecord) error
}

// Forwarder relays requests to upstreams
type Forwarder struct {
	images  ImageGenerator
	catalog Catalog
	logger  *zap.Logger
}

// New creates a Forwarder
func New(images ImageGenerator, cat Catalog, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		images:  images,
		catalog: cat,
		logger:  logger,
	}
}
