package forwarder

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"go.uber.org/zap"
)

// PublishRequest saves a book and its cover. An empty BookID creates a new
// book; otherwise the existing book is edited.
type PublishRequest struct {
	BookID   json.Number
	UserID   json.Number
	Title    string
	Content  string
	ImageURL string
}

// Validate checks that title, content and cover are all present
func (r PublishRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Content) == "" || strings.TrimSpace(r.ImageURL) == "" {
		return types.NewValidationError(types.KindInvalidRequest, types.MsgPublishFieldsRequired)
	}
	if utf8.RuneCountInString(r.Content) > MaxContentLength {
		return types.NewValidationError(types.KindInvalidRequest, types.MsgContentTooLong)
	}
	return nil
}

// Publish creates or edits a book and then attaches its cover. The reply of
// the image step is returned. The first failing step stops the flow.
func (f *Forwarder) Publish(ctx context.Context, req PublishRequest, baseURL string) (catalog.RelayResult, error) {
	if err := req.Validate(); err != nil {
		return catalog.RelayResult{}, err
	}

	draft := catalog.BookDraft{
		BookID:      req.BookID,
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Content,
	}

	if req.BookID == "" {
		return f.publishNew(ctx, draft, req.ImageURL, baseURL)
	}
	return f.publishEdit(ctx, draft, req.ImageURL, baseURL)
}

func (f *Forwarder) publishNew(ctx context.Context, draft catalog.BookDraft, imageURL, baseURL string) (catalog.RelayResult, error) {
	result, err := f.catalog.CreateBook(ctx, baseURL, draft)
	if _, err := f.checkRelay(string(OpCreateBook), baseURL, result, err, backendFallback); err != nil {
		return result, err
	}

	bookID, err := catalog.BookID(result)
	if err != nil {
		f.logger.Error("create-book reply has no usable book_id", zap.Error(err))
		return catalog.RelayResult{}, types.NewMissingDataError(types.UpstreamCatalog, "book_id", types.MsgBackendError)
	}

	f.logger.Debug("book created", zap.Int64("book_id", bookID))

	result, err = f.catalog.CreateImage(ctx, baseURL, catalog.ImageRef{
		BookID:   json.Number(strconv.FormatInt(bookID, 10)),
		ImageURL: imageURL,
	})
	return f.checkRelay(string(OpCreateImage), baseURL, result, err, backendFallback)
}

func (f *Forwarder) publishEdit(ctx context.Context, draft catalog.BookDraft, imageURL, baseURL string) (catalog.RelayResult, error) {
	result, err := f.catalog.UpdateBook(ctx, baseURL, draft)
	if _, err := f.checkRelay(string(OpUpdateBook), baseURL, result, err, backendFallback); err != nil {
		return result, err
	}

	result, err = f.catalog.UpdateImage(ctx, baseURL, catalog.ImageRef{
		BookID:   draft.BookID,
		UserID:   draft.UserID,
		ImageURL: imageURL,
	})
	return f.checkRelay(string(OpUpdateImage), baseURL, result, err, backendFallback)
}
