package forwarder

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/providers/openai"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"go.uber.org/zap"
)

// MaxContentLength is the longest book content, in characters, the catalog
// stores
const MaxContentLength = 2000

const coverPromptTemplate = "A professional, minimalist book cover illustration. \n" +
	"The scene depicts: [%s] with the atmosphere matching the title: [%s].\n" +
	"The subject focus should be clear and realistic and must reflect the description.\n" +
	"\n" +
	"CRITICAL INSTRUCTIONS: Do not generate any text, letters, numbers, symbols, or logos anywhere in the image.\n" +
	"The entire image must be a visual illustration only."

// CoverRequest asks for one generated book cover
type CoverRequest struct {
	APIKey  string
	Title   string
	Content string
	Model   string
}

// Validate checks required fields, the model and the content length
func (r CoverRequest) Validate() error {
	if r.APIKey == "" || r.Title == "" || r.Content == "" || r.Model == "" {
		return types.NewValidationError(types.KindInvalidRequest, types.MsgCoverFieldsRequired)
	}
	if !openai.IsSupportedModel(r.Model) {
		return types.NewValidationError(types.KindInvalidRequest, types.MsgUnsupportedModel)
	}
	if utf8.RuneCountInString(r.Content) > MaxContentLength {
		return types.NewValidationError(types.KindInvalidRequest, types.MsgContentTooLong)
	}
	return nil
}

// CoverResult is a generated cover
type CoverResult struct {
	ImageURL string `json:"imageUrl"`
}

// BuildCoverPrompt renders the cover prompt for a book
func BuildCoverPrompt(title, content string) string {
	return strings.TrimSpace(fmt.Sprintf(coverPromptTemplate, content, title))
}

// SizeAndQuality picks the image size and quality for model. Only
// dall-e-3 takes a portrait size and an explicit quality.
func SizeAndQuality(model string) (size, quality string) {
	if model == openai.ModelDallE3 {
		return openai.SizePortrait, openai.QualityStandard
	}
	return openai.SizeSquare, ""
}

// BuildImageRequest builds the image API request for a cover
func BuildImageRequest(req CoverRequest) openai.ImageRequest {
	size, quality := SizeAndQuality(req.Model)
	return openai.ImageRequest{
		Model:          req.Model,
		Prompt:         BuildCoverPrompt(req.Title, req.Content),
		N:              1,
		Size:           size,
		Quality:        quality,
		ResponseFormat: "url",
	}
}

// ForwardCover generates a cover, then records it with the catalog backend
// at baseURL. Recording is best effort: its failure is logged and does not
// change the result.
func (f *Forwarder) ForwardCover(ctx context.Context, req CoverRequest, baseURL string) (CoverResult, error) {
	if err := req.Validate(); err != nil {
		return CoverResult{}, err
	}

	imageURL, err := f.images.GenerateImage(ctx, req.APIKey, BuildImageRequest(req))
	if err != nil {
		return CoverResult{}, fmt.Errorf("generate cover: %w", err)
	}

	f.saveCover(ctx, baseURL, catalog.CoverRecord{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: imageURL,
	})

	return CoverResult{ImageURL: imageURL}, nil
}

func (f *Forwarder) saveCover(ctx context.Context, baseURL string, record catalog.CoverRecord) {
	if err := f.catalog.SaveCover(ctx, baseURL, record); err != nil {
		f.logger.Warn("failed to save generated cover to backend",
			zap.String("backend", baseURL),
			zap.Error(err))
		return
	}
	f.logger.Debug("saved generated cover to backend", zap.String("backend", baseURL))
}
