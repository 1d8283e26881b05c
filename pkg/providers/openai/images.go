// Package openai is the gateway's adapter for the OpenAI Images API.
// The API key is supplied per call; the adapter holds no credentials.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"go.uber.org/zap"
)

// DefaultImagesURL is the OpenAI image generation endpoint
const DefaultImagesURL = "https://api.openai.com/v1/images/generations"

// Supported image models
const (
	ModelDallE2 = "dall-e-2"
	ModelDallE3 = "dall-e-3"
)

// Image sizes and qualities used by the gateway
const (
	SizeSquare      = "1024x1024"
	SizePortrait    = "1024x1792"
	QualityStandard = "standard"
)

const operationGenerate = "generate_image"

// ImageRequest is the body of POST /v1/images/generations
type ImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format"`
}

// ImageResponse is the success body of the images endpoint
type ImageResponse struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
	Error   *APIError   `json:"error,omitempty"`
}

// ImageData is one generated image
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// APIError is the OpenAI error object
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// IsSupportedModel reports whether model is one of the DALL-E models the
// gateway knows how to size
func IsSupportedModel(model string) bool {
	return model == ModelDallE2 || model == ModelDallE3
}

// ImageProvider calls the OpenAI Images API
type ImageProvider struct {
	url    string
	client *gwhttp.HTTPClient
	logger *zap.Logger
}

// NewImageProvider creates an image provider posting to url
// (DefaultImagesURL when empty)
func NewImageProvider(url string, client *gwhttp.HTTPClient, logger *zap.Logger) *ImageProvider {
	if url == "" {
		url = DefaultImagesURL
	}
	if client == nil {
		client = gwhttp.NewHTTPClient(gwhttp.HTTPClientConfig{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProvider{url: url, client: client, logger: logger}
}

// Metrics exposes the underlying client metrics
func (p *ImageProvider) Metrics() gwhttp.ClientMetrics {
	return p.client.GetMetrics()
}

// GenerateImage sends one generation request authorized with apiKey and
// returns the first image URL.
//
// A non-2xx status or an error payload yields *types.UpstreamError with the
// upstream message (or MsgImageAPIFailed). A success without a URL yields
// *types.MissingDataError.
func (p *ImageProvider) GenerateImage(ctx context.Context, apiKey string, req ImageRequest) (string, error) {
	p.logger.Debug("requesting image generation",
		zap.String("model", req.Model),
		zap.String("size", req.Size),
		zap.String("quality", req.Quality))

	resp, err := p.client.PostJSON(ctx, p.url, req, gwhttp.BearerHeader(apiKey))
	if err != nil {
		return "", types.NewUpstreamError(types.UpstreamOpenAI, operationGenerate, 0, types.MsgImageAPIFailed).
			WithOriginalErr(err)
	}

	body, err := gwhttp.ReadAll(resp)
	if err != nil {
		return "", types.NewUpstreamError(types.UpstreamOpenAI, operationGenerate, resp.StatusCode, types.MsgImageAPIFailed).
			WithOriginalErr(err)
	}

	if !gwhttp.IsSuccess(resp.StatusCode) {
		apiErr := gwhttp.ParseAPIError(resp.StatusCode, body)
		p.logger.Warn("image API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("type", apiErr.Type),
			zap.String("message", apiErr.Message))
		return "", types.NewUpstreamError(types.UpstreamOpenAI, operationGenerate, resp.StatusCode, messageOr(apiErr.Message)).
			WithOriginalErr(apiErr)
	}

	var parsed ImageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse image API response: %w", err)
	}

	if parsed.Error != nil {
		p.logger.Warn("image API returned an error payload",
			zap.Int("status", resp.StatusCode),
			zap.String("type", parsed.Error.Type),
			zap.String("message", parsed.Error.Message))
		// The upstream status is kept; the route boundary answers a
		// non-error status with 502
		return "", types.NewUpstreamError(types.UpstreamOpenAI, operationGenerate, resp.StatusCode, messageOr(parsed.Error.Message))
	}

	if len(parsed.Data) == 0 || strings.TrimSpace(parsed.Data[0].URL) == "" {
		return "", types.NewMissingDataError(types.UpstreamOpenAI, "data[0].url", types.MsgImageURLMissing)
	}

	return parsed.Data[0].URL, nil
}

func messageOr(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return types.MsgImageAPIFailed
	}
	return msg
}
