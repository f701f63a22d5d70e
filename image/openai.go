package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OpenAIGenerator calls the OpenAI Images API.
type OpenAIGenerator struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIGenerator creates a new OpenAI image generator.
func NewOpenAIGenerator(cfg OpenAIConfig, logger *zap.Logger) *OpenAIGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIConfig().BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type openaiRequest struct {
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	N            int    `json:"n,omitempty"`
	Size         string `json:"size,omitempty"`
	Quality      string `json:"quality,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

type openaiResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate creates images with the OpenAI Images API.
func (g *OpenAIGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	// The Images API only offers 1024px sizes; 2K/4K fall back to auto.
	size := "auto"
	if req.Size == "1K" {
		size = OpenAISize(req.AspectRatio)
	}

	body := openaiRequest{
		Model:        req.Model,
		Prompt:       req.Prompt,
		N:            req.Count,
		Size:         size,
		Quality:      req.Quality,
		OutputFormat: req.Format,
	}

	payload, _ := json.Marshal(body)
	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/v1/images/generations"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	g.logger.Debug("openai image request", zap.String("model", req.Model), zap.String("size", size))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("openai request failed: %v", err), Provider: string(ProviderOpenAI), Retryable: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to read openai response: %v", err), Provider: string(ProviderOpenAI), Retryable: true}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Code:       ErrUpstream,
			Message:    fmt.Sprintf("openai error: status=%d body=%s", resp.StatusCode, truncate(respBody, 500)),
			HTTPStatus: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Provider:   string(ProviderOpenAI),
		}
	}

	var oResp openaiResponse
	if err := json.Unmarshal(respBody, &oResp); err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to decode openai response: %v", err), Provider: string(ProviderOpenAI)}
	}

	mimeType := "image/" + req.Format
	images := make([]Image, 0, len(oResp.Data))
	for _, item := range oResp.Data {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to decode image data: %v", err), Provider: string(ProviderOpenAI)}
		}
		images = append(images, Image{Data: data, MimeType: mimeType})
	}

	if len(images) == 0 {
		return nil, &Error{
			Code:       ErrUpstream,
			Message:    fmt.Sprintf("no images in openai response: %s", truncate(respBody, 500)),
			HTTPStatus: resp.StatusCode,
			Provider:   string(ProviderOpenAI),
		}
	}

	return &Response{Images: images}, nil
}
