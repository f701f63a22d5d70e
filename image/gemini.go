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

// GeminiGenerator calls the Google Gemini generateContent API.
type GeminiGenerator struct {
	cfg    GeminiConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeminiGenerator creates a new Gemini image generator.
func NewGeminiGenerator(cfg GeminiConfig, logger *zap.Logger) *GeminiGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiConfig().BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type geminiThinkingConfig struct {
	ThinkingLevel string `json:"thinkingLevel"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string              `json:"responseModalities"`
	ImageConfig        *geminiImageConfig    `json:"imageConfig,omitempty"`
	ThinkingConfig     *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate creates images with Gemini's native image generation.
func (g *GeminiGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &geminiImageConfig{
				AspectRatio: req.AspectRatio,
				ImageSize:   req.Size,
			},
		},
	}
	if req.Thinking != "" {
		body.GenerationConfig.ThinkingConfig = &geminiThinkingConfig{
			ThinkingLevel: strings.ToUpper(req.Thinking),
		}
	}

	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(g.cfg.BaseURL, "/"), req.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	g.logger.Debug("gemini image request", zap.String("model", req.Model), zap.Int("count", req.Count))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("gemini request failed: %v", err), Provider: string(ProviderGemini), Retryable: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to read gemini response: %v", err), Provider: string(ProviderGemini), Retryable: true}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Code:       ErrUpstream,
			Message:    fmt.Sprintf("gemini error: status=%d body=%s", resp.StatusCode, truncate(respBody, 500)),
			HTTPStatus: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Provider:   string(ProviderGemini),
		}
	}

	var gResp geminiResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to decode gemini response: %v", err), Provider: string(ProviderGemini)}
	}

	var images []Image
	for _, candidate := range gResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, &Error{Code: ErrUpstream, Message: fmt.Sprintf("failed to decode image data: %v", err), Provider: string(ProviderGemini)}
			}
			images = append(images, Image{Data: data, MimeType: part.InlineData.MimeType})
		}
	}

	if len(images) == 0 {
		return nil, &Error{
			Code:       ErrUpstream,
			Message:    fmt.Sprintf("no images in gemini response: %s", truncate(respBody, 500)),
			HTTPStatus: resp.StatusCode,
			Provider:   string(ProviderGemini),
		}
	}

	return &Response{Images: images}, nil
}

func truncate(body []byte, max int) string {
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
