package image

import (
	"fmt"
	"strings"
)

// Provider identifies a supported API provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// modelAliases maps short names to full model identifiers.
var modelAliases = map[string]string{
	"nano-banana":     "gemini-3.1-flash-image-preview",
	"nano-banana-pro": "gemini-3-pro-image-preview",
	"gpt-1.5":         "gpt-image-1.5",
	"gpt-1":           "gpt-image-1",
	"gpt-1-mini":      "gpt-image-1-mini",
}

// ResolveModel resolves a model name (alias or exact) to the full model
// identifier. Unknown names pass through unchanged.
func ResolveModel(name string) string {
	if full, ok := modelAliases[name]; ok {
		return full
	}
	return name
}

// DetectProvider detects the provider from a resolved model name.
func DetectProvider(model string) (Provider, error) {
	switch {
	case strings.HasPrefix(model, "gemini"):
		return ProviderGemini, nil
	case strings.HasPrefix(model, "gpt-image"):
		return ProviderOpenAI, nil
	default:
		return "", &Error{
			Code:    ErrInvalidRequest,
			Message: fmt.Sprintf("unknown provider for model %q; expected 'gemini-*' or 'gpt-image-*'", model),
		}
	}
}
