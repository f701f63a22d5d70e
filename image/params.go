package image

import "fmt"

// validAspectRatios lists the aspect ratios accepted per provider.
var validAspectRatios = map[Provider][]string{
	ProviderGemini: {"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"},
	ProviderOpenAI: {"1:1", "16:9", "9:16", "3:2", "2:3", "4:3", "3:4", "5:4", "4:5", "21:9"},
}

// ValidateAspectRatio checks that an aspect ratio is supported by the provider.
func ValidateAspectRatio(ratio string, provider Provider) error {
	valid := validAspectRatios[provider]
	for _, v := range valid {
		if ratio == v {
			return nil
		}
	}
	return &Error{
		Code:    ErrInvalidRequest,
		Message: fmt.Sprintf("unsupported aspect ratio %q for %s; valid: %v", ratio, provider, valid),
	}
}

// ValidateSize checks the image size token.
func ValidateSize(size string) error {
	switch size {
	case "1K", "2K", "4K":
		return nil
	}
	return &Error{
		Code:    ErrInvalidRequest,
		Message: fmt.Sprintf("unsupported size %q; valid: 1K, 2K, 4K", size),
	}
}

// ValidateQuality checks the quality token.
func ValidateQuality(quality string) error {
	switch quality {
	case "auto", "low", "medium", "high":
		return nil
	}
	return &Error{
		Code:    ErrInvalidRequest,
		Message: fmt.Sprintf("unsupported quality %q; valid: auto, low, medium, high", quality),
	}
}

// ValidateFormat checks the output format token.
func ValidateFormat(format string) error {
	switch format {
	case "jpeg", "png", "webp":
		return nil
	}
	return &Error{
		Code:    ErrInvalidRequest,
		Message: fmt.Sprintf("unsupported format %q; valid: jpeg, png, webp", format),
	}
}

// ValidateThinking checks the thinking level token. Thinking is only
// supported for Gemini models.
func ValidateThinking(thinking string, provider Provider) error {
	if provider != ProviderGemini {
		return &Error{
			Code:    ErrInvalidRequest,
			Message: "thinking level is only supported for Gemini models",
		}
	}
	switch thinking {
	case "none", "minimal", "low", "medium", "high":
		return nil
	}
	return &Error{
		Code:    ErrInvalidRequest,
		Message: fmt.Sprintf("unsupported thinking level %q; valid: none, minimal, low, medium, high", thinking),
	}
}

// ValidateRequest runs all parameter checks for the given provider.
func ValidateRequest(req *Request, provider Provider) error {
	if err := ValidateAspectRatio(req.AspectRatio, provider); err != nil {
		return err
	}
	if err := ValidateSize(req.Size); err != nil {
		return err
	}
	if err := ValidateQuality(req.Quality); err != nil {
		return err
	}
	if err := ValidateFormat(req.Format); err != nil {
		return err
	}
	if req.Thinking != "" {
		if err := ValidateThinking(req.Thinking, provider); err != nil {
			return err
		}
	}
	return nil
}

// OpenAISize translates an aspect ratio token to OpenAI pixel dimensions.
// OpenAI supports 1024x1024, 1536x1024, 1024x1536 and "auto".
func OpenAISize(ratio string) string {
	switch ratio {
	case "1:1":
		return "1024x1024"
	case "16:9", "3:2", "4:3", "21:9", "5:4":
		return "1536x1024"
	case "9:16", "2:3", "3:4", "4:5":
		return "1024x1536"
	default:
		return "auto"
	}
}

// FormatExtension returns the file extension for an output format.
// jpeg and unknown formats default to jpg.
func FormatExtension(format string) string {
	switch format {
	case "png":
		return "png"
	case "webp":
		return "webp"
	default:
		return "jpg"
	}
}
