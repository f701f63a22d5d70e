package image

import "context"

// Capability and method identifiers stored alongside recorded interactions.
const (
	Capability     = "image_generator"
	MethodGenerate = "generate"
)

// Request describes one image generation call. It is a plain value,
// constructed once per invocation and never mutated.
type Request struct {
	// Resolved model identifier (e.g. "gemini-3.1-flash-image-preview").
	Model string `json:"model" yaml:"model"`
	// Text prompt describing the desired image.
	Prompt string `json:"prompt" yaml:"prompt"`
	// Aspect ratio token (e.g. "1:1", "16:9").
	AspectRatio string `json:"aspect_ratio" yaml:"aspect_ratio"`
	// Image size token: "1K", "2K", "4K".
	Size string `json:"size" yaml:"size"`
	// Quality token: "auto", "low", "medium", "high".
	Quality string `json:"quality" yaml:"quality"`
	// Output format token: "jpeg", "png", "webp".
	Format string `json:"format" yaml:"format"`
	// Number of images to generate.
	Count int `json:"count" yaml:"count"`
	// Thinking level for Gemini models, empty when unset.
	Thinking string `json:"thinking,omitempty" yaml:"thinking,omitempty"`
}

// Image is a single generated image. The caller takes ownership of the
// byte slice when a Response is returned to it.
type Image struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

// Response is the complete successful outcome of one Generate call.
type Response struct {
	Images []Image `json:"images"`
}

// Generator generates images from text prompts. Implementations must be
// safe for concurrent use; all statefulness lives behind the method.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}
