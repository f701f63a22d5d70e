package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAspectRatio(t *testing.T) {
	for _, ratio := range []string{"1:1", "16:9", "9:16", "3:2", "2:3", "4:3", "3:4", "5:4", "4:5", "21:9"} {
		assert.NoError(t, ValidateAspectRatio(ratio, ProviderGemini), ratio)
		assert.NoError(t, ValidateAspectRatio(ratio, ProviderOpenAI), ratio)
	}

	err := ValidateAspectRatio("7:3", ProviderGemini)
	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrInvalidRequest, ie.Code)
}

func TestValidateSize(t *testing.T) {
	for _, size := range []string{"1K", "2K", "4K"} {
		assert.NoError(t, ValidateSize(size))
	}
	assert.Error(t, ValidateSize("8K"))
	assert.Error(t, ValidateSize("1024"))
}

func TestValidateQuality(t *testing.T) {
	for _, q := range []string{"auto", "low", "medium", "high"} {
		assert.NoError(t, ValidateQuality(q))
	}
	assert.Error(t, ValidateQuality("ultra"))
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"jpeg", "png", "webp"} {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.Error(t, ValidateFormat("gif"))
	assert.Error(t, ValidateFormat("jpg"))
}

func TestValidateThinking(t *testing.T) {
	for _, level := range []string{"none", "minimal", "low", "medium", "high"} {
		assert.NoError(t, ValidateThinking(level, ProviderGemini))
	}
	assert.Error(t, ValidateThinking("extreme", ProviderGemini))
	assert.Error(t, ValidateThinking("low", ProviderOpenAI), "thinking is Gemini-only")
}

func TestValidateRequest(t *testing.T) {
	valid := &Request{
		Model:       "gemini-3-pro-image-preview",
		Prompt:      "a cat",
		AspectRatio: "16:9",
		Size:        "2K",
		Quality:     "high",
		Format:      "png",
		Count:       1,
	}
	assert.NoError(t, ValidateRequest(valid, ProviderGemini))

	bad := *valid
	bad.Size = "16K"
	assert.Error(t, ValidateRequest(&bad, ProviderGemini))

	withThinking := *valid
	withThinking.Thinking = "medium"
	assert.NoError(t, ValidateRequest(&withThinking, ProviderGemini))
	assert.Error(t, ValidateRequest(&withThinking, ProviderOpenAI))
}

func TestOpenAISize(t *testing.T) {
	tests := []struct {
		ratio string
		want  string
	}{
		{ratio: "1:1", want: "1024x1024"},
		{ratio: "16:9", want: "1536x1024"},
		{ratio: "3:2", want: "1536x1024"},
		{ratio: "4:3", want: "1536x1024"},
		{ratio: "21:9", want: "1536x1024"},
		{ratio: "5:4", want: "1536x1024"},
		{ratio: "9:16", want: "1024x1536"},
		{ratio: "2:3", want: "1024x1536"},
		{ratio: "3:4", want: "1024x1536"},
		{ratio: "4:5", want: "1024x1536"},
		{ratio: "oddball", want: "auto"},
	}
	for _, tt := range tests {
		t.Run(tt.ratio, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenAISize(tt.ratio))
		})
	}
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "jpg", FormatExtension("jpeg"))
	assert.Equal(t, "png", FormatExtension("png"))
	assert.Equal(t, "webp", FormatExtension("webp"))
	assert.Equal(t, "jpg", FormatExtension("unknown"))
}
