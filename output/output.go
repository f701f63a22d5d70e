// Package output generates file names for saved images and writes image
// bytes to disk. Bytes are written exactly as the provider returned
// them; no format conversion is performed.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BaSui01/imagen/image"
)

// AutoFilename builds a filename from the prompt: the first 50
// characters in kebab-case, a unix timestamp, and the format extension.
func AutoFilename(prompt, format string) string {
	return fmt.Sprintf("%s-%d.%s",
		Sanitize(prompt, 50),
		time.Now().Unix(),
		image.FormatExtension(format))
}

// Sanitize converts input to a filename-safe slug: lowercase ASCII
// alphanumerics with runs of other characters collapsed into single
// hyphens, capped at maxLen. An input with no usable characters yields
// "image".
func Sanitize(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(maxLen)
	lastHyphen := true // suppresses a leading hyphen

	for _, ch := range input {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
			lastHyphen = false
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch + ('a' - 'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "image"
	}
	return s
}

// Resolve picks the output path: the explicit path when given, otherwise
// an auto-generated filename in the working directory.
func Resolve(explicit, prompt, format string) string {
	if explicit != "" {
		return explicit
	}
	return AutoFilename(prompt, format)
}

// WithIndex suffixes a path with the 1-based image index when a call
// produced more than one image ("out.png" -> "out-2.png").
func WithIndex(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}

// Save writes image bytes to path, creating parent directories.
func Save(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image %s: %w", path, err)
	}
	return nil
}

// MatchesFormat reports whether a MIME type corresponds to the requested
// output format token.
func MatchesFormat(mime, format string) bool {
	switch {
	case mime == "image/jpeg" && format == "jpeg":
		return true
	case mime == "image/png" && format == "png":
		return true
	case mime == "image/webp" && format == "webp":
		return true
	}
	return false
}
