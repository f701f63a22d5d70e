// Package config loads user-level imagen settings from a YAML file with
// environment variable overrides for API keys.
//
// Resolution order for the file path: explicit --config flag, then the
// IMAGEN_CONFIG environment variable, then ~/.config/imagen/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-level settings for the imagen CLI.
type Config struct {
	Keys     Keys     `yaml:"keys"`
	Defaults Defaults `yaml:"defaults"`
}

// Keys holds provider API keys. Environment variables take precedence
// over file values; see GeminiKey and OpenAIKey.
type Keys struct {
	Gemini string `yaml:"gemini"`
	OpenAI string `yaml:"openai"`
}

// Defaults holds default generation parameters applied when CLI flags
// are left at their defaults.
type Defaults struct {
	Model       string `yaml:"model"`
	AspectRatio string `yaml:"aspect_ratio"`
	Size        string `yaml:"size"`
	Quality     string `yaml:"quality"`
	Format      string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: Defaults{
			Model:       "nano-banana",
			AspectRatio: "1:1",
			Size:        "1K",
			Quality:     "auto",
			Format:      "jpeg",
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// built-in defaults; an unparsable file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// GeminiKey returns the Gemini API key, preferring GEMINI_API_KEY.
func (c Config) GeminiKey() string {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		return v
	}
	return c.Keys.Gemini
}

// OpenAIKey returns the OpenAI API key, preferring OPENAI_API_KEY.
func (c Config) OpenAIKey() string {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		return v
	}
	return c.Keys.OpenAI
}

// Discover resolves the config file path. An explicit path wins, then
// IMAGEN_CONFIG, then the per-user default location.
func Discover(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("IMAGEN_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "imagen.yaml"
	}
	return filepath.Join(home, ".config", "imagen", "config.yaml")
}
