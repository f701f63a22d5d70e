// Command imagen generates images through a unified interface over the
// Gemini and OpenAI image APIs, with cassette-based record and replay
// for deterministic testing.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BaSui01/imagen"
	"github.com/BaSui01/imagen/config"
	"github.com/BaSui01/imagen/image"
	"github.com/BaSui01/imagen/output"
)

var flags struct {
	promptFile  string
	model       string
	aspectRatio string
	size        string
	quality     string
	format      string
	output      string
	count       int
	config      string
	thinking    string
	verbose     bool
}

var rootCmd = &cobra.Command{
	Use:   "imagen [prompt]",
	Short: "AI image generation CLI - unified interface for Gemini and OpenAI",
	Args:  cobra.MaximumNArgs(1),
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd.Context(), args)
	}
	f := rootCmd.Flags()
	f.StringVarP(&flags.promptFile, "prompt-file", "p", "", "Path to a file containing the prompt text")
	f.StringVarP(&flags.model, "model", "m", "nano-banana", "Model name or short alias")
	f.StringVarP(&flags.aspectRatio, "aspect-ratio", "a", "1:1", "Aspect ratio (e.g. 1:1, 16:9, 9:16)")
	f.StringVarP(&flags.size, "size", "s", "1K", "Image size: 1K, 2K, 4K")
	f.StringVarP(&flags.quality, "quality", "q", "auto", "Quality: auto, low, medium, high")
	f.StringVarP(&flags.format, "format", "f", "jpeg", "Output format: jpeg, png, webp")
	f.StringVarP(&flags.output, "output", "o", "", "Output file path (auto-generated if not specified)")
	f.IntVarP(&flags.count, "count", "n", 1, "Number of images to generate")
	f.StringVar(&flags.config, "config", "", "Config file path override")
	f.StringVarP(&flags.thinking, "thinking", "t", "", "Thinking level (Gemini only): none, minimal, low, medium, high")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	logger := newLogger(flags.verbose)
	defer logger.Sync()

	cfg, err := config.Load(config.Discover(flags.config))
	if err != nil {
		return err
	}
	applyConfigDefaults(&cfg)

	prompt, err := resolvePrompt(args)
	if err != nil {
		return err
	}

	model := image.ResolveModel(flags.model)
	provider, err := image.DetectProvider(model)
	if err != nil {
		return err
	}
	logger.Debug("model resolved",
		zap.String("model", model),
		zap.String("alias", flags.model),
		zap.String("provider", string(provider)))

	req := &image.Request{
		Model:       model,
		Prompt:      prompt,
		AspectRatio: flags.aspectRatio,
		Size:        flags.size,
		Quality:     flags.quality,
		Format:      flags.format,
		Count:       flags.count,
		Thinking:    flags.thinking,
	}
	if err := image.ValidateRequest(req, provider); err != nil {
		return err
	}

	backends := imagen.BackendsFromEnv()
	if backends.ReplayPath != "" {
		logger.Debug("replaying", zap.String("cassette", backends.ReplayPath))
	} else if backends.RecordPath != "" {
		logger.Debug("recording", zap.String("cassette", backends.RecordPath))
	}

	gen, err := imagen.Select(backends, liveFactory(provider, cfg, logger), logger)
	if err != nil {
		return err
	}

	resp, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	basePath := output.Resolve(flags.output, prompt, flags.format)
	for i, img := range resp.Images {
		path := output.WithIndex(basePath, i, len(resp.Images))
		if !output.MatchesFormat(img.MimeType, flags.format) {
			logger.Warn("provider returned a different format than requested",
				zap.String("mime_type", img.MimeType),
				zap.String("format", flags.format))
		}
		if err := output.Save(img.Data, path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved: %s\n", path)
	}

	if backends.RecordPath != "" {
		fmt.Fprintf(os.Stderr, "Cassette saved: %s\n", backends.RecordPath)
	}
	return nil
}

// liveFactory builds the live generator for the detected provider. The
// factory is only invoked when replay is not active, so replaying never
// requires an API key.
func liveFactory(provider image.Provider, cfg config.Config, logger *zap.Logger) imagen.Factory {
	return func() (image.Generator, error) {
		switch provider {
		case image.ProviderGemini:
			key := cfg.GeminiKey()
			if key == "" {
				return nil, &image.Error{
					Code:     image.ErrMissingAPIKey,
					Message:  "no API key for Gemini; set GEMINI_API_KEY or add it to the config file",
					Provider: string(provider),
				}
			}
			return image.NewGeminiGenerator(image.GeminiConfig{APIKey: key}, logger), nil
		case image.ProviderOpenAI:
			key := cfg.OpenAIKey()
			if key == "" {
				return nil, &image.Error{
					Code:     image.ErrMissingAPIKey,
					Message:  "no API key for OpenAI; set OPENAI_API_KEY or add it to the config file",
					Provider: string(provider),
				}
			}
			return image.NewOpenAIGenerator(image.OpenAIConfig{APIKey: key}, logger), nil
		default:
			return nil, &image.Error{
				Code:    image.ErrConfiguration,
				Message: fmt.Sprintf("no live adapter for provider %q", provider),
			}
		}
	}
}

// applyConfigDefaults substitutes config-file defaults for flags the
// user left untouched.
func applyConfigDefaults(cfg *config.Config) {
	if !rootCmd.Flags().Changed("model") && cfg.Defaults.Model != "" {
		flags.model = cfg.Defaults.Model
	}
	if !rootCmd.Flags().Changed("aspect-ratio") && cfg.Defaults.AspectRatio != "" {
		flags.aspectRatio = cfg.Defaults.AspectRatio
	}
	if !rootCmd.Flags().Changed("size") && cfg.Defaults.Size != "" {
		flags.size = cfg.Defaults.Size
	}
	if !rootCmd.Flags().Changed("quality") && cfg.Defaults.Quality != "" {
		flags.quality = cfg.Defaults.Quality
	}
	if !rootCmd.Flags().Changed("format") && cfg.Defaults.Format != "" {
		flags.format = cfg.Defaults.Format
	}
}

func resolvePrompt(args []string) (string, error) {
	if len(args) > 0 && flags.promptFile != "" {
		return "", fmt.Errorf("provide either a prompt argument or --prompt-file, not both")
	}
	if len(args) > 0 {
		return args[0], nil
	}
	if flags.promptFile != "" {
		data, err := os.ReadFile(flags.promptFile)
		if err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return "", fmt.Errorf("provide a prompt string or use -p/--prompt-file")
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, _ := cfg.Build()
	return logger
}
