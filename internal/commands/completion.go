package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/finsight/spending-analyzer/internal/completion"
)

// SetupLogger creates the process logger at the configured level.
func SetupLogger(config CommonConfig) (*log.Logger, error) {
	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// SetupCompleter initializes the configured text-completion provider
func SetupCompleter(ctx context.Context, config CompletionConfig, logger *log.Logger) (completion.Completer, error) {
	switch config.Provider {
	case "openrouter":
		if config.OpenRouterKey == "" {
			return nil, fmt.Errorf("openrouter api key is required when using the OpenRouter provider")
		}
		completer, err := completion.NewOpenRouterCompleter(completion.NewOpenRouterConfig().
			WithAPIKey(config.OpenRouterKey).
			WithModel(config.OpenRouterModel).
			WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter completer: %w", err)
		}
		logger.Info("Using OpenRouter for completions", "model", config.OpenRouterModel)
		return completer, nil

	case "gemini":
		if config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini api key is required when using the Gemini provider")
		}
		geminiConfig := completion.NewGeminiConfig().
			WithAPIKey(config.GeminiAPIKey).
			WithLogger(logger)
		if config.GeminiModel != "" {
			geminiConfig = geminiConfig.WithModelName(config.GeminiModel)
		}
		completer, err := completion.NewGeminiCompleter(ctx, geminiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini completer: %w", err)
		}
		logger.Info("Using Gemini API for completions", "model", geminiConfig.ModelName)
		return completer, nil

	default:
		return nil, fmt.Errorf("unknown completion provider: %s", config.Provider)
	}
}

// CloseCompleter attempts to close the completer if it implements Close
func CloseCompleter(completer completion.Completer, logger *log.Logger) {
	if closer, ok := completer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close completion provider", "error", err)
		}
	}
}
