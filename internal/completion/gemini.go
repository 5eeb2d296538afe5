package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig holds configuration for the Gemini completion service
type GeminiConfig struct {
	APIKey        string
	ModelName     string
	RetryAttempts uint
	Logger        *log.Logger
}

func NewGeminiConfig() GeminiConfig {
	return GeminiConfig{
		ModelName:     "gemini-2.0-flash",
		RetryAttempts: 3,
	}
}

func (c GeminiConfig) WithAPIKey(apiKey string) GeminiConfig {
	c.APIKey = apiKey
	return c
}
func (c GeminiConfig) WithModelName(modelName string) GeminiConfig {
	c.ModelName = modelName
	return c
}
func (c GeminiConfig) WithRetryAttempts(attempts uint) GeminiConfig {
	c.RetryAttempts = attempts
	return c
}
func (c GeminiConfig) WithLogger(logger *log.Logger) GeminiConfig {
	c.Logger = logger
	return c
}

func (c GeminiConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("gemini api key is required")
	}
	if c.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	if c.RetryAttempts == 0 {
		return fmt.Errorf("retry attempts must be greater than 0")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// GeminiCompleter generates completions using the Google Gemini API.
type GeminiCompleter struct {
	config GeminiConfig
	client *genai.Client
	logger *log.Logger
}

func NewGeminiCompleter(ctx context.Context, config GeminiConfig) (*GeminiCompleter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{
		config: config,
		client: client,
		logger: config.Logger,
	}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	model := c.client.GenerativeModel(c.config.ModelName)
	if params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(params.MaxTokens))
	}
	model.SetTemperature(params.Temperature)

	var text string
	start := time.Now()
	err := retry.Do(
		func() error {
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return fmt.Errorf("failed to generate content: %w", err)
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				return fmt.Errorf("no candidates returned from Gemini API")
			}
			var sb strings.Builder
			for _, part := range resp.Candidates[0].Content.Parts {
				if t, ok := part.(genai.Text); ok {
					sb.WriteString(string(t))
				}
			}
			text = strings.TrimSpace(sb.String())
			if text == "" {
				return fmt.Errorf("empty completion returned from Gemini API")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying Gemini completion request", "attempt", n+1, "max_attempts", c.config.RetryAttempts, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get Gemini completion: %w", err)
	}
	c.logger.Debug("Generated completion",
		"provider", "gemini",
		"model", c.config.ModelName,
		"prompt_length", len(prompt),
		"response_length", len(text),
		"duration", time.Since(start))
	return text, nil
}

func (c *GeminiCompleter) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

var _ Completer = (*GeminiCompleter)(nil)
