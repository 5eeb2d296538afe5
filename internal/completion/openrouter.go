package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterConfig holds configuration for the OpenRouter completion service
type OpenRouterConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	RetryAttempts uint
	Logger        *log.Logger
}

func NewOpenRouterConfig() OpenRouterConfig {
	return OpenRouterConfig{
		BaseURL:       "https://openrouter.ai/api/v1",
		RetryAttempts: 3,
	}
}

func (c OpenRouterConfig) WithAPIKey(apiKey string) OpenRouterConfig {
	c.APIKey = apiKey
	return c
}
func (c OpenRouterConfig) WithBaseURL(baseURL string) OpenRouterConfig {
	c.BaseURL = baseURL
	return c
}
func (c OpenRouterConfig) WithModel(model string) OpenRouterConfig {
	c.Model = model
	return c
}
func (c OpenRouterConfig) WithRetryAttempts(attempts uint) OpenRouterConfig {
	c.RetryAttempts = attempts
	return c
}
func (c OpenRouterConfig) WithLogger(logger *log.Logger) OpenRouterConfig {
	c.Logger = logger
	return c
}

func (c OpenRouterConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openrouter api key is required")
	}
	if c.Model == "" {
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

// OpenRouterCompleter talks to OpenRouter's OpenAI-compatible chat API.
type OpenRouterCompleter struct {
	config OpenRouterConfig
	client *openai.Client
	logger *log.Logger
}

func NewOpenRouterCompleter(config OpenRouterConfig) (*OpenRouterCompleter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := openai.DefaultConfig(config.APIKey)
	cfg.BaseURL = config.BaseURL
	return &OpenRouterCompleter{
		config: config,
		client: openai.NewClientWithConfig(cfg),
		logger: config.Logger,
	}, nil
}

func (c *OpenRouterCompleter) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	var text string
	start := time.Now()
	err := retry.Do(
		func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       c.config.Model,
				MaxTokens:   params.MaxTokens,
				Temperature: params.Temperature,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
			})
			if err != nil {
				return fmt.Errorf("chat completion failed: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("no choices in response")
			}
			text = strings.TrimSpace(resp.Choices[0].Message.Content)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying OpenRouter completion request", "attempt", n+1, "max_attempts", c.config.RetryAttempts, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get OpenRouter completion: %w", err)
	}
	c.logger.Debug("Generated completion",
		"provider", "openrouter",
		"model", c.config.Model,
		"prompt_length", len(prompt),
		"response_length", len(text),
		"duration", time.Since(start))
	return text, nil
}

var _ Completer = (*OpenRouterCompleter)(nil)
