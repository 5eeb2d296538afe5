package completion

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterConfigValidate(t *testing.T) {
	logger := log.New(io.Discard)
	valid := NewOpenRouterConfig().
		WithAPIKey("key").
		WithModel("some/model").
		WithLogger(logger)

	tests := []struct {
		name    string
		config  OpenRouterConfig
		wantErr string
	}{
		{"valid", valid, ""},
		{"missing_api_key", valid.WithAPIKey(""), "api key is required"},
		{"missing_model", valid.WithModel(""), "model name is required"},
		{"zero_retries", valid.WithRetryAttempts(0), "retry attempts"},
		{"missing_logger", valid.WithLogger(nil), "logger is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGeminiConfigDefaults(t *testing.T) {
	config := NewGeminiConfig()
	assert.Equal(t, "gemini-2.0-flash", config.ModelName)
	assert.EqualValues(t, 3, config.RetryAttempts)
	assert.Error(t, config.Validate())

	config = config.WithAPIKey("key").WithLogger(log.New(io.Discard))
	assert.NoError(t, config.Validate())
}

func TestNewOpenRouterCompleterRejectsInvalidConfig(t *testing.T) {
	_, err := NewOpenRouterCompleter(NewOpenRouterConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
