package commands

// CommonConfig contains configuration common to all commands
type CommonConfig struct {
	// LogLevel is the logging level to use
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
}

// CompletionConfig contains common flag definitions for the text-completion
// service used by AI categorization and insight generation
type CompletionConfig struct {
	// Provider is the completion provider to use
	Provider string `help:"Completion provider to use" default:"openrouter" enum:"openrouter,gemini" env:"COMPLETION_PROVIDER"`
	// OpenRouterKey is the API key for OpenRouter
	OpenRouterKey string `help:"OpenRouter API key" env:"OPENROUTER_API_KEY"`
	// OpenRouterModel is the model to request from OpenRouter
	OpenRouterModel string `help:"OpenRouter model to use" default:"google/gemini-2.5-flash-preview" env:"OPENROUTER_MODEL"`
	// GeminiAPIKey is the API key for Gemini
	GeminiAPIKey string `help:"Google Gemini API key" env:"GEMINI_API_KEY"`
	// GeminiModel is the Gemini model name
	GeminiModel string `help:"Gemini model to use" default:"gemini-2.0-flash" env:"GEMINI_MODEL"`
}
