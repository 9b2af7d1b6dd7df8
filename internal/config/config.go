package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	WordProvider     string        `env:"WORD_PROVIDER" envDefault:"gemini"`
	WordModel        string        `env:"WORD_MODEL"`
	WordSystemPrompt string        `env:"WORD_SYSTEM_PROMPT"`
	WordTimeout      time.Duration `env:"WORD_TIMEOUT" envDefault:"20s"`

	APIKey        string `env:"API_KEY"`
	GeminiKey     string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OllamaHost    string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`

	HandoffDelay time.Duration `env:"REVEAL_HANDOFF_DELAY" envDefault:"1500ms"`

	SingleSession bool   `env:"SINGLE_SESSION" envDefault:"true"`
	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"false"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"impostrico-results.txt"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// FromEnv reads the configuration from the process environment. API_KEY is
// accepted as a fallback for GEMINI_API_KEY.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.GeminiKey == "" {
		c.GeminiKey = c.APIKey
	}
	return c, nil
}

// Level maps LogLevel to a zerolog level, defaulting to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
