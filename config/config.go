// Package config loads conversation settings from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/teilomillet/convo/utils"
)

// Config carries every knob a conversation needs. An empty SystemPrompt
// falls back to the library default at construction.
type Config struct {
	SystemPrompt      string         `env:"CONVO_SYSTEM_PROMPT"`
	MaxMemoryMessages int            `env:"CONVO_MAX_MEMORY_MESSAGES" envDefault:"8192" validate:"gte=1"`
	TokenModel        string         `env:"CONVO_TOKEN_MODEL" envDefault:"gpt-4o" validate:"required"`
	Temperature       float64        `env:"CONVO_TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	TopP              float64        `env:"CONVO_TOP_P" envDefault:"0.95" validate:"gte=0,lte=1"`
	MaxResponseTokens int            `env:"CONVO_MAX_RESPONSE_TOKENS" envDefault:"4000" validate:"gte=1"`
	HistoryFile       string         `env:"CONVO_HISTORY_FILE"`
	LogLevel          utils.LogLevel `env:"CONVO_LOG_LEVEL" envDefault:"WARN"`
}

var validate = validator.New()

// LoadConfig reads a .env file if present, parses the environment and
// validates the result.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against its struct tags.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}

// NewConfig returns a config with the library defaults, bypassing the
// environment.
func NewConfig() *Config {
	return &Config{
		MaxMemoryMessages: 8192,
		TokenModel:        "gpt-4o",
		Temperature:       0.7,
		TopP:              0.95,
		MaxResponseTokens: 4000,
		LogLevel:          utils.LogLevelWarn,
	}
}

type ConfigOption func(*Config)

func SetSystemPrompt(prompt string) ConfigOption {
	return func(c *Config) {
		c.SystemPrompt = prompt
	}
}

func SetMaxMemoryMessages(n int) ConfigOption {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxMemoryMessages = n
	}
}

func SetTokenModel(model string) ConfigOption {
	return func(c *Config) {
		c.TokenModel = model
	}
}

func SetTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

func SetTopP(topP float64) ConfigOption {
	return func(c *Config) {
		c.TopP = topP
	}
}

func SetMaxResponseTokens(n int) ConfigOption {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxResponseTokens = n
	}
}

func SetHistoryFile(path string) ConfigOption {
	return func(c *Config) {
		c.HistoryFile = path
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}
