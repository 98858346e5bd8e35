package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds the environment-provided defaults for every command.
// Flags override these values.
type Config struct {
	Seats    int    `env:"POLLTRACK_SEATS" validate:"min=0,max=100000"`
	Polls    int    `env:"POLLTRACK_POLLS" validate:"min=0,max=100"`
	Mode     string `env:"POLLTRACK_MODE" envDefault:"seats" validate:"oneof=seats votes"`
	Seed     uint64 `env:"POLLTRACK_SEED"`
	LogLevel string `env:"POLLTRACK_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig parses and validates the environment configuration.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel. Accepted values are those of slog.Level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid POLLTRACK_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
