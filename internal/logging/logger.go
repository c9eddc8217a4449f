package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"product-catalog-admin/internal/config"
)

// ServiceName identifies this process in log lines.
const ServiceName = "product-catalog-admin"

// NewLogger creates a structured zerolog.Logger writing JSON to stdout.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(w).With().
		Timestamp().
		Str("service", ServiceName).
		Str("env", cfg.AppEnv).
		Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
