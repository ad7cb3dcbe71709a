package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

// SlogLogger implements Logger on top of log/slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger builds a structured logger from configuration
func NewSlogLogger(cfg *config.LoggingConfig) *SlogLogger {
	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &SlogLogger{logger: slog.New(handler)}
}

// Log writes a structured record at the given level
func (l *SlogLogger) Log(level, message string, fields map[string]interface{}) {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}

	switch level {
	case "debug":
		l.logger.Debug(message, attrs...)
	case "warn":
		l.logger.Warn(message, attrs...)
	case "error":
		l.logger.Error(message, attrs...)
	default:
		l.logger.Info(message, attrs...)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
