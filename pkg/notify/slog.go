package notify

import (
	"context"
	"log/slog"
)

// Slog is a Notifier that writes notifications to a structured logger.
// Used by the CLI, where there is no toast surface.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a logger-backed Notifier.
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}

	return &Slog{logger: logger.With("module", "notify")}
}

func (s *Slog) Success(ctx context.Context, msg string) {
	s.logger.InfoContext(ctx, msg, "level", string(LevelSuccess))
}

func (s *Slog) Error(ctx context.Context, msg string) {
	s.logger.ErrorContext(ctx, msg, "level", string(LevelError))
}
