package util

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// GetLogger builds the application logger and installs it as the slog default.
func GetLogger(level slog.Leveler) *slog.Logger {
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	slog.SetDefault(logger)
	return logger
}
