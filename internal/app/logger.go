package app

import (
	"os"

	"near2door-tracker/internal/config"
	"near2door-tracker/internal/logx"
)

// NewLogger writes JSON records to stdout at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel).With(logx.String("service", "near2door-tracker"))
}
