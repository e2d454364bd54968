// Package logger builds the process logger: zap does the encoding and
// log/slog is the API the rest of the application logs through.
package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Config configures the logger.
type Config struct {
	ServiceName string
	Environment string
	Level       string
	Format      string
}

// New builds a zap logger and an slog.Logger writing through it. Callers
// should Sync the zap logger on shutdown.
func New(cfg Config) (*zap.Logger, *slog.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = normalizeFormat(cfg.Format)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zapCfg.OutputPaths = []string{"stdout"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	// Ledger and audit lines must not be sampled away.
	zapCfg.Sampling = nil

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zl, err := zapCfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("building zap logger: %w", err)
	}
	zl = zl.With(
		zap.String("service", strings.TrimSpace(cfg.ServiceName)),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
	)
	zap.ReplaceGlobals(zl)

	return zl, NewSlog(zl.Core()), nil
}

// NewSlog wraps a zap core in an slog.Logger.
func NewSlog(core zapcore.Core) *slog.Logger {
	return slog.New(zapslog.NewHandler(core))
}

func normalizeFormat(format string) string {
	if strings.ToLower(strings.TrimSpace(format)) == "console" {
		return "console"
	}
	return "json"
}
