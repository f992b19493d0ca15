package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/simp-lee/logger"
)

// SetupLogger creates a *logger.Logger based on the provided LogConfig,
// sets it as the global default via slog.SetDefault, and returns it.
// The caller is responsible for calling Close() on the returned logger.
func SetupLogger(cfg *LogConfig) (*logger.Logger, error) {
	if cfg == nil {
		return nil, errors.New("log config is nil")
	}

	log, err := logger.New(BuildLoggerOpts(cfg)...)
	if err != nil {
		return nil, err
	}

	log.SetDefault()
	return log, nil
}

// BuildLoggerOpts translates cfg into logger options. Invalid level values
// default to "info"; unknown formats fall back to the custom console format.
// Returns nil for a nil cfg.
func BuildLoggerOpts(cfg *LogConfig) []logger.Option {
	if cfg == nil {
		return nil
	}

	var format logger.OutputFormat
	switch strings.ToLower(cfg.Format) {
	case "text":
		format = logger.FormatText
	case "json":
		format = logger.FormatJSON
	default:
		format = logger.FormatCustom
	}

	colorEnabled := true
	if cfg.Color != nil {
		colorEnabled = *cfg.Color
	}

	opts := []logger.Option{
		logger.WithLevel(parseLevel(cfg.Level)),
		logger.WithMiddleware(logger.ContextMiddleware()),
		logger.WithConsoleFormat(format),
		logger.WithConsoleColor(colorEnabled),
	}

	if cfg.FilePath == "" {
		return opts
	}

	opts = append(opts, logger.WithFilePath(cfg.FilePath), logger.WithFileFormat(format))
	if cfg.MaxSizeMB > 0 {
		opts = append(opts, logger.WithMaxSizeMB(cfg.MaxSizeMB))
	}
	if cfg.RetentionDays > 0 {
		opts = append(opts, logger.WithRetentionDays(cfg.RetentionDays))
	}
	if cfg.MaxBackups > 0 {
		opts = append(opts, logger.WithMaxBackups(cfg.MaxBackups))
	}
	if cfg.CompressRotated != nil {
		opts = append(opts, logger.WithCompressRotated(*cfg.CompressRotated))
	}
	return opts
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
