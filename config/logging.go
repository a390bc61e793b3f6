package config

import (
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// SetupLogging installs the default logger: text on stdout, plus JSON lines
// in LOG_FILE when set. The returned func closes the file.
func SetupLogging(cfg *Config) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}
	closer := func() error { return nil }

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}

	logger := slog.New(slogmulti.Fanout(handlers...)).With(slog.String("service", "restaurant"))
	slog.SetDefault(logger)
	return logger, closer, nil
}
