package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matakom/informator-3000/internal/classify"
	"github.com/matakom/informator-3000/internal/config"
	"github.com/matakom/informator-3000/internal/gateway"
	"github.com/matakom/informator-3000/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	category, err := resolveCategory(flagCategory)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file.
	logFile, err := openLog(config.LogPath())
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.SlogLevel())
	slog.SetDefault(logger)

	return tui.Run(cmd.Context(), tui.RunOpts{
		Cfg:      cfg,
		Category: category,
		Logger:   logger,
	})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// cliLogger is used by the one-shot commands: warnings and errors on
// stderr unless --log-level asks for more.
func cliLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if flagLogLevel != "" {
		level = cfg.SlogLevel()
	}
	return newLogger(os.Stderr, level)
}

func newGateway(cfg *config.Config, logger *slog.Logger) (*gateway.Gateway, error) {
	return gateway.New(gateway.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeoutDuration(),
		Logger:  logger,
	})
}

// resolveCategory canonicalises a --category flag. Empty means all.
func resolveCategory(flag string) (string, error) {
	if flag == "" {
		return "", nil
	}
	cat, err := classify.ResolveAlias(flag)
	if err != nil {
		return "", fmt.Errorf("invalid --category value: %w", err)
	}
	return string(cat), nil
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
