package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/matakom/informator-3000/internal/accent"
	"github.com/matakom/informator-3000/internal/classify"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type AccentConfig struct {
	Default string `yaml:"default"`
	Hold    string `yaml:"hold"`
	Fade    string `yaml:"fade"`
}

type Config struct {
	APIURL         string       `yaml:"api_url"`
	RequestTimeout string       `yaml:"request_timeout"`
	HealthInterval string       `yaml:"health_interval"`
	NoticeWindow   string       `yaml:"notice_window"`
	Category       string       `yaml:"category,omitempty"`
	Author         string       `yaml:"author,omitempty"`
	LogLevel       string       `yaml:"log_level,omitempty"`
	Accent         AccentConfig `yaml:"accent"`
}

// overrides are read from the environment after the file. Empty values
// leave the file's setting alone.
type overrides struct {
	APIURL         string `env:"INFORMATOR_API_URL"`
	RequestTimeout string `env:"INFORMATOR_REQUEST_TIMEOUT"`
	HealthInterval string `env:"INFORMATOR_HEALTH_INTERVAL"`
	NoticeWindow   string `env:"INFORMATOR_NOTICE_WINDOW"`
	Category       string `env:"INFORMATOR_CATEGORY"`
	Author         string `env:"INFORMATOR_AUTHOR"`
	LogLevel       string `env:"INFORMATOR_LOG_LEVEL"`
	Accent         string `env:"INFORMATOR_ACCENT"`
}

func duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return duration(c.RequestTimeout, 10*time.Second)
}

func (c *Config) HealthDuration() time.Duration {
	return duration(c.HealthInterval, 10*time.Second)
}

func (c *Config) NoticeDuration() time.Duration {
	return duration(c.NoticeWindow, 5*time.Second)
}

func (c *Config) AccentHoldDuration() time.Duration {
	return duration(c.Accent.Hold, accent.DefaultHold)
}

func (c *Config) AccentFadeDuration() time.Duration {
	return duration(c.Accent.Fade, accent.DefaultFade)
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "informator", "config.yaml")
}

// LogPath is where the TUI writes its log, away from the terminal.
func LogPath() string {
	return filepath.Join(xdg.StateHome, "informator", "informator.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file at path (DefaultConfigPath when empty),
// layers it over the embedded defaults, applies INFORMATOR_* environment
// overrides and validates the result. A missing file is created from the
// defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults still apply.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func applyEnv(cfg *Config) error {
	var o overrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.APIURL, o.APIURL)
	set(&cfg.RequestTimeout, o.RequestTimeout)
	set(&cfg.HealthInterval, o.HealthInterval)
	set(&cfg.NoticeWindow, o.NoticeWindow)
	set(&cfg.Category, o.Category)
	set(&cfg.Author, o.Author)
	set(&cfg.LogLevel, o.LogLevel)
	set(&cfg.Accent.Default, o.Accent)
	return nil
}

// validate checks the settings that cannot fall back to a default and
// canonicalises the category.
func validate(cfg *Config) error {
	if cfg.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: scheme must be http or https, got %q", u.Scheme)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if _, err := accent.ParseHex(cfg.Accent.Default); err != nil {
		return fmt.Errorf("accent.default: %w", err)
	}

	if cfg.Category != "" {
		cat, err := classify.ResolveAlias(cfg.Category)
		if err != nil {
			return fmt.Errorf("category: %w", err)
		}
		cfg.Category = string(cat)
	}
	return nil
}
