package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"kasalog/internal/util/logx"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	Theme         Theme         `yaml:"theme"`
	FilterBatch   int           `yaml:"filter_batch"`
	RenderBatch   int           `yaml:"render_batch"`
	MaxLineBytes  int           `yaml:"max_line_bytes"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	LogLevel      string        `yaml:"log_level"`
	LogFile       string        `yaml:"log_file"`
	LogStderr     bool          `yaml:"log_stderr"`
}

func Default() *Config {
	return &Config{
		Theme:         ThemeDark,
		FilterBatch:   10,
		RenderBatch:   20,
		MaxLineBytes:  4 * 1024 * 1024,
		WatchDebounce: 500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// DefaultPath is $HOME/.config/kasalog/config.yaml, or "" without a home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kasalog", "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. A missing file is only an error when explicit is set.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from KASALOG_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("KASALOG_THEME"); v != "" {
		c.Theme = Theme(strings.ToLower(v))
	}
	if v := getenv("KASALOG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("KASALOG_LOG_STDERR"); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		c.LogStderr = v != "0" && v != "false" && v != "no"
	}
	for _, e := range []struct {
		key string
		dst *int
	}{
		{"KASALOG_FILTER_BATCH", &c.FilterBatch},
		{"KASALOG_RENDER_BATCH", &c.RenderBatch},
	} {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}
	return nil
}

// RegisterFlags adds the flags ApplyFlags reads.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (default $HOME/.config/kasalog/config.yaml)")
	fs.String("theme", string(d.Theme), "theme: dark|light")
	fs.Int("filter-batch", d.FilterBatch, "records per step of a filter pass")
	fs.Int("render-batch", d.RenderBatch, "records per step of the render pass after loading")
	fs.Int("max-line-bytes", d.MaxLineBytes, "longest accepted line")
	fs.String("log-level", d.LogLevel, "application log level: debug|info|warn|error")
	fs.String("log-file", "", "also write application logs as JSON to this file")
	fs.Bool("log-stderr", false, "also write application logs to stderr")
}

// ApplyFlags copies every flag the user set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}
	theme := string(c.Theme)
	str("theme", &theme)
	c.Theme = Theme(theme)
	num("filter-batch", &c.FilterBatch)
	num("render-batch", &c.RenderBatch)
	num("max-line-bytes", &c.MaxLineBytes)
	str("log-level", &c.LogLevel)
	str("log-file", &c.LogFile)
	if err == nil && fs.Changed("log-stderr") {
		c.LogStderr, err = fs.GetBool("log-stderr")
	}
	if err == nil && fs.Changed("watch") {
		c.Watch, err = fs.GetBool("watch")
	}
	return err
}

func (c *Config) Validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("theme: want dark or light, got %q", c.Theme)
	}
	if c.FilterBatch <= 0 {
		return fmt.Errorf("filter_batch: must be positive, got %d", c.FilterBatch)
	}
	if c.RenderBatch <= 0 {
		return fmt.Errorf("render_batch: must be positive, got %d", c.RenderBatch)
	}
	if c.MaxLineBytes <= 0 {
		return fmt.Errorf("max_line_bytes: must be positive, got %d", c.MaxLineBytes)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch_debounce: must be positive, got %s", c.WatchDebounce)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("theme=%s filter_batch=%d render_batch=%d watch=%v log_level=%s",
		c.Theme, c.FilterBatch, c.RenderBatch, c.Watch, c.LogLevel)
}
