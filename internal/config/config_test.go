package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, 10, cfg.FilterBatch)
	assert.Equal(t, 20, cfg.RenderBatch)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
theme: light
filter_batch: 50
watch: true
watch_debounce: 2s
log_level: debug
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, 50, cfg.FilterBatch)
	assert.Equal(t, 20, cfg.RenderBatch)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(missing, true)
	assert.Error(t, err)

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default().FilterBatch, cfg.FilterBatch)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", `theme: [`)
	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"KASALOG_THEME":        "LIGHT",
		"KASALOG_FILTER_BATCH": "7",
		"KASALOG_LOG_STDERR":   "1",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, 7, cfg.FilterBatch)
	assert.True(t, cfg.LogStderr)

	env["KASALOG_RENDER_BATCH"] = "many"
	assert.Error(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.Bool("watch", false, "")
	require.NoError(t, fs.Parse([]string{"--render-batch", "5", "--watch"}))

	cfg := Default()
	cfg.Theme = ThemeLight
	require.NoError(t, cfg.ApplyFlags(fs))
	assert.Equal(t, 5, cfg.RenderBatch)
	assert.True(t, cfg.Watch)
	assert.Equal(t, ThemeLight, cfg.Theme)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"theme", func(c *Config) { c.Theme = "neon" }},
		{"filter batch", func(c *Config) { c.FilterBatch = 0 }},
		{"render batch", func(c *Config) { c.RenderBatch = -1 }},
		{"line bytes", func(c *Config) { c.MaxLineBytes = 0 }},
		{"debounce", func(c *Config) { c.WatchDebounce = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
