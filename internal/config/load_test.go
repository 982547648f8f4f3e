package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "saltychat", cfg.ExportTag)
	assert.True(t, cfg.Bridge.Enabled)
	assert.Equal(t, "N", cfg.Bridge.KeyBinds.PrimaryRadio)
	assert.Equal(t, "CAPITAL", cfg.Bridge.KeyBinds.SecondaryRadio)
	assert.Equal(t, time.Second, cfg.Bridge.ReadinessInterval)
	assert.Equal(t, []float64{1, 3, 8, 15, 20, 25, 40}, cfg.Voice.Ranges)
	assert.Equal(t, 8.0, cfg.Voice.DefaultRange())
	assert.Equal(t, 9, cfg.Voice.MaxRadioChannels)
}

func TestLoadFileWithoutPath(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
resourceName: voice
locale: de-DE
saltyChatBridge:
  keyBinds:
    primaryRadio: B
  readinessInterval: 250ms
voice:
  maxRadioChannels: 4
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "voice", cfg.ResourceName)
	assert.Equal(t, "de-DE", cfg.Locale)
	assert.Equal(t, "B", cfg.Bridge.KeyBinds.PrimaryRadio)
	assert.Equal(t, "CAPITAL", cfg.Bridge.KeyBinds.SecondaryRadio, "unset keys keep their default")
	assert.Equal(t, 250*time.Millisecond, cfg.Bridge.ReadinessInterval)
	assert.Equal(t, 4, cfg.Voice.MaxRadioChannels)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "saltyChatBridge:\n  keyBinds:\n    primaryRadio: B\n")
	t.Setenv("SALTYBRIDGE_BRIDGE_KEYBIND_PRIMARY_RADIO", "F1")
	t.Setenv("SALTYBRIDGE_BRIDGE_ENABLED", "false")
	t.Setenv("SALTYBRIDGE_VOICE_RANGES", "2,4,6")
	t.Setenv("SALTYBRIDGE_VOICE_DEFAULT_RANGE_INDEX", "1")
	t.Setenv("SALTYBRIDGE_HTTP_AUTH_SECRET", "s3cret")
	t.Setenv("SALTYBRIDGE_EVENTS_HEARTBEAT_INTERVAL", "5s")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "F1", cfg.Bridge.KeyBinds.PrimaryRadio)
	assert.False(t, cfg.Bridge.Enabled)
	assert.Equal(t, []float64{2, 4, 6}, cfg.Voice.Ranges)
	assert.Equal(t, 4.0, cfg.Voice.DefaultRange())
	assert.Equal(t, "s3cret", cfg.HTTP.AuthSecret)
	assert.Equal(t, 5*time.Second, cfg.Events.HeartbeatInterval)
}

func TestLoadUsesPathEnv(t *testing.T) {
	path := writeConfig(t, "exportTag: legacy\n")
	t.Setenv(PathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.ExportTag)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load")

	_, err = LoadFile(writeConfig(t, "voice: [unterminated"))
	assert.ErrorContains(t, err, "invalid yaml")

	t.Setenv("SALTYBRIDGE_BRIDGE_READINESS_INTERVAL", "soon")
	_, err = LoadFile("")
	assert.ErrorContains(t, err, "environment overrides")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty resource", func(c *Config) { c.ResourceName = "" }, "resource name"},
		{"empty export tag", func(c *Config) { c.ExportTag = "" }, "export tag"},
		{"missing key bind", func(c *Config) { c.Bridge.KeyBinds.SecondaryRadio = "" }, "key binds"},
		{"zero interval", func(c *Config) { c.Bridge.ReadinessInterval = 0 }, "readiness interval"},
		{"no voice ranges", func(c *Config) { c.Voice.Ranges = nil }, "voice range"},
		{"negative voice range", func(c *Config) { c.Voice.Ranges = []float64{1, -3} }, "must be positive"},
		{"range index", func(c *Config) { c.Voice.DefaultRangeIndex = 7 }, "out of range"},
		{"one radio channel", func(c *Config) { c.Voice.MaxRadioChannels = 1 }, "at least 2"},
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }, "listen address"},
		{"negative timeout", func(c *Config) { c.HTTP.ReadTimeout = -time.Second }, "timeouts"},
		{"audit limits", func(c *Config) { c.Audit.MaxBackups = -1 }, "audit rotation"},
		{"buffer size", func(c *Config) { c.Events.BufferSize = 0 }, "buffer size"},
		{"heartbeat", func(c *Config) { c.Events.HeartbeatInterval = 0 }, "heartbeat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.ErrorContains(t, Validate(cfg), tt.want)
		})
	}

	assert.Error(t, Validate(nil))
}
