package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SALTYBRIDGE_"
	// PathEnv names the variable holding an explicit config file path.
	PathEnv = EnvPrefix + "CONFIG"
	// DefaultPath is read when present and PathEnv is unset.
	DefaultPath = "config.yaml"
)

// Load merges Defaults() + config file + SALTYBRIDGE_* env overrides.
// The file is taken from SALTYBRIDGE_CONFIG, or config.yaml when it exists.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}

// Validate checks the invariants the bridge relies on.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.ResourceName == "" {
		return errors.New("resource name is required")
	}
	if cfg.ExportTag == "" {
		return errors.New("export tag is required")
	}

	if err := validateBridge(&cfg.Bridge); err != nil {
		return fmt.Errorf("bridge validation failed: %w", err)
	}
	if err := validateVoice(&cfg.Voice); err != nil {
		return fmt.Errorf("voice validation failed: %w", err)
	}
	if err := validateHTTP(&cfg.HTTP); err != nil {
		return fmt.Errorf("http validation failed: %w", err)
	}

	if cfg.Audit.MaxSizeMB < 0 || cfg.Audit.MaxBackups < 0 || cfg.Audit.MaxAgeDays < 0 {
		return errors.New("audit rotation limits must be non-negative")
	}
	if cfg.Events.BufferSize <= 0 {
		return fmt.Errorf("event buffer size must be positive, got %d", cfg.Events.BufferSize)
	}
	if cfg.Events.HeartbeatInterval <= 0 {
		return fmt.Errorf("event heartbeat interval must be positive, got %v", cfg.Events.HeartbeatInterval)
	}
	return nil
}

func validateBridge(b *BridgeConfig) error {
	if b.KeyBinds.PrimaryRadio == "" || b.KeyBinds.SecondaryRadio == "" {
		return errors.New("primary and secondary radio key binds are required")
	}
	if b.ReadinessInterval <= 0 {
		return fmt.Errorf("readiness interval must be positive, got %v", b.ReadinessInterval)
	}
	return nil
}

func validateVoice(v *VoiceConfig) error {
	if len(v.Ranges) == 0 {
		return errors.New("at least one voice range is required")
	}
	for i, r := range v.Ranges {
		if r <= 0 {
			return fmt.Errorf("voice range %d must be positive, got %v", i, r)
		}
	}
	if v.DefaultRangeIndex < 0 || v.DefaultRangeIndex >= len(v.Ranges) {
		return fmt.Errorf("default voice range index %d out of range [0,%d)", v.DefaultRangeIndex, len(v.Ranges))
	}
	if v.MaxRadioChannels < 2 {
		return fmt.Errorf("max radio channels must be at least 2, got %d", v.MaxRadioChannels)
	}
	return nil
}

func validateHTTP(h *HTTPConfig) error {
	if h.Addr == "" {
		return errors.New("listen address is required")
	}
	if h.ReadTimeout < 0 || h.WriteTimeout < 0 || h.IdleTimeout < 0 {
		return errors.New("timeouts must be non-negative")
	}
	return nil
}
