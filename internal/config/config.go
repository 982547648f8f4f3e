package config

import "time"

// Config is the complete bridge configuration.
type Config struct {
	// ResourceName is the hosting resource; stop events for other resources are ignored.
	ResourceName string `yaml:"resourceName" env:"RESOURCE_NAME"`
	// ExportTag is the resource tag legacy exports and the unload event use.
	ExportTag string `yaml:"exportTag" env:"EXPORT_TAG"`
	Locale    string `yaml:"locale" env:"LOCALE"`

	Bridge  BridgeConfig  `yaml:"saltyChatBridge" envPrefix:"BRIDGE_"`
	Voice   VoiceConfig   `yaml:"voice" envPrefix:"VOICE_"`
	HTTP    HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
	Audit   AuditConfig   `yaml:"audit" envPrefix:"AUDIT_"`
	Events  EventsConfig  `yaml:"events" envPrefix:"EVENTS_"`
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`

	// ScriptPath is a Lua script run once after startup. Empty disables it.
	ScriptPath string `yaml:"script" env:"SCRIPT"`
}

// BridgeConfig controls the legacy compatibility layer.
type BridgeConfig struct {
	Enabled           bool          `yaml:"enabled" env:"ENABLED"`
	KeyBinds          KeyBinds      `yaml:"keyBinds" envPrefix:"KEYBIND_"`
	ReadinessInterval time.Duration `yaml:"readinessInterval" env:"READINESS_INTERVAL"`
}

// KeyBinds are the default physical keys for the radio transmit bindings.
type KeyBinds struct {
	PrimaryRadio   string `yaml:"primaryRadio" env:"PRIMARY_RADIO"`
	SecondaryRadio string `yaml:"secondaryRadio" env:"SECONDARY_RADIO"`
}

// VoiceConfig holds the voice settings shared with the backend.
type VoiceConfig struct {
	Ranges            []float64 `yaml:"voiceRanges" env:"RANGES" envSeparator:","`
	DefaultRangeIndex int       `yaml:"defaultVoiceRangeIndex" env:"DEFAULT_RANGE_INDEX"`
	MaxRadioChannels  int       `yaml:"maxRadioChannels" env:"MAX_RADIO_CHANNELS"`
}

// DefaultRange returns the voice range selected by DefaultRangeIndex.
func (v VoiceConfig) DefaultRange() float64 {
	if v.DefaultRangeIndex < 0 || v.DefaultRangeIndex >= len(v.Ranges) {
		return 0
	}
	return v.Ranges[v.DefaultRangeIndex]
}

// HTTPConfig configures the control API.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idleTimeout" env:"IDLE_TIMEOUT"`
	// AuthSecret is the HS256 key for bearer tokens. Empty disables auth.
	AuthSecret string `yaml:"authSecret" env:"AUTH_SECRET"`
}

// AuditConfig configures the rotating audit log.
type AuditConfig struct {
	Dir        string `yaml:"dir" env:"DIR"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"MAX_AGE_DAYS"`
	Compress   bool   `yaml:"compress" env:"COMPRESS"`
}

// EventsConfig configures the event stream.
type EventsConfig struct {
	BufferSize        int           `yaml:"bufferSize" env:"BUFFER_SIZE"`
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval" env:"HEARTBEAT_INTERVAL"`
}

// TracingConfig configures OTLP trace export. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"serviceName" env:"SERVICE_NAME"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		ResourceName: "yaca-voice",
		ExportTag:    "saltychat",
		Locale:       "en-US",
		Bridge: BridgeConfig{
			Enabled: true,
			KeyBinds: KeyBinds{
				PrimaryRadio:   "N",
				SecondaryRadio: "CAPITAL",
			},
			ReadinessInterval: time.Second,
		},
		Voice: VoiceConfig{
			Ranges:            []float64{1, 3, 8, 15, 20, 25, 40},
			DefaultRangeIndex: 2,
			MaxRadioChannels:  9,
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			ReadTimeout: 30 * time.Second,
			// Event streams stay open; no write deadline.
			WriteTimeout: 0,
			IdleTimeout:  120 * time.Second,
		},
		Audit: AuditConfig{
			Dir:        "/var/log/saltybridge",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Events: EventsConfig{
			BufferSize:        50,
			HeartbeatInterval: 15 * time.Second,
		},
		Tracing: TracingConfig{
			ServiceName: "saltybridge",
		},
	}
}
