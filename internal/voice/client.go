package voice

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/radio-control/saltybridge/internal/adapter"
	"github.com/radio-control/saltybridge/internal/plugin"
)

// StatusListener receives plugin responses and disconnects.
type StatusListener interface {
	OnStatus(code plugin.StatusCode)
	OnDisconnect()
}

// Client tracks the voice plugin connection.
type Client struct {
	mu          sync.RWMutex
	connected   bool
	initialized bool
	voiceRange  float64
	listener    StatusListener
	logger      *slog.Logger
}

// Compile-time assertion that Client implements adapter.ClientModule
var _ adapter.ClientModule = (*Client)(nil)

// NewClient creates a disconnected client with the given voice range.
func NewClient(voiceRange float64, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{voiceRange: voiceRange, logger: logger}
}

// SetListener sets the receiver of status updates.
func (c *Client) SetListener(l StatusListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

// IsPluginInitialized reports whether the plugin answered OK since the last
// disconnect. Without strict, any response since connecting counts.
func (c *Client) IsPluginInitialized(strict bool) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if strict {
		return c.initialized
	}
	return c.connected
}

// VoiceRange returns the proximity voice range.
func (c *Client) VoiceRange() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voiceRange
}

// SetVoiceRange changes the proximity voice range.
func (c *Client) SetVoiceRange(r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voiceRange = r
}

// HandleResponse processes one raw response code from the plugin. Codes that
// are not known are forwarded unchanged.
func (c *Client) HandleResponse(raw string) plugin.StatusCode {
	code, ok := plugin.ParseStatusCode(raw)
	if !ok {
		code = plugin.StatusCode(strings.TrimSpace(raw))
		c.logger.Debug("unknown plugin response", "code", raw)
	}

	c.mu.Lock()
	c.connected = true
	if state, resolved := plugin.Resolve(code); resolved {
		c.initialized = state == plugin.StateReady || (c.initialized && state != plugin.StateError)
	}
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener.OnStatus(code)
	}
	return code
}

// HandleDisconnect processes a lost connection to the plugin.
func (c *Client) HandleDisconnect() {
	c.mu.Lock()
	c.connected = false
	c.initialized = false
	listener := c.listener
	c.mu.Unlock()

	c.logger.Info("voice plugin disconnected")
	if listener != nil {
		listener.OnDisconnect()
	}
}
