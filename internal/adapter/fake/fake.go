// Package fake provides recording fakes of the adapter contracts for tests.
package fake

import (
	"fmt"
	"sync"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// Call is one recorded invocation on the fake radio.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// Radio implements adapter.RadioControl in memory and records every mutating call.
type Radio struct {
	mu       sync.Mutex
	channels map[int]adapter.RadioSettings
	active   int
	talking  bool
	enabled  bool
	calls    []Call
}

// Compile-time assertion that Radio implements adapter.RadioControl
var _ adapter.RadioControl = (*Radio)(nil)

// NewRadio creates a fake radio with the given number of channel slots.
func NewRadio(channels int) *Radio {
	r := &Radio{
		channels: make(map[int]adapter.RadioSettings, channels),
		active:   1,
	}
	for i := 1; i <= channels; i++ {
		r.channels[i] = adapter.RadioSettings{
			Frequency: "0",
			Volume:    1,
			Stereo:    adapter.StereoModeBoth,
		}
	}
	return r
}

// ChannelSettings returns the settings of a channel slot.
func (r *Radio) ChannelSettings(channel int) (adapter.RadioSettings, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.channels[channel]
	return settings, ok
}

// ChangeRadioFrequencyRaw stores the frequency token.
func (r *Radio) ChangeRadioFrequencyRaw(channel int, frequency string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ChangeRadioFrequencyRaw", channel, frequency)
	if settings, ok := r.channels[channel]; ok {
		settings.Frequency = frequency
		r.channels[channel] = settings
	}
}

// ChangeRadioChannelVolumeRaw stores the channel volume.
func (r *Radio) ChangeRadioChannelVolumeRaw(channel int, volume float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ChangeRadioChannelVolumeRaw", channel, volume)
	if settings, ok := r.channels[channel]; ok {
		settings.Volume = volume
		r.channels[channel] = settings
	}
}

// ChangeActiveRadioChannel selects the transmit channel.
func (r *Radio) ChangeActiveRadioChannel(channel int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ChangeActiveRadioChannel", channel)
	r.active = channel
}

// RadioTalkingStart toggles transmission.
func (r *Radio) RadioTalkingStart(state bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("RadioTalkingStart", state)
	r.talking = state
}

// EnableRadio toggles the radio.
func (r *Radio) EnableRadio(state bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EnableRadio", state)
	r.enabled = state
}

func (r *Radio) record(method string, args ...any) {
	r.calls = append(r.calls, Call{Method: method, Args: args})
}

// Helper methods for testing

// Calls returns a copy of the recorded calls.
func (r *Radio) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// ResetCalls clears the call log.
func (r *Radio) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Active returns the active transmit channel.
func (r *Radio) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Talking reports whether transmission is on.
func (r *Radio) Talking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.talking
}

// Enabled reports whether the radio was enabled.
func (r *Radio) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Client implements adapter.ClientModule with a switchable readiness answer.
type Client struct {
	mu          sync.Mutex
	ready       bool
	readyAfter  int
	checks      int
	strictCalls int
	voiceRange  float64
}

// Compile-time assertion that Client implements adapter.ClientModule
var _ adapter.ClientModule = (*Client)(nil)

// NewClient creates a fake client module reporting the given voice range.
func NewClient(voiceRange float64) *Client {
	return &Client{voiceRange: voiceRange}
}

// IsPluginInitialized reports the configured readiness and counts the call.
func (c *Client) IsPluginInitialized(strict bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks++
	if strict {
		c.strictCalls++
	}
	if c.readyAfter > 0 && c.checks >= c.readyAfter {
		c.ready = true
	}
	return c.ready
}

// VoiceRange returns the configured range.
func (c *Client) VoiceRange() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voiceRange
}

// SetReady switches the readiness answer.
func (c *Client) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// ReadyAfter makes the client report ready from the n-th check onwards.
func (c *Client) ReadyAfter(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyAfter = n
}

// Checks returns how many readiness checks were made and how many were strict.
func (c *Client) Checks() (total, strict int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checks, c.strictCalls
}

// SetVoiceRange changes the reported range.
func (c *Client) SetVoiceRange(voiceRange float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voiceRange = voiceRange
}
