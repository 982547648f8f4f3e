package radio

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// DefaultMaxChannels matches the YaCA shared config default.
const DefaultMaxChannels = 9

// Channel is a snapshot of one channel slot.
type Channel struct {
	Slot     int                   `json:"slot"`
	Settings adapter.RadioSettings `json:"settings"`
}

// Snapshot is the read model exposed on the state endpoint.
type Snapshot struct {
	Enabled       bool      `json:"enabled"`
	Talking       bool      `json:"talking"`
	ActiveChannel int       `json:"activeChannel"`
	Channels      []Channel `json:"channels"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Manager manages radio channel settings, the active channel and the enabled flag.
type Manager struct {
	mu            sync.RWMutex
	channels      map[int]*adapter.RadioSettings
	activeChannel int
	talking       bool
	enabled       bool
	updatedAt     time.Time
}

// Compile-time assertion that Manager implements adapter.RadioControl
var _ adapter.RadioControl = (*Manager)(nil)

// NewManager creates a radio manager with maxChannels slots.
// Values below two are raised to two so both legacy channels exist.
func NewManager(maxChannels int) *Manager {
	if maxChannels < 2 {
		maxChannels = 2
	}

	m := &Manager{
		channels:      make(map[int]*adapter.RadioSettings, maxChannels),
		activeChannel: Primary.Slot(),
		updatedAt:     time.Now(),
	}
	for slot := 1; slot <= maxChannels; slot++ {
		m.channels[slot] = &adapter.RadioSettings{
			Frequency: "0",
			Muted:     false,
			Volume:    1,
			Stereo:    adapter.StereoModeBoth,
		}
	}
	return m
}

// ChannelSettings returns a copy of a channel's settings.
func (m *Manager) ChannelSettings(channel int) (adapter.RadioSettings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings, exists := m.channels[channel]
	if !exists {
		return adapter.RadioSettings{}, false
	}
	return *settings, true
}

// ChangeRadioFrequencyRaw sets the frequency token of a channel.
// Unknown slots are ignored.
func (m *Manager) ChangeRadioFrequencyRaw(channel int, frequency string) {
	m.update(channel, func(s *adapter.RadioSettings) {
		s.Frequency = frequency
	})
}

// ChangeRadioChannelVolumeRaw sets the volume of a channel.
func (m *Manager) ChangeRadioChannelVolumeRaw(channel int, volume float64) {
	m.update(channel, func(s *adapter.RadioSettings) {
		s.Volume = volume
	})
}

// SetMuted mutes or unmutes a channel.
func (m *Manager) SetMuted(channel int, muted bool) {
	m.update(channel, func(s *adapter.RadioSettings) {
		s.Muted = muted
	})
}

// SetStereo changes the speaker routing of a channel.
func (m *Manager) SetStereo(channel int, mode adapter.StereoMode) {
	m.update(channel, func(s *adapter.RadioSettings) {
		s.Stereo = mode
	})
}

// ChangeActiveRadioChannel selects the transmit channel. Unknown slots are ignored.
func (m *Manager) ChangeActiveRadioChannel(channel int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.channels[channel]; !exists {
		return
	}
	m.activeChannel = channel
	m.updatedAt = time.Now()
}

// RadioTalkingStart starts or stops transmitting. Transmitting requires the
// radio to be enabled; stopping is always accepted.
func (m *Manager) RadioTalkingStart(state bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state && !m.enabled {
		return
	}
	m.talking = state
	m.updatedAt = time.Now()
}

// EnableRadio turns the radio on or off. Turning it off also stops transmitting.
func (m *Manager) EnableRadio(state bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = state
	if !state {
		m.talking = false
	}
	m.updatedAt = time.Now()
}

// Enabled reports whether the radio is on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// ActiveChannel returns the transmit channel slot.
func (m *Manager) ActiveChannel() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeChannel
}

// Talking reports whether the radio is transmitting.
func (m *Manager) Talking() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.talking
}

// Snapshot returns the radio state with channels in slot order.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slots := make([]int, 0, len(m.channels))
	for slot := range m.channels {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	channels := make([]Channel, 0, len(slots))
	for _, slot := range slots {
		channels = append(channels, Channel{Slot: slot, Settings: *m.channels[slot]})
	}

	return &Snapshot{
		Enabled:       m.enabled,
		Talking:       m.talking,
		ActiveChannel: m.activeChannel,
		Channels:      channels,
		UpdatedAt:     m.updatedAt,
	}
}

// Channel returns the settings of a legacy channel.
func (m *Manager) Channel(id ChannelID) (adapter.RadioSettings, error) {
	settings, ok := m.ChannelSettings(id.Slot())
	if !ok {
		return adapter.RadioSettings{}, fmt.Errorf("radio channel %d not configured", id.Slot())
	}
	return settings, nil
}

func (m *Manager) update(channel int, apply func(*adapter.RadioSettings)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, exists := m.channels[channel]
	if !exists {
		return
	}
	apply(settings)
	m.updatedAt = time.Now()
}
