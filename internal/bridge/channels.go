package bridge

import (
	"github.com/radio-control/saltybridge/internal/adapter"
	"github.com/radio-control/saltybridge/internal/radio"
)

// Legacy operation names without a YaCA counterpart.
const (
	OpGetRadioSpeaker = "GetRadioSpeaker"
	OpSetRadioSpeaker = "SetRadioSpeaker"
	OpGetMicClick     = "GetMicClick"
	OpSetMicClick     = "SetMicClick"
)

// RadioChannels maps the legacy two-channel radio API onto the radio
// subsystem. It keeps no state of its own.
type RadioChannels struct {
	radio  adapter.RadioControl
	client adapter.ClientModule
}

// NewRadioChannels creates the channel facade.
func NewRadioChannels(r adapter.RadioControl, client adapter.ClientModule) *RadioChannels {
	return &RadioChannels{radio: r, client: client}
}

// Frequency returns the frequency token of the selected channel, or "" when
// the slot does not exist.
func (c *RadioChannels) Frequency(isPrimary bool) string {
	settings, _ := c.radio.ChannelSettings(radio.ChannelFor(isPrimary).Slot())
	return settings.Frequency
}

// SetFrequency stores token on the selected channel without validation.
func (c *RadioChannels) SetFrequency(isPrimary bool, token string) {
	c.radio.ChangeRadioFrequencyRaw(radio.ChannelFor(isPrimary).Slot(), token)
}

// Volume returns the primary channel volume, which stands in for the single
// legacy radio volume.
func (c *RadioChannels) Volume() float64 {
	settings, _ := c.radio.ChannelSettings(radio.Primary.Slot())
	return settings.Volume
}

// SetVolume writes level to both channels.
func (c *RadioChannels) SetVolume(level float64) {
	for _, ch := range radio.Channels() {
		c.radio.ChangeRadioChannelVolumeRaw(ch.Slot(), level)
	}
}

// VoiceRange returns the client module's proximity voice range.
func (c *RadioChannels) VoiceRange() float64 {
	return c.client.VoiceRange()
}

// Speaker reports the radio speaker toggle. YaCA has none.
func (c *RadioChannels) Speaker() Capability[bool] {
	return Unsupported[bool](OpGetRadioSpeaker)
}

// SetSpeaker changes the radio speaker toggle. YaCA has none.
func (c *RadioChannels) SetSpeaker() Capability[None] {
	return Unsupported[None](OpSetRadioSpeaker)
}

// MicClick reports the mic click setting. YaCA has none.
func (c *RadioChannels) MicClick() Capability[bool] {
	return Unsupported[bool](OpGetMicClick)
}

// SetMicClick changes the mic click setting. YaCA has none.
func (c *RadioChannels) SetMicClick() Capability[None] {
	return Unsupported[None](OpSetMicClick)
}
