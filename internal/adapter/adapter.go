package adapter

// StereoMode selects how a radio channel is routed to the speakers.
type StereoMode string

const (
	StereoModeMono  StereoMode = "MONO_LEFT_RIGHT"
	StereoModeLeft  StereoMode = "ONLY_LEFT"
	StereoModeRight StereoMode = "ONLY_RIGHT"
	StereoModeBoth  StereoMode = "STEREO"
)

// RadioSettings is the per-channel configuration held by the radio subsystem.
type RadioSettings struct {
	Frequency string     `json:"frequency"`
	Muted     bool       `json:"muted"`
	Volume    float64    `json:"volume"`
	Stereo    StereoMode `json:"stereo"`
}

// RadioControl is the narrow contract into the radio subsystem.
// Channels are addressed by their numeric slot (1-based).
type RadioControl interface {
	// ChannelSettings returns the settings of a channel slot.
	// The second result is false when the slot does not exist.
	ChannelSettings(channel int) (RadioSettings, bool)

	// ChangeRadioFrequencyRaw sets the frequency token without validation.
	ChangeRadioFrequencyRaw(channel int, frequency string)

	// ChangeRadioChannelVolumeRaw sets the channel volume without clamping.
	ChangeRadioChannelVolumeRaw(channel int, volume float64)

	// ChangeActiveRadioChannel selects the channel used for transmitting.
	ChangeActiveRadioChannel(channel int)

	// RadioTalkingStart starts (true) or stops (false) radio transmission
	// on the active channel.
	RadioTalkingStart(state bool)

	// EnableRadio turns the radio on or off.
	EnableRadio(state bool)
}

// ClientModule is the slice of the voice client the bridge depends on.
type ClientModule interface {
	// IsPluginInitialized reports whether the voice plugin finished its
	// handshake. strict requests the stricter readiness check.
	IsPluginInitialized(strict bool) bool

	// VoiceRange returns the current proximity voice range.
	VoiceRange() float64
}
