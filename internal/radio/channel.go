package radio

// ChannelID names one of the two channels the legacy API knows about.
type ChannelID int

const (
	Primary ChannelID = iota
	Secondary
)

// Slot returns the numeric channel slot used by the radio subsystem.
func (c ChannelID) Slot() int {
	if c == Secondary {
		return 2
	}
	return 1
}

func (c ChannelID) String() string {
	if c == Secondary {
		return "secondary"
	}
	return "primary"
}

// ChannelFor resolves the legacy "is this the primary channel" selector.
func ChannelFor(isPrimary bool) ChannelID {
	if isPrimary {
		return Primary
	}
	return Secondary
}

// Channels lists both legacy channels in slot order.
func Channels() []ChannelID {
	return []ChannelID{Primary, Secondary}
}
