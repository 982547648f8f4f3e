// Package radio implements the in-process radio subsystem used by the bridge.
//
// The Manager keeps the per-channel settings (frequency, volume, mute,
// stereo routing), the active transmit channel and the enabled flag.
// ChannelID defines how the legacy primary/secondary selector maps onto
// numeric channel slots; every channel-indexed operation goes through it.
package radio
