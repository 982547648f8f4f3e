// Package plugin reconciles YaCA voice plugin response codes into the
// SaltyChat plugin state signal.
//
// Legacy consumers understand four values: disconnected (-1), error (0),
// degraded (1) and ready (2). Auxiliary protocol chatter such as renames,
// mute or talk pulses and heartbeats never reaches them, and repeated
// reports of the same state are collapsed.
package plugin
