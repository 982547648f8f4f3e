// Package adapter defines the contracts the bridge uses to reach the YaCA
// client: the radio subsystem and the client module.
//
// The bridge never owns radio channel storage; it reads and writes channel
// settings through RadioControl, one call at a time.
package adapter
