// Package bridge exposes the legacy SaltyChat client API on top of the YaCA
// voice backend.
//
// A Bridge registers the radio transmit key bindings and the legacy exports
// with the host, translates plugin response codes into deduplicated
// SaltyChat_PluginStateChanged events, and enables the radio once the voice
// plugin is initialized. Operations the backend cannot provide log a warning
// and return a safe default; no legacy call ever fails.
package bridge
