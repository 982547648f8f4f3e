// Package host is an in-process implementation of the game host runtime the
// bridge plugs into: named commands, key mappings, events and resource
// exports.
//
// Emitted events are delivered to local handlers synchronously and are
// also published to an optional event publisher.
package host
