// Package voice is the client-module stand-in: it receives the voice
// plugin's response codes, tracks initialization and the proximity voice
// range, and forwards every status to a listener.
package voice
