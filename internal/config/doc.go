// Package config loads the bridge configuration.
//
// Values are layered: Defaults, then an optional YAML file, then
// SALTYBRIDGE_* environment variables. The result is checked by Validate
// before it is returned.
package config
