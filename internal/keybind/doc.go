// Package keybind registers press/release command pairs and their default
// key mappings with the host runtime.
//
// Bindings are declared as a table and registered once; a binding name that
// was already registered is skipped.
package keybind
