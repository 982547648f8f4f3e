// Package locale provides display labels for key bindings.
//
// Message catalogs are YAML files embedded from locales/. Every locale falls
// back to BaseLocale for keys it does not define; unknown keys render as the
// key itself.
package locale
