package locale

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLabels(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Equal(t, []string{"en-US", "de-DE"}, c.Locales())

	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{"en-US", "use_salty_primary_radio", "Use primary radio"},
		{"en-US", "use_salty_secondary_radio", "Use secondary radio"},
		{"de-DE", "use_salty_primary_radio", "Primärfunk benutzen"},
		{"de-DE", "use_salty_secondary_radio", "Sekundärfunk benutzen"},
		{"de", "use_salty_primary_radio", "Primärfunk benutzen"},
		{"", "use_salty_primary_radio", "Use primary radio"},
		{"not a locale", "use_salty_primary_radio", "Use primary radio"},
		{"en-US", "unknown_key", "unknown_key"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Localizer(tt.locale).Label(tt.key))
		})
	}
}

func TestMissingTranslationFallsBackToBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  a: Alpha\n  b: Beta\n")},
		"locales/de-DE.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: Anton\n")},
	}

	c, err := LoadFromFS(fsys)
	require.NoError(t, err)

	de := c.Localizer("de-DE")
	assert.Equal(t, "de-DE", de.Locale())
	assert.Equal(t, "Anton", de.Label("a"))
	assert.Equal(t, "Beta", de.Label("b"))
}

func TestLabelsKeepPercentSigns(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  boost: \"100% radio\"\n")},
		"locales/de-DE.yaml": {Data: []byte("locale: de-DE\nmessages:\n  boost: \"100% Funk %d\"\n")},
	}

	c, err := LoadFromFS(fsys)
	require.NoError(t, err)

	assert.Equal(t, "100% radio", c.Localizer("en-US").Label("boost"))
	assert.Equal(t, "100% Funk %d", c.Localizer("de-DE").Label("boost"))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{"empty", fstest.MapFS{}, "no locale catalogs found"},
		{
			"missing base",
			fstest.MapFS{"locales/de-DE.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: A\n")}},
			"base locale en-US",
		},
		{
			"missing locale field",
			fstest.MapFS{"locales/en-US.yaml": {Data: []byte("messages:\n  a: A\n")}},
			"locale is required",
		},
		{
			"bad yaml",
			fstest.MapFS{"locales/en-US.yaml": {Data: []byte("locale: [")}},
			"failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFS(tt.fsys)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
