package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	keys    map[string]struct{}
}

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/*.yaml file of fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	files := make(map[string]catalogFile, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
		file.Locale = strings.TrimSpace(file.Locale)
		if file.Locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, exists := files[file.Locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %s defined twice", path, file.Locale)
		}
		files[file.Locale] = file
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// Base first so the matcher falls back to it.
	locales := []string{BaseLocale}
	for locale := range files {
		if locale != BaseLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales[1:])

	c := &Catalog{
		builder: catalog.NewBuilder(),
		keys:    make(map[string]struct{}),
	}
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locale tag %q: %w", locale, err)
		}
		c.tags = append(c.tags, tag)

		for key, msg := range base.Messages {
			if translated, ok := files[locale].Messages[key]; ok {
				msg = translated
			}
			// Labels are literal text; the printer formats catalog messages.
			if err := c.builder.SetString(tag, key, strings.ReplaceAll(msg, "%", "%%")); err != nil {
				return nil, fmt.Errorf("failed to register %s/%s: %w", locale, key, err)
			}
			c.keys[key] = struct{}{}
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales returns the loaded locale tags with BaseLocale first.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

// Localizer resolves labels for one locale.
type Localizer struct {
	catalog *Catalog
	tag     language.Tag
	printer *message.Printer
}

// Localizer returns a label resolver for the closest loaded locale.
func (c *Catalog) Localizer(locale string) *Localizer {
	tag := c.tags[0]
	if requested, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, index, confidence := c.matcher.Match(requested)
		if confidence != language.No {
			tag = c.tags[index]
		}
	}
	return &Localizer{
		catalog: c,
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Locale returns the locale the localizer resolved to.
func (l *Localizer) Locale() string {
	return l.tag.String()
}

// Label returns the display text for key.
func (l *Localizer) Label(key string) string {
	if _, ok := l.catalog.keys[key]; !ok {
		return key
	}
	return l.printer.Sprintf(key)
}
