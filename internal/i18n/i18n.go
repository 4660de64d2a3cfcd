// Package i18n renders interpreter message keys in a chosen locale.
//
// Message catalogs are embedded YAML files (locales/<locale>.yaml) holding a
// flat key to printf-format map. They are registered into an x/text catalog
// so formatting goes through message.Printer with locale fallback to the
// base locale.
package i18n

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

// BaseLocale is the locale every catalog falls back to.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: make(map[string]map[string]string)}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, dup := b.locales[locale]; dup {
			return nil, fmt.Errorf("catalog %s: locale %q already defined", path, locale)
		}
		b.locales[locale] = file.Messages
	}

	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return b, nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for l := range b.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the raw format for key in locale, falling back to the base
// locale.
func (b *Bundle) Lookup(locale, key string) (string, bool) {
	if msgs, ok := b.locales[locale]; ok {
		if v, ok := msgs[key]; ok {
			return v, true
		}
	}
	v, ok := b.locales[BaseLocale][key]
	return v, ok
}

// Localizer formats message keys for one locale.
type Localizer struct {
	bundle  *Bundle
	locale  string
	printer *message.Printer
}

// NewLocalizer builds a localizer for locale. An empty locale selects the
// base locale.
func NewLocalizer(b *Bundle, locale string) (*Localizer, error) {
	if locale == "" {
		locale = BaseLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	base := language.MustParse(BaseLocale)
	builder := catalog.NewBuilder(catalog.Fallback(base))
	for _, l := range b.Locales() {
		lt, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", l, err)
		}
		for key, format := range b.locales[l] {
			if err := builder.SetString(lt, key, format); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", l, key, err)
			}
		}
	}

	return &Localizer{
		bundle:  b,
		locale:  locale,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Locale returns the requested locale.
func (l *Localizer) Locale() string {
	return l.locale
}

// Format renders key with args. Unknown keys render as "key: args".
func (l *Localizer) Format(key string, args ...any) string {
	if _, ok := l.bundle.Lookup(l.locale, key); !ok {
		if len(args) == 0 {
			return key
		}
		return key + ": " + fmt.Sprint(args...)
	}
	return l.printer.Sprintf(key, args...)
}
