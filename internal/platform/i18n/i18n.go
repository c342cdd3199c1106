// Package i18n serves the display strings used by API consumers in English,
// Hindi and Kannada.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

//go:embed catalog.json
var catalogJSON []byte

var ErrUnsupportedLanguage = apperror.NotFound(apperror.CodeNotFound, "unsupported language")

// Catalog holds one key/value table per language. It is immutable and safe
// for concurrent use.
type Catalog struct {
	tables      map[string]map[string]string
	defaultLang string
	langs       []string // default first, then the rest sorted
	matcher     language.Matcher
}

// New decodes a catalog document of the form {"lang": {"key": "text"}}.
// defaultLang must be present; it backs missing keys in other languages.
func New(data []byte, defaultLang string) (*Catalog, error) {
	var tables map[string]map[string]string
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("decode i18n catalog: %w", err)
	}
	if _, ok := tables[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n catalog has no %q table", defaultLang)
	}

	langs := []string{defaultLang}
	for l := range tables {
		if l != defaultLang {
			langs = append(langs, l)
		}
	}
	sort.Strings(langs[1:])

	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n catalog language %q: %w", l, err)
		}
		tags[i] = tag
	}

	return &Catalog{
		tables:      tables,
		defaultLang: defaultLang,
		langs:       langs,
		matcher:     language.NewMatcher(tags),
	}, nil
}

// Default loads the embedded catalog.
func Default(defaultLang string) (*Catalog, error) {
	return New(catalogJSON, defaultLang)
}

// Languages lists the supported language codes, default first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.langs...)
}

func (c *Catalog) DefaultLanguage() string {
	return c.defaultLang
}

// Lookup returns the text for key in lang, falling back to the default
// language and finally to the key itself.
func (c *Catalog) Lookup(lang, key string) string {
	if v, ok := c.tables[lang][key]; ok {
		return v
	}
	if v, ok := c.tables[c.defaultLang][key]; ok {
		return v
	}
	return key
}

// Table returns every key for lang with default-language fallbacks filled in.
func (c *Catalog) Table(lang string) (map[string]string, error) {
	t, ok := c.tables[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	out := make(map[string]string, len(c.tables[c.defaultLang]))
	for k, v := range c.tables[c.defaultLang] {
		out[k] = v
	}
	for k, v := range t {
		out[k] = v
	}
	return out, nil
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	_, idx := language.MatchStrings(c.matcher, acceptLanguage)
	return c.langs[idx]
}
