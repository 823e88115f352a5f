package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the message catalogs of every known locale.
type Bundle struct {
	tags     []language.Tag
	messages map[string]map[string]string
	matcher  language.Matcher
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the bundle built from the embedded catalogs.
func Default() *Bundle {
	return defaultBundle
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFromFS reads locales/*.yaml from fsys. The base locale must be present.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{
		tags:     []language.Tag{base},
		messages: make(map[string]map[string]string),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if file.Locale != name {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name", p, file.Locale)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		if file.Messages == nil {
			file.Messages = map[string]string{}
		}
		b.messages[tag.String()] = file.Messages
		if tag.String() != base.String() {
			b.tags = append(b.tags, tag)
		}
	}
	if _, ok := b.messages[base.String()]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales returns the supported locales, base first.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.tags))
	for _, t := range b.tags {
		out = append(out, t.String())
	}
	return out
}

// Translate returns the message for key in the closest supported locale.
// Missing messages fall back to the base locale, then to the key itself.
func (b *Bundle) Translate(locale, key string) string {
	if msg, ok := b.messages[b.match(locale).String()][key]; ok {
		return msg
	}
	if msg, ok := b.messages[BaseLocale][key]; ok {
		return msg
	}
	return key
}

func (b *Bundle) match(locale string) language.Tag {
	if locale == "" {
		return b.tags[0]
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return b.tags[0]
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No {
		return b.tags[0]
	}
	return b.tags[idx]
}
