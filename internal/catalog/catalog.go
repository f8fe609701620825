// Package catalog holds the messages shown by the command line in each
// supported user interface language.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var messageFiles embed.FS

// Catalog localizes command line messages for one language.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      language.Tag
}

// New returns a catalog for lang, an IETF language tag. Unknown languages
// fall back to English.
func New(lang string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	paths, err := fs.Glob(messageFiles, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if _, err := bundle.LoadMessageFileFS(messageFiles, path); err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", path, err)
		}
	}

	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		matcher := language.NewMatcher(bundle.LanguageTags())
		_, index, confidence := matcher.Match(parsed)
		if confidence != language.No {
			tag = bundle.LanguageTags()[index]
		}
	}
	return &Catalog{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		lang:      tag,
	}, nil
}

// Language returns the language messages are rendered in.
func (c *Catalog) Language() language.Tag {
	return c.lang
}

// Languages returns every language with a message file.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Localize renders the message id with data. Unknown ids render as the id.
func (c *Catalog) Localize(id string, data map[string]any) string {
	return c.render(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
}

// Plural renders the plural form of id selected by count. Count is also
// available to the template.
func (c *Catalog) Plural(id string, count int, data map[string]any) string {
	merged := map[string]any{"Count": count}
	for key, value := range data {
		merged[key] = value
	}
	return c.render(&i18n.LocalizeConfig{MessageID: id, TemplateData: merged, PluralCount: count})
}

func (c *Catalog) render(cfg *i18n.LocalizeConfig) string {
	msg, err := c.localizer.Localize(cfg)
	if err != nil && msg == "" {
		return cfg.MessageID
	}
	return msg
}
