package lokalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-lokalize/layering"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Locale identifies one resource of a project. Country is only set when
// Language is, Variant only when Country is.
type Locale struct {
	Base     string `json:"base,omitempty"`
	Language string `json:"language,omitempty"`
	Country  string `json:"country,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

// NewLocale validates codes (language, country, variant; any prefix of the
// three) and returns the matching locale.
func NewLocale(base string, codes ...string) (Locale, error) {
	if err := ValidateCodes(codes); err != nil {
		return Locale{}, err
	}
	l := Locale{Base: base}
	if len(codes) > 0 {
		l.Language = codes[0]
	}
	if len(codes) > 1 {
		l.Country = codes[1]
	}
	if len(codes) > 2 {
		l.Variant = codes[2]
	}
	return l, nil
}

// ParseLocaleCode splits a code such as "de_DE" or "pt-BR" into its parts and
// validates them. The empty string yields no codes (the base locale).
func ParseLocaleCode(code string) ([]string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	codes := strings.Split(strings.ReplaceAll(code, "-", "_"), "_")
	if err := ValidateCodes(codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// ValidateCodes checks a language/country/variant tuple.
func ValidateCodes(codes []string) error {
	if len(codes) > 3 {
		return fmt.Errorf("%w: too many parts in %q", ErrInvalidLocaleCode, strings.Join(codes, "_"))
	}
	for i, code := range codes {
		var ok bool
		switch i {
		case 0:
			ok = validLanguage(code)
		case 1:
			ok = validCountry(code)
		case 2:
			ok = validVariant(code)
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidLocaleCode, strings.Join(codes, "_"))
		}
	}
	return nil
}

func validLanguage(code string) bool {
	if len(code) < 2 || len(code) > 3 || !isASCII(code, lowerLetter) {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}

func validCountry(code string) bool {
	switch {
	case len(code) == 2 && isASCII(code, upperLetter):
	case len(code) == 3 && isASCII(code, digit):
	default:
		return false
	}
	_, err := language.ParseRegion(code)
	return err == nil
}

func validVariant(code string) bool {
	return len(code) > 0 && len(code) <= 8 && isASCII(code, func(r byte) bool {
		return lowerLetter(r) || upperLetter(r) || digit(r)
	})
}

func lowerLetter(r byte) bool { return r >= 'a' && r <= 'z' }
func upperLetter(r byte) bool { return r >= 'A' && r <= 'Z' }
func digit(r byte) bool       { return r >= '0' && r <= '9' }

func isASCII(s string, accept func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !accept(s[i]) {
			return false
		}
	}
	return true
}

// Codes returns the set codes from least to most specific.
func (l Locale) Codes() []string {
	var codes []string
	if l.Language == "" {
		return codes
	}
	codes = append(codes, l.Language)
	if l.Country == "" {
		return codes
	}
	codes = append(codes, l.Country)
	if l.Variant != "" {
		codes = append(codes, l.Variant)
	}
	return codes
}

// Code joins the codes with underscores ("de_DE"); empty for the base locale.
func (l Locale) Code() string {
	return strings.Join(l.Codes(), "_")
}

// FileName returns base[_language[_country[_variant]]] without extension.
func (l Locale) FileName() string {
	parts := append([]string{l.Base}, l.Codes()...)
	return strings.Join(parts, "_")
}

// Level reports how specific the locale is.
func (l Locale) Level() layering.Level {
	switch len(l.Codes()) {
	case 0:
		return layering.LevelBase
	case 1:
		return layering.LevelLanguage
	case 2:
		return layering.LevelCountry
	default:
		return layering.LevelVariant
	}
}

// SameCodes reports whether both locales address the same language, country
// and variant, ignoring the base.
func (l Locale) SameCodes(other Locale) bool {
	return l.Language == other.Language && l.Country == other.Country && l.Variant == other.Variant
}

// Tag converts the language and country into a BCP 47 tag.
func (l Locale) Tag() (language.Tag, bool) {
	if l.Language == "" {
		return language.Und, false
	}
	code := l.Language
	if l.Country != "" {
		code += "-" + l.Country
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// DisplayName returns a human readable name for the locale expressed in the
// display language, e.g. "German (Germany)". The base locale uses the base.
func (l Locale) DisplayName(in language.Tag) string {
	tag, ok := l.Tag()
	if !ok {
		if l.Language == "" {
			return l.Base
		}
		return l.Code()
	}
	name := display.Tags(in).Name(tag)
	if name == "" {
		name = l.Code()
	}
	if l.Variant != "" {
		name += " [" + l.Variant + "]"
	}
	return capitalize(name, in)
}

func capitalize(s string, tag language.Tag) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(tag).String(s[:size]) + s[size:]
}

func (l Locale) String() string {
	return l.FileName()
}
