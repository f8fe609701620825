package layering

import "fmt"

// Level identifies how specific a locale is. More specific levels override
// less specific ones when layering.
type Level int

const (
	// LevelUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	LevelUnknown Level = iota
	// LevelBase is the locale without codes (the project root).
	LevelBase
	// LevelLanguage carries a language code only.
	LevelLanguage
	// LevelCountry carries language and country.
	LevelCountry
	// LevelVariant carries language, country and variant.
	LevelVariant
)

func (l Level) String() string {
	switch l {
	case LevelBase:
		return "base"
	case LevelLanguage:
		return "language"
	case LevelCountry:
		return "country"
	case LevelVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string representation into the corresponding Level.
// Returns LevelUnknown for unrecognised values.
func ParseLevel(value string) Level {
	switch value {
	case "base", "BASE":
		return LevelBase
	case "language", "LANGUAGE":
		return LevelLanguage
	case "country", "COUNTRY":
		return LevelCountry
	case "variant", "VARIANT":
		return LevelVariant
	default:
		return LevelUnknown
	}
}

// Layer names one contributing key/value set within an inheritance chain.
type Layer struct {
	Name   string
	Level  Level
	Values map[string]string
}

// Identifier returns a stable slug for the layer ("country/de_DE").
func (l Layer) Identifier() string {
	return fmt.Sprintf("%s/%s", l.Level, l.Name)
}

// Chain describes the ordered layering sequence from strongest to weakest.
type Chain struct {
	ordered []Layer
}

// NewChain constructs a chain in the given order, dropping layers with an
// unknown level and duplicates by Identifier. Inheritance does not follow
// specificity (the root may fall back to a language-level master), so the
// caller decides the order.
func NewChain(layers ...Layer) Chain {
	filtered := make([]Layer, 0, len(layers))
	seen := map[string]struct{}{}

	for _, layer := range layers {
		if layer.Level == LevelUnknown {
			continue
		}
		id := layer.Identifier()
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, layer)
	}
	return Chain{ordered: filtered}
}

// Ordered returns the layering sequence from strongest (index 0) to weakest.
func (c Chain) Ordered() []Layer {
	out := make([]Layer, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of layers.
func (c Chain) Len() int {
	return len(c.ordered)
}

// Strongest returns the first layer in the chain (zero layer if empty).
func (c Chain) Strongest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[0]
}

// Weakest returns the final layer in the chain (zero layer if empty).
func (c Chain) Weakest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[len(c.ordered)-1]
}

// Lookup returns the value of key from the strongest layer defining it and
// the index of that layer, or -1.
func (c Chain) Lookup(key string) (string, int) {
	for i, layer := range c.ordered {
		if value, ok := layer.Values[key]; ok {
			return value, i
		}
	}
	return "", -1
}

// Merge flattens the chain into a single map.
func (c Chain) Merge() map[string]string {
	values := make([]map[string]string, len(c.ordered))
	for i, layer := range c.ordered {
		values[i] = layer.Values
	}
	return MergeLayers(values...)
}
