// Package bundle converts nested translation bundles, as found in JSON or
// YAML message files, to and from the flat key/text snapshots of a locale.
package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Separator joins nested map keys into flat keys.
const Separator = "."

// Context identifies the bundle being decoded.
type Context struct {
	Source string
	Locale string
}

// PreHook lets callers mutate or normalise the payload before flattening.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the flat snapshot.
type PostHook func(Context, map[string]string) error

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// Decoder flattens bundles into key/text snapshots.
type Decoder struct {
	preHooks  []PreHook
	postHooks []PostHook
}

// WithPreHook applies hook prior to flattening.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after flattening.
func WithPostHook(hook PostHook) DecoderOption {
	return func(d *Decoder) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// NewDecoder returns a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeJSON reads a JSON object from r and flattens it.
func (d *Decoder) DecodeJSON(ctx Context, r io.Reader) (map[string]string, error) {
	var payload map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("bundle: decode json %q: %w", ctx.Source, err)
	}
	return d.Decode(ctx, payload)
}

// DecodeYAML reads a YAML mapping from r and flattens it.
func (d *Decoder) DecodeYAML(ctx Context, r io.Reader) (map[string]string, error) {
	var payload map[string]any
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bundle: decode yaml %q: %w", ctx.Source, err)
	}
	return d.Decode(ctx, payload)
}

// Decode flattens payload applying the configured hooks. Nested keys are
// joined with Separator; numbers and booleans are formatted as text.
func (d *Decoder) Decode(ctx Context, payload map[string]any) (map[string]string, error) {
	if payload == nil {
		return nil, fmt.Errorf("bundle: payload is nil for %q", ctx.Source)
	}
	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("bundle: pre-hook for %q failed: %w", ctx.Source, err)
		}
		if next != nil {
			current = next
		}
	}

	flat := map[string]string{}
	if err := flatten("", current, flat); err != nil {
		return nil, fmt.Errorf("bundle: %q: %w", ctx.Source, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, flat); err != nil {
			return nil, fmt.Errorf("bundle: post-hook for %q failed: %w", ctx.Source, err)
		}
	}
	return flat, nil
}

func flatten(prefix string, value any, out map[string]string) error {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			if err := flatten(join(prefix, key), child, out); err != nil {
				return err
			}
		}
		return nil
	case map[any]any:
		for key, child := range v {
			if err := flatten(join(prefix, fmt.Sprint(key)), child, out); err != nil {
				return err
			}
		}
		return nil
	}
	if prefix == "" {
		return fmt.Errorf("top level value must be an object")
	}
	text, err := leafText(value)
	if err != nil {
		return fmt.Errorf("key %q: %w", prefix, err)
	}
	out[prefix] = text
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Separator + key
}

func leafText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}

// Nest turns a flat snapshot back into nested maps. It fails when a key is
// both a text and the prefix of another key.
func Nest(flat map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, key := range keys {
		parts := strings.Split(key, Separator)
		node := root
		for i, part := range parts {
			last := i == len(parts)-1
			existing, ok := node[part]
			if last {
				if ok {
					return nil, fmt.Errorf("bundle: key %q conflicts with a nested key", key)
				}
				node[part] = flat[key]
				break
			}
			if !ok {
				child := map[string]any{}
				node[part] = child
				node = child
				continue
			}
			child, isMap := existing.(map[string]any)
			if !isMap {
				return nil, fmt.Errorf("bundle: key %q conflicts with text at %q", key, strings.Join(parts[:i+1], Separator))
			}
			node = child
		}
	}
	return root, nil
}

// StripPrefix returns a pre-hook that unwraps the object stored under key,
// e.g. the locale code wrapping a Rails style bundle.
func StripPrefix(key string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		inner, ok := payload[key].(map[string]any)
		if !ok || len(payload) != 1 {
			return payload, nil
		}
		return inner, nil
	}
}

// RejectCommentKeys is a post-hook failing on keys ending in suffix.
func RejectCommentKeys(suffix string) PostHook {
	return func(_ Context, flat map[string]string) error {
		for key := range flat {
			if strings.HasSuffix(key, suffix) {
				return fmt.Errorf("key %q uses the reserved suffix %q", key, suffix)
			}
		}
		return nil
	}
}
