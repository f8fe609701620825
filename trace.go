package lokalize

import (
	"encoding/json"

	"github.com/goliatone/go-lokalize/layering"
)

// Trace captures provenance information for a key lookup across the locales
// a node inherits from.
type Trace struct {
	Key    string       `json:"key"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how one locale of the inheritance chain contributed to
// a traced key.
type Provenance struct {
	Locale   Locale `json:"locale"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Found    bool   `json:"found"`
	Deleted  bool   `json:"deleted,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// Effective returns the first layer that provides the key.
func (t Trace) Effective() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Chain returns id followed by the locales it inherits from, strongest
// first.
func (t *Tree) Chain(id NodeID) []NodeID {
	var chain []NodeID
	seen := map[NodeID]struct{}{}
	for current := id; current != NoNode && t.Valid(current); current = t.ResolveParent(current) {
		if _, ok := seen[current]; ok {
			break
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}
	return chain
}

func (t *Tree) layerChain(id NodeID) layering.Chain {
	ids := t.Chain(id)
	layers := make([]layering.Layer, 0, len(ids))
	for _, node := range ids {
		n := &t.nodes[node]
		layers = append(layers, layering.Layer{
			Name:   n.locale.FileName(),
			Level:  n.locale.Level(),
			Values: textsOnly(n.store.Snapshot()),
		})
	}
	return layering.NewChain(layers...)
}

func textsOnly(snapshot map[string]string) map[string]string {
	for key := range snapshot {
		if IsCommentKey(key) {
			delete(snapshot, key)
		}
	}
	return snapshot
}

// Resolve returns the effective text of key for id, falling back along the
// inheritance chain.
func (t *Tree) Resolve(id NodeID, key string) (string, bool) {
	if IsCommentKey(key) {
		return "", false
	}
	value, idx := t.layerChain(id).Lookup(key)
	return value, idx >= 0
}

// Resolved returns every effective text for id with inherited values filled
// in.
func (t *Tree) Resolved(id NodeID) map[string]string {
	if !t.Valid(id) {
		return map[string]string{}
	}
	return t.layerChain(id).Merge()
}

// TraceKey reports, for each locale of the inheritance chain of id, whether
// and how it defines key.
func (t *Tree) TraceKey(id NodeID, key string) Trace {
	trace := Trace{Key: key}
	for _, node := range t.Chain(id) {
		n := &t.nodes[node]
		layer := Provenance{
			Locale:   n.locale,
			Name:     n.locale.DisplayName(t.display),
			Modified: n.store.IsModified(key),
		}
		if text, ok := n.store.Text(key); ok {
			layer.Found = true
			layer.Value = text
			layer.Comment, _ = n.store.Comment(key)
		} else if entry, ok := n.store.overrides[key]; ok && entry.Deleted {
			layer.Deleted = true
		}
		trace.Layers = append(trace.Layers, layer)
	}
	return trace
}
