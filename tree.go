package lokalize

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// NodeID addresses a node of a Tree. IDs stay stable for the lifetime of the
// tree; removed nodes are never reused.
type NodeID int

// NoNode is the zero handle returned when no node applies.
const NoNode NodeID = -1

// RemoveResult tells what Tree.Remove did to a node.
type RemoveResult int

const (
	// Removed means the node was detached from the tree.
	Removed RemoveResult = iota
	// KeysCleared means the node stays but all its keys were tombstoned.
	KeysCleared
)

func (r RemoveResult) String() string {
	if r == Removed {
		return "removed"
	}
	return "keys-cleared"
}

type treeNode struct {
	locale   Locale
	store    *Store
	parent   NodeID
	children []NodeID
	master   bool
	alive    bool
}

// TreeOption configures a Tree on creation.
type TreeOption func(*treeConfig)

type treeConfig struct {
	display language.Tag
}

// WithDisplayLanguage sets the language display names are expressed in.
func WithDisplayLanguage(tag language.Tag) TreeOption {
	return func(cfg *treeConfig) {
		cfg.display = tag
	}
}

// Tree is the locale hierarchy of a project: base at the root, then
// language, country and variant levels. Nodes live in an arena and are
// addressed by NodeID.
type Tree struct {
	nodes   []treeNode
	root    NodeID
	display language.Tag
}

// NewTree returns a tree holding only an empty root locale for base.
func NewTree(base string, opts ...TreeOption) *Tree {
	cfg := treeConfig{display: language.English}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	t := &Tree{display: cfg.display}
	t.root = t.alloc(Locale{Base: base}, NewStore(), NoNode)
	return t
}

func (t *Tree) alloc(locale Locale, store *Store, parent NodeID) NodeID {
	if store == nil {
		store = NewStore()
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{
		locale: locale,
		store:  store,
		parent: parent,
		alive:  true,
	})
	if parent != NoNode {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id
}

func (t *Tree) node(id NodeID) (*treeNode, bool) {
	if t == nil || id < 0 || int(id) >= len(t.nodes) || !t.nodes[id].alive {
		return nil, false
	}
	return &t.nodes[id], true
}

// Valid reports whether id addresses a live node.
func (t *Tree) Valid(id NodeID) bool {
	_, ok := t.node(id)
	return ok
}

// Root returns the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Base returns the project identifier shared by every node.
func (t *Tree) Base() string {
	return t.nodes[t.root].locale.Base
}

// DisplayLanguage returns the language display names are expressed in.
func (t *Tree) DisplayLanguage() language.Tag {
	return t.display
}

// Locale returns the locale of id.
func (t *Tree) Locale(id NodeID) (Locale, bool) {
	n, ok := t.node(id)
	if !ok {
		return Locale{}, false
	}
	return n.locale, true
}

// Store returns the store owned by id.
func (t *Tree) Store(id NodeID) (*Store, bool) {
	n, ok := t.node(id)
	if !ok {
		return nil, false
	}
	return n.store, true
}

// DisplayName returns the clear name of id.
func (t *Tree) DisplayName(id NodeID) string {
	n, ok := t.node(id)
	if !ok {
		return ""
	}
	return n.locale.DisplayName(t.display)
}

// Parent returns the parent of id, NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	n, ok := t.node(id)
	if !ok {
		return NoNode
	}
	return n.parent
}

// Children returns a copy of the child list of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n, ok := t.node(id)
	if !ok || len(n.children) == 0 {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// IsMaster reports whether id carries the master flag.
func (t *Tree) IsMaster(id NodeID) bool {
	n, ok := t.node(id)
	return ok && n.master
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(NodeID, int) bool {
		count++
		return true
	})
	return count
}

// Walk visits the tree in pre-order, passing each node and its depth.
// Returning false stops the walk.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if t == nil || fn == nil {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) bool {
	n, ok := t.node(id)
	if !ok {
		return true
	}
	if !fn(id, depth) {
		return false
	}
	for _, child := range n.children {
		if !t.walk(child, depth+1, fn) {
			return false
		}
	}
	return true
}

// Nodes returns every live node in pre-order.
func (t *Tree) Nodes() []NodeID {
	var out []NodeID
	t.Walk(func(id NodeID, _ int) bool {
		out = append(out, id)
		return true
	})
	return out
}

// Insert places locale with its store at the position given by its codes,
// creating missing intermediate nodes. A node with the same codes is
// replaced in place, keeping its children and master flag. A locale without
// language replaces the root. The locale inherits the tree base.
func (t *Tree) Insert(locale Locale, store *Store) NodeID {
	locale.Base = t.Base()
	if store == nil {
		store = NewStore()
	}
	codes := locale.Codes()
	current := t.root
	for depth := range codes {
		want := Locale{Base: locale.Base}
		switch depth {
		case 0:
			want.Language = locale.Language
		case 1:
			want.Language, want.Country = locale.Language, locale.Country
		case 2:
			want = locale
		}
		child := t.childWithCodes(current, want)
		if child == NoNode {
			child = t.alloc(want, nil, current)
		}
		current = child
	}
	n := &t.nodes[current]
	n.locale = locale
	n.store = store
	return current
}

func (t *Tree) childWithCodes(parent NodeID, want Locale) NodeID {
	n, ok := t.node(parent)
	if !ok {
		return NoNode
	}
	for _, child := range n.children {
		if c, ok := t.node(child); ok && c.locale.SameCodes(want) {
			return child
		}
	}
	return NoNode
}

// Find returns the node holding exactly the codes of locale.
func (t *Tree) Find(locale Locale) NodeID {
	found := NoNode
	t.Walk(func(id NodeID, _ int) bool {
		if t.nodes[id].locale.SameCodes(locale) {
			found = id
			return false
		}
		return true
	})
	return found
}

// Contains reports whether a node with the same display name as locale
// exists.
func (t *Tree) Contains(locale Locale) bool {
	name := locale.DisplayName(t.display)
	if locale.Language == "" {
		name = t.Base()
	}
	found := false
	t.Walk(func(id NodeID, _ int) bool {
		if t.DisplayName(id) == name {
			found = true
			return false
		}
		return true
	})
	return found
}

// Remove detaches a non-root leaf. Any other node keeps its place and has
// all keys tombstoned instead.
func (t *Tree) Remove(id NodeID) (RemoveResult, error) {
	n, ok := t.node(id)
	if !ok {
		return KeysCleared, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if id != t.root && len(n.children) == 0 {
		p := &t.nodes[n.parent]
		p.children = removeID(p.children, id)
		n.alive = false
		n.master = false
		n.parent = NoNode
		return Removed, nil
	}
	n.store.RemoveAll()
	return KeysCleared, nil
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

// FindMaster returns the node carrying the master flag, or NoNode.
func (t *Tree) FindMaster() NodeID {
	master := NoNode
	t.Walk(func(id NodeID, _ int) bool {
		if t.nodes[id].master {
			master = id
			return false
		}
		return true
	})
	return master
}

// CanBeMaster reports whether id may take the master role: only the root
// and its direct children qualify.
func (t *Tree) CanBeMaster(id NodeID) bool {
	n, ok := t.node(id)
	if !ok {
		return false
	}
	return id == t.root || n.parent == t.root
}

// SetMaster clears the current master flag and sets it on id. NoNode just
// unsets the old master.
func (t *Tree) SetMaster(id NodeID) error {
	if id != NoNode && !t.Valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if old := t.FindMaster(); old != NoNode {
		t.nodes[old].master = false
	}
	if id != NoNode {
		t.nodes[id].master = true
	}
	return nil
}

// ResolveParent returns the locale id inherits from. The master inherits
// from nothing; the root and the direct children of the root inherit from
// the master (the root, when there is none); deeper nodes inherit from
// their parent.
func (t *Tree) ResolveParent(id NodeID) NodeID {
	n, ok := t.node(id)
	if !ok || n.master {
		return NoNode
	}
	if id == t.root || n.parent == t.root {
		master := t.FindMaster()
		if master == NoNode {
			master = t.root
		}
		if master == id {
			return NoNode
		}
		return master
	}
	return n.parent
}

// SortByDisplayName orders every child list by display name.
func (t *Tree) SortByDisplayName() {
	t.Walk(func(id NodeID, _ int) bool {
		children := t.nodes[id].children
		sort.SliceStable(children, func(i, j int) bool {
			return t.DisplayName(children[i]) < t.DisplayName(children[j])
		})
		return true
	})
}

// AnyModified reports whether any node holds a modified key.
func (t *Tree) AnyModified() bool {
	modified := false
	t.Walk(func(id NodeID, _ int) bool {
		if t.nodes[id].store.AnyModified() {
			modified = true
			return false
		}
		return true
	})
	return modified
}

// Rebase sets a new base on every node.
func (t *Tree) Rebase(base string) {
	for i := range t.nodes {
		t.nodes[i].locale.Base = base
	}
}
