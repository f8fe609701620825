package lokalize

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-lokalize/pkg/activity"
	"golang.org/x/text/cases"
)

// View lists the keys of one selected locale merged with the keys of the
// locale it inherits from, and classifies each key with a KeyStatus.
// Mutations go through the selected locale's store and keep the key list
// sorted. Rows are addressed by index into Keys.
type View struct {
	tree      *Tree
	cfg       viewConfig
	node      NodeID
	parent    NodeID
	keys      []string
	active    int
	evaluator Evaluator
}

// NewView returns a view over tree with no locale selected.
func NewView(tree *Tree, opts ...ViewOption) *View {
	return &View{
		tree:   tree,
		cfg:    applyViewOptions(opts),
		node:   NoNode,
		parent: NoNode,
		active: -1,
	}
}

// Tree returns the tree the view reads from.
func (v *View) Tree() *Tree {
	return v.tree
}

// Select makes id the selected locale and rebuilds the key list from its
// keys and those of its resolved parent.
func (v *View) Select(id NodeID) error {
	if !v.tree.Valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	v.node = id
	v.parent = v.tree.ResolveParent(id)
	v.rebuild()
	v.cfg.logger.Debug("locale selected",
		"locale", v.localeCode(),
		"parent", v.tree.DisplayName(v.parent),
		"keys", len(v.keys),
	)
	return nil
}

// Selected returns the selected node, NoNode before Select.
func (v *View) Selected() NodeID {
	return v.node
}

// Parent returns the node the selected locale inherits from.
func (v *View) Parent() NodeID {
	return v.parent
}

func (v *View) rebuild() {
	set := map[string]struct{}{}
	if store := v.local(); store != nil {
		for _, key := range store.Keys() {
			set[key] = struct{}{}
		}
	}
	if store := v.upstream(); store != nil {
		for _, key := range store.Keys() {
			set[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	SortKeys(keys)
	v.keys = keys
	v.active = -1
}

func (v *View) local() *Store {
	store, _ := v.tree.Store(v.node)
	return store
}

func (v *View) upstream() *Store {
	if v.parent == NoNode {
		return nil
	}
	store, _ := v.tree.Store(v.parent)
	return store
}

func (v *View) localeCode() string {
	locale, ok := v.tree.Locale(v.node)
	if !ok {
		return ""
	}
	if code := locale.Code(); code != "" {
		return code
	}
	return locale.FileName()
}

// Clear drops the selection and the key list.
func (v *View) Clear() {
	v.node = NoNode
	v.parent = NoNode
	v.keys = nil
	v.active = -1
}

// Len returns the number of rows.
func (v *View) Len() int {
	return len(v.keys)
}

// Keys returns a copy of the sorted key list.
func (v *View) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Row returns the index of key, or -1.
func (v *View) Row(key string) int {
	for i, candidate := range v.keys {
		if candidate == key {
			return i
		}
	}
	return -1
}

// Key returns the key shown at row.
func (v *View) Key(row int) (string, bool) {
	if row < 0 || row >= len(v.keys) {
		return "", false
	}
	return v.keys[row], true
}

// ContainsKey reports whether key is listed.
func (v *View) ContainsKey(key string) bool {
	return v.Row(key) >= 0
}

// Status classifies key: present here when the selected store holds it,
// present upstream when there is no parent or the parent holds it.
func (v *View) Status(key string) KeyStatus {
	here, upstream := v.presence(key)
	return DetermineStatus(here, upstream)
}

func (v *View) presence(key string) (here, upstream bool) {
	if store := v.local(); store != nil {
		here = store.ContainsKey(key)
	}
	parent := v.upstream()
	upstream = parent == nil || parent.ContainsKey(key)
	return here, upstream
}

// IsModified reports whether key changed in the selected locale since load.
func (v *View) IsModified(key string) bool {
	store := v.local()
	return store != nil && store.IsModified(key)
}

// Rows returns key, status and modified flag for every row.
func (v *View) Rows() []Row {
	rows := make([]Row, len(v.keys))
	for i, key := range v.keys {
		rows[i] = Row{Key: key, Status: v.Status(key), Modified: v.IsModified(key)}
	}
	return rows
}

// Counts tallies the rows per status. The total equals Len.
func (v *View) Counts() StatusCounts {
	var counts StatusCounts
	for _, key := range v.keys {
		counts.add(v.Status(key))
	}
	return counts
}

// Coverage returns the share of inherited keys translated locally, as a
// percentage of Everywhere over Everywhere plus OnlyInParent. ok is false
// when there is nothing to translate.
func (v *View) Coverage() (percent int, ok bool) {
	counts := v.Counts()
	total := counts.Everywhere + counts.OnlyInParent
	if total == 0 {
		return 0, false
	}
	return 100 * counts.Everywhere / total, true
}

// Active returns the active row, -1 when none.
func (v *View) Active() int {
	return v.active
}

// Entry returns the texts of row along with the inherited defaults and
// makes row active.
func (v *View) Entry(row int) (KeyEntry, bool) {
	key, ok := v.Key(row)
	if !ok {
		return KeyEntry{}, false
	}
	v.active = row
	entry := KeyEntry{Key: key}
	if store := v.local(); store != nil {
		entry.Text, entry.HasText = store.Text(key)
		entry.Comment, entry.HasComment = store.Comment(key)
	}
	if parent := v.upstream(); parent != nil {
		entry.DefaultText, entry.HasDefault = parent.Text(key)
		entry.DefaultComment, _ = parent.Comment(key)
	}
	return entry, true
}

// UpdateActive writes text and comment into the active key. Empty values
// and values equal to the current ones are skipped. It reports whether
// anything was written.
func (v *View) UpdateActive(text, comment string) bool {
	key, ok := v.Key(v.active)
	store := v.local()
	if !ok || store == nil {
		return false
	}
	oldText, _ := store.Text(key)
	oldComment, _ := store.Comment(key)
	input := activity.TranslationEventInput{Key: key}
	changed := false
	if text != "" && text != oldText && store.PutText(key, text) {
		input.OldValue, input.NewValue = oldText, text
		changed = true
	}
	if comment != "" && comment != oldComment && store.PutComment(key, comment) {
		input.Metadata = map[string]any{"comment": comment}
		changed = true
	}
	if changed {
		v.emitKeyEvent(activity.BuildKeyUpdatedEvent, input)
	}
	return changed
}

// SetText writes text for key in the selected locale and lists the key when
// it was not listed yet.
func (v *View) SetText(key, text string) bool {
	store := v.local()
	if store == nil || IsCommentKey(key) || key == "" {
		return false
	}
	oldText, existed := store.Text(key)
	if existed && oldText == text {
		return false
	}
	store.PutText(key, text)
	v.insertSorted(key)
	build := activity.BuildKeyUpdatedEvent
	if !existed {
		build = activity.BuildKeyCreatedEvent
	}
	v.emitKeyEvent(build, activity.TranslationEventInput{Key: key, OldValue: oldText, NewValue: text})
	return true
}

// SetComment writes the comment of key in the selected locale.
func (v *View) SetComment(key, comment string) bool {
	store := v.local()
	if store == nil || !store.ContainsKey(key) {
		return false
	}
	if !store.PutComment(key, comment) {
		return false
	}
	v.emitKeyEvent(activity.BuildKeyUpdatedEvent, activity.TranslationEventInput{
		Key:      key,
		Metadata: map[string]any{"comment": comment},
	})
	return true
}

// InsertKey adds key with an empty text to the selected locale. It fails
// when the locale already holds the key.
func (v *View) InsertKey(key string) bool {
	store := v.local()
	if store == nil || key == "" || IsCommentKey(key) || store.ContainsKey(key) {
		return false
	}
	store.PutText(key, "")
	v.insertSorted(key)
	v.active = -1
	v.emitKeyEvent(activity.BuildKeyCreatedEvent, activity.TranslationEventInput{Key: key})
	return true
}

func (v *View) insertSorted(key string) {
	if v.ContainsKey(key) {
		return
	}
	folded := foldKey(key)
	i := sort.Search(len(v.keys), func(i int) bool {
		return !keyLess(foldKey(v.keys[i]), v.keys[i], folded, key)
	})
	v.keys = append(v.keys, "")
	copy(v.keys[i+1:], v.keys[i:])
	v.keys[i] = key
}

// RenameKey renames oldKey in the selected locale and returns the row of
// newKey, which becomes active. It returns -1 when newKey is already
// listed or the store refuses the rename.
func (v *View) RenameKey(oldKey, newKey string) int {
	store := v.local()
	if store == nil || v.ContainsKey(newKey) {
		return -1
	}
	if !store.Rename(oldKey, newKey) {
		return -1
	}
	v.rebuild()
	v.active = v.Row(newKey)
	v.emitKeyEvent(activity.BuildKeyRenamedEvent, activity.TranslationEventInput{Key: oldKey, NewKey: newKey})
	return v.active
}

// RemoveKey tombstones key in the selected locale. The row stays listed.
// Keys the locale does not hold are rejected.
func (v *View) RemoveKey(key string) bool {
	store := v.local()
	if store == nil || !store.ContainsKey(key) || !store.Remove(key) {
		return false
	}
	v.emitKeyEvent(activity.BuildKeyDeletedEvent, activity.TranslationEventInput{Key: key})
	return true
}

// RestoreKey reverts key to its loaded state. Restoring a modified key
// rebuilds the key list since rows may appear or disappear.
func (v *View) RestoreKey(key string) bool {
	store := v.local()
	if store == nil {
		return false
	}
	modified := store.IsModified(key)
	if !store.Restore(key) {
		return false
	}
	if modified {
		v.rebuild()
		v.emitKeyEvent(activity.BuildKeyRestoredEvent, activity.TranslationEventInput{Key: key})
	}
	return true
}

// NextNotHere returns the first row after row whose key is OnlyInParent,
// wrapping around to the rows before it. row itself is not a candidate. A
// row outside the list scans every row from the first. It returns -1 when
// there is none.
func (v *View) NextNotHere(row int) int {
	n := len(v.keys)
	start, span := row+1, n-1
	if row < 0 || row >= n {
		start, span = 0, n
	}
	for step := 0; step < span; step++ {
		if i := (start + step) % n; v.Status(v.keys[i]) == OnlyInParent {
			return i
		}
	}
	return -1
}

// PrevNotHere is NextNotHere scanning backwards. A row outside the list
// starts at the last row.
func (v *View) PrevNotHere(row int) int {
	n := len(v.keys)
	start, span := row-1, n-1
	if row < 0 || row >= n {
		start, span = n-1, n
	}
	for step := 0; step < span; step++ {
		if i := ((start-step)%n + n) % n; v.Status(v.keys[i]) == OnlyInParent {
			return i
		}
	}
	return -1
}

// SortKeys orders keys case-insensitively using Unicode case folding. Keys
// that fold equally keep a stable byte order.
func SortKeys(keys []string) {
	folded := make(map[string]string, len(keys))
	for _, key := range keys {
		folded[key] = foldKey(key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keyLess(folded[keys[i]], keys[i], folded[keys[j]], keys[j])
	})
}

func foldKey(key string) string {
	return cases.Fold().String(key)
}

func keyLess(foldedA, a, foldedB, b string) bool {
	if foldedA != foldedB {
		return foldedA < foldedB
	}
	return a < b
}
