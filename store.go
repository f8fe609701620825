package lokalize

import (
	"context"
	"sort"
	"strings"
)

// CommentSuffix marks the key holding the comment of a regular key. Regular
// keys never end with it.
const CommentSuffix = ".comment"

// IsCommentKey reports whether key addresses a comment rather than a text.
func IsCommentKey(key string) bool {
	return strings.HasSuffix(key, CommentSuffix)
}

// CommentKey returns the key under which the comment of key is stored.
func CommentKey(key string) string {
	return key + CommentSuffix
}

// Entry is one override slot: either a present text or an explicit
// tombstone.
type Entry struct {
	Text    string
	Deleted bool
}

// Present wraps text as a live entry.
func Present(text string) Entry {
	return Entry{Text: text}
}

// Tombstone marks an entry as explicitly removed.
func Tombstone() Entry {
	return Entry{Deleted: true}
}

// SnapshotWriter persists the effective key/value state of a store.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, snapshot map[string]string) error
}

// SnapshotWriterFunc adapts a function to SnapshotWriter.
type SnapshotWriterFunc func(ctx context.Context, snapshot map[string]string) error

// WriteSnapshot implements SnapshotWriter.
func (f SnapshotWriterFunc) WriteSnapshot(ctx context.Context, snapshot map[string]string) error {
	if f == nil {
		return nil
	}
	return f(ctx, snapshot)
}

// Store is an overridable key/value map for one locale. It tracks changes
// against the snapshot it was loaded from and keeps comments in sibling
// keys ending with CommentSuffix.
type Store struct {
	overrides map[string]Entry
	original  map[string]string
}

// NewStore returns an empty store, used for locales created from scratch.
func NewStore() *Store {
	return &Store{
		overrides: map[string]Entry{},
		original:  map[string]string{},
	}
}

// NewStoreFromSnapshot returns a store whose original state is a copy of
// snapshot.
func NewStoreFromSnapshot(snapshot map[string]string) *Store {
	s := &Store{original: copyStrings(snapshot)}
	s.resetOverrides()
	return s
}

func (s *Store) resetOverrides() {
	s.overrides = make(map[string]Entry, len(s.original))
	for key, text := range s.original {
		s.overrides[key] = Present(text)
	}
}

// ContainsKey reports whether key is a regular key with a live value.
func (s *Store) ContainsKey(key string) bool {
	if IsCommentKey(key) {
		return false
	}
	entry, ok := s.overrides[key]
	return ok && !entry.Deleted
}

// Text returns the current text of key.
func (s *Store) Text(key string) (string, bool) {
	if IsCommentKey(key) {
		return "", false
	}
	return s.lookup(key)
}

// Comment returns the current comment attached to key.
func (s *Store) Comment(key string) (string, bool) {
	if IsCommentKey(key) {
		return "", false
	}
	return s.lookup(CommentKey(key))
}

func (s *Store) lookup(key string) (string, bool) {
	entry, ok := s.overrides[key]
	if !ok || entry.Deleted {
		return "", false
	}
	return entry.Text, true
}

// PutText sets the text of key. Comment keys are rejected.
func (s *Store) PutText(key, text string) bool {
	if IsCommentKey(key) {
		return false
	}
	s.overrides[key] = Present(text)
	return true
}

// PutComment sets the comment of key. Comment keys are rejected.
func (s *Store) PutComment(key, comment string) bool {
	if IsCommentKey(key) {
		return false
	}
	s.overrides[CommentKey(key)] = Present(comment)
	return true
}

// Remove tombstones key and its comment.
func (s *Store) Remove(key string) bool {
	if IsCommentKey(key) {
		return false
	}
	s.overrides[key] = Tombstone()
	s.overrides[CommentKey(key)] = Tombstone()
	return true
}

// Rename moves text and comment from oldKey to newKey and tombstones oldKey.
// It fails when either key is a comment key, oldKey has no live value or
// newKey already holds one.
func (s *Store) Rename(oldKey, newKey string) bool {
	if IsCommentKey(oldKey) || IsCommentKey(newKey) || oldKey == newKey {
		return false
	}
	if !s.ContainsKey(oldKey) || s.ContainsKey(newKey) {
		return false
	}
	text, _ := s.Text(oldKey)
	s.PutText(newKey, text)
	if comment, ok := s.Comment(oldKey); ok {
		s.PutComment(newKey, comment)
	} else {
		delete(s.overrides, CommentKey(newKey))
	}
	s.Remove(oldKey)
	return true
}

// IsModified reports whether key differs from the loaded snapshot.
func (s *Store) IsModified(key string) bool {
	if IsCommentKey(key) {
		return false
	}
	entry, ok := s.overrides[key]
	if !ok {
		return false
	}
	originalText, inOriginal := s.original[key]
	if !inOriginal {
		return true
	}
	if entry.Deleted {
		return true
	}
	if entry.Text != originalText {
		return true
	}
	originalComment, hadComment := s.original[CommentKey(key)]
	comment, hasComment := s.lookup(CommentKey(key))
	if hadComment != hasComment {
		return true
	}
	return hasComment && comment != originalComment
}

// Restore reverts key and its comment to the loaded snapshot. Keys absent
// from the snapshot disappear entirely.
func (s *Store) Restore(key string) bool {
	if IsCommentKey(key) {
		return false
	}
	delete(s.overrides, key)
	delete(s.overrides, CommentKey(key))
	if text, ok := s.original[key]; ok {
		s.overrides[key] = Present(text)
		if comment, ok := s.original[CommentKey(key)]; ok {
			s.overrides[CommentKey(key)] = Present(comment)
		}
	}
	return true
}

// RemoveAll tombstones every entry.
func (s *Store) RemoveAll() {
	for key := range s.overrides {
		s.overrides[key] = Tombstone()
	}
}

// Keys returns every regular key with an override entry, tombstones
// included, in lexical order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.overrides))
	for key := range s.overrides {
		if IsCommentKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of regular keys with a live value.
func (s *Store) Len() int {
	n := 0
	for key, entry := range s.overrides {
		if !entry.Deleted && !IsCommentKey(key) {
			n++
		}
	}
	return n
}

// AnyModified reports whether at least one key differs from the snapshot.
func (s *Store) AnyModified() bool {
	for _, key := range s.Keys() {
		if s.IsModified(key) {
			return true
		}
	}
	return false
}

// Snapshot returns the effective state with tombstones dropped.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.overrides))
	for key, entry := range s.overrides {
		if entry.Deleted {
			continue
		}
		out[key] = entry.Text
	}
	return out
}

// Original returns a copy of the snapshot the store was loaded from.
func (s *Store) Original() map[string]string {
	return copyStrings(s.original)
}

// Commit persists the effective state through w and, once that succeeded,
// makes it the new original. A failed write leaves the store untouched.
func (s *Store) Commit(ctx context.Context, w SnapshotWriter) error {
	snapshot := s.Snapshot()
	if w != nil {
		if err := w.WriteSnapshot(ctx, copyStrings(snapshot)); err != nil {
			return err
		}
	}
	s.original = snapshot
	s.resetOverrides()
	return nil
}

func copyStrings(origin map[string]string) map[string]string {
	out := make(map[string]string, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
