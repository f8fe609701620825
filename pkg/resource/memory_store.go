package resource

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lokalize "github.com/goliatone/go-lokalize"
)

// MemoryStore is an in-memory Store intended for tests and examples. It
// keys records by Ref.Identifier.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
	fail    map[string]error
}

type memoryRecord struct {
	ref      Ref
	snapshot map[string]string
	meta     Meta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[string]memoryRecord{},
		now:     time.Now,
		fail:    map[string]error{},
	}
}

// Put seeds a snapshot without going through Save.
func (s *MemoryStore) Put(ref Ref, snapshot map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := SnapshotID(snapshot)
	s.records[ref.Identifier()] = memoryRecord{
		ref:      ref,
		snapshot: cloneSnapshot(snapshot),
		meta:     Meta{SnapshotID: id, ETag: id, UpdatedAt: s.now()},
	}
}

// FailOn makes every Load and Save of ref fail with err. A nil err clears
// the failure.
func (s *MemoryStore) FailOn(ref Ref, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, ref.Identifier())
		return
	}
	s.fail[ref.Identifier()] = err
}

func (s *MemoryStore) failure(op string, ref Ref) error {
	if err, ok := s.fail[ref.Identifier()]; ok {
		return lokalize.NewResourceError(op, ref.Path(), err)
	}
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, ref Ref) (map[string]string, Meta, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("load", ref); err != nil {
		return nil, Meta{}, false, err
	}
	record, ok := s.records[ref.Identifier()]
	if !ok {
		return nil, Meta{}, false, nil
	}
	return cloneSnapshot(record.snapshot), cloneMeta(record.meta), true, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, ref Ref, snapshot map[string]string, meta Meta) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("save", ref); err != nil {
		return Meta{}, err
	}
	key := ref.Identifier()
	if current, ok := s.records[key]; ok && meta.ETag != "" && meta.ETag != current.meta.ETag {
		return Meta{}, lokalize.NewResourceError("save", ref.Path(), ErrETagMismatch)
	}
	id := SnapshotID(snapshot)
	saved := cloneMeta(meta)
	saved.SnapshotID = id
	saved.ETag = id
	saved.UpdatedAt = s.now()
	s.records[key] = memoryRecord{ref: ref, snapshot: cloneSnapshot(snapshot), meta: saved}
	return cloneMeta(saved), nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(_ context.Context, ref Ref) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[ref.Identifier()]
	return ok, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, dir, base, ext string) ([]Ref, []error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []Ref
	for _, record := range s.records {
		if filepath.Clean(record.ref.Dir) != filepath.Clean(dir) || record.ref.Locale.Base != base {
			continue
		}
		if normalizeExt(record.ref.Ext) != normalizeExt(ext) {
			continue
		}
		refs = append(refs, record.ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].FileName() < refs[j].FileName() })
	return refs, nil
}
