package resource

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/magiconair/properties"
)

// FileStore keeps snapshots in UTF-8 .properties files. Values are read
// verbatim: ${...} references are not expanded.
type FileStore struct {
	logger *slog.Logger
	perm   fs.FileMode
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileLogger sets the logger used for load and save diagnostics.
func WithFileLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileMode sets the permissions of newly written files.
func WithFileMode(perm fs.FileMode) FileStoreOption {
	return func(s *FileStore) {
		s.perm = perm
	}
}

// NewFileStore returns a FileStore.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		logger: slog.New(slog.DiscardHandler),
		perm:   0o644,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load implements Store. A missing file reports ok=false without error.
func (s *FileStore) Load(ctx context.Context, ref Ref) (map[string]string, Meta, bool, error) {
	path := ref.Path()
	if err := ctx.Err(); err != nil {
		return nil, Meta{}, false, lokalize.NewResourceError("load", path, err)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Meta{}, false, nil
	}
	if err != nil {
		return nil, Meta{}, false, lokalize.NewResourceError("load", path, err)
	}
	snapshot, err := readProperties(path)
	if err != nil {
		return nil, Meta{}, false, lokalize.NewResourceError("load", path, err)
	}
	id := SnapshotID(snapshot)
	s.logger.Debug("resource loaded", "path", path, "keys", len(snapshot), "snapshot_id", id)
	return snapshot, Meta{SnapshotID: id, ETag: id, UpdatedAt: info.ModTime()}, true, nil
}

func readProperties(path string) (map[string]string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(buf)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

// Save implements Store. The file is written to a temporary sibling and
// renamed into place.
func (s *FileStore) Save(ctx context.Context, ref Ref, snapshot map[string]string, meta Meta) (Meta, error) {
	path := ref.Path()
	if err := ctx.Err(); err != nil {
		return Meta{}, lokalize.NewResourceError("save", path, err)
	}
	if meta.ETag != "" {
		current, err := readProperties(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Meta{}, lokalize.NewResourceError("save", path, err)
		case SnapshotID(current) != meta.ETag:
			return Meta{}, lokalize.NewResourceError("save", path, ErrETagMismatch)
		}
	}

	payload, err := encodeProperties(snapshot)
	if err != nil {
		return Meta{}, lokalize.NewResourceError("save", path, err)
	}
	if err := s.writeAtomic(path, payload); err != nil {
		return Meta{}, lokalize.NewResourceError("save", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Meta{}, lokalize.NewResourceError("save", path, err)
	}

	id := SnapshotID(snapshot)
	saved := cloneMeta(meta)
	saved.SnapshotID = id
	saved.ETag = id
	saved.UpdatedAt = info.ModTime()
	s.logger.Debug("resource saved", "path", path, "keys", len(snapshot), "snapshot_id", id)
	return saved, nil
}

func encodeProperties(snapshot map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, key := range keys {
		if _, _, err := p.Set(key, snapshot[key]); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *FileStore) writeAtomic(path string, payload []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Exists implements Store.
func (s *FileStore) Exists(_ context.Context, ref Ref) (bool, error) {
	_, err := os.Stat(ref.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, lokalize.NewResourceError("stat", ref.Path(), err)
	}
	return true, nil
}

// List implements Store. It returns the resources of base in dir sorted by
// file name, and one error per file whose name carries invalid codes.
func (s *FileStore) List(_ context.Context, dir, base, ext string) ([]Ref, []error) {
	ext = normalizeExt(ext)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{lokalize.NewResourceError("list", dir, err)}
	}
	var (
		refs []Ref
		errs []error
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base) || !strings.HasSuffix(name, ext) {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimPrefix(name, base), ext)
		if stem != "" && !strings.HasPrefix(stem, "_") {
			continue
		}
		locale, err := ParseFileName(name, base, ext)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, Ref{Dir: dir, Locale: locale, Ext: ext})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].FileName() < refs[j].FileName() })
	return refs, errs
}
