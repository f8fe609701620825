package resource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/google/uuid"
)

// DefaultExt is the extension used when a Ref carries none.
const DefaultExt = ".properties"

// ErrETagMismatch is returned by Save when the stored snapshot changed since
// the caller loaded it.
var ErrETagMismatch = errors.New("resource: etag mismatch")

// Ref identifies one resource file.
type Ref struct {
	Dir    string
	Locale lokalize.Locale
	Ext    string
}

// Meta is storage-owned metadata used for audit and conflict detection.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot per Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot map[string]string, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot map[string]string, meta Meta) (Meta, error)
	Exists(ctx context.Context, ref Ref) (bool, error)
	List(ctx context.Context, dir, base, ext string) ([]Ref, []error)
}

// NewRef returns a Ref with the extension normalized to start with a dot.
func NewRef(dir string, locale lokalize.Locale, ext string) Ref {
	return Ref{Dir: dir, Locale: locale, Ext: normalizeExt(ext)}
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// FileName returns base[_codes] plus the extension.
func (r Ref) FileName() string {
	return r.Locale.FileName() + normalizeExt(r.Ext)
}

// Path joins the directory and the file name.
func (r Ref) Path() string {
	return filepath.Join(r.Dir, r.FileName())
}

// Identifier is the storage key of the ref, stable across platforms.
func (r Ref) Identifier() string {
	return filepath.ToSlash(r.Path())
}

// ParseFileName extracts the locale from name, which must be base, an
// optional _language[_country[_variant]] suffix and ext. Malformed codes
// yield an error wrapping lokalize.ErrInvalidLocaleCode.
func ParseFileName(name, base, ext string) (lokalize.Locale, error) {
	ext = normalizeExt(ext)
	if base == "" || !strings.HasPrefix(name, base) || !strings.HasSuffix(name, ext) || len(name) < len(base)+len(ext) {
		return lokalize.Locale{}, fmt.Errorf("%w: %q is not a %s%s resource", lokalize.ErrInvalidLocaleCode, name, base, ext)
	}
	middle := name[len(base) : len(name)-len(ext)]
	if middle == "" {
		return lokalize.Locale{Base: base}, nil
	}
	if !strings.HasPrefix(middle, "_") {
		return lokalize.Locale{}, fmt.Errorf("%w: %q does not separate codes with '_'", lokalize.ErrInvalidLocaleCode, name)
	}
	return lokalize.NewLocale(base, strings.Split(middle[1:], "_")...)
}

// SplitFileName derives directory, base and extension from the path of a
// resource: the base is the name up to the first '_' or the last '.'.
func SplitFileName(path string) (dir, base, ext string) {
	dir = filepath.Dir(path)
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	base = stem
	if i := strings.Index(stem, "_"); i >= 0 {
		base = stem[:i]
	}
	return dir, base, normalizeExt(ext)
}

var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-lokalize/snapshot"))

// SnapshotID returns a content derived id: equal snapshots share an id.
func SnapshotID(snapshot map[string]string) string {
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(snapshot[key])
		b.WriteByte('\n')
	}
	return uuid.NewSHA1(snapshotNamespace, []byte(b.String())).String()
}

// Writer adapts a Store and a Ref to lokalize.SnapshotWriter, so a
// lokalize.Store can commit into it. Meta holds the metadata of the last
// successful save.
type Writer struct {
	Store Store
	Ref   Ref
	Meta  Meta
}

// WriteSnapshot implements lokalize.SnapshotWriter.
func (w *Writer) WriteSnapshot(ctx context.Context, snapshot map[string]string) error {
	if w.Store == nil {
		return lokalize.NewResourceError("save", w.Ref.Path(), errors.New("store is required"))
	}
	meta, err := w.Store.Save(ctx, w.Ref, snapshot, w.Meta)
	if err != nil {
		return err
	}
	w.Meta = meta
	return nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func cloneSnapshot(snapshot map[string]string) map[string]string {
	out := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}
