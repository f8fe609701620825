// Package project ties a locale tree to the resource files of one
// directory: it discovers and loads the locales of a base name, saves them
// back and manages the locale set.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/goliatone/go-lokalize/pkg/activity"
	"github.com/goliatone/go-lokalize/pkg/resource"
	"golang.org/x/text/language"
)

// ErrNotLoaded is returned by operations that need an open project.
var ErrNotLoaded = errors.New("project: no project loaded")

// Project is the locale tree of one resource base name in one directory.
type Project struct {
	dir      string
	base     string
	ext      string
	tree     *lokalize.Tree
	metas    map[lokalize.NodeID]resource.Meta
	store    resource.Store
	logger   *slog.Logger
	activity *activity.Emitter
	display  language.Tag
}

// New returns an empty project.
func New(opts ...Option) *Project {
	p := &Project{
		ext:     resource.DefaultExt,
		store:   resource.NewFileStore(),
		logger:  slog.New(slog.DiscardHandler),
		display: language.English,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.metas = map[lokalize.NodeID]resource.Meta{}
	return p
}

// Loaded reports whether a project is open.
func (p *Project) Loaded() bool {
	return p.tree != nil
}

// Tree returns the locale tree, nil when nothing is loaded.
func (p *Project) Tree() *lokalize.Tree {
	return p.tree
}

// Dir returns the project directory.
func (p *Project) Dir() string { return p.dir }

// Base returns the resource base name.
func (p *Project) Base() string { return p.base }

// Ext returns the resource extension.
func (p *Project) Ext() string { return p.ext }

// Ref returns the resource reference of id.
func (p *Project) Ref(id lokalize.NodeID) (resource.Ref, bool) {
	if p.tree == nil {
		return resource.Ref{}, false
	}
	locale, ok := p.tree.Locale(id)
	if !ok {
		return resource.Ref{}, false
	}
	return resource.NewRef(p.dir, locale, p.ext), true
}

// Meta returns the storage metadata recorded for id by the last load or
// save.
func (p *Project) Meta(id lokalize.NodeID) (resource.Meta, bool) {
	meta, ok := p.metas[id]
	return meta, ok
}

// Open loads every locale of the base name of path from its directory. The
// base is the file name up to the first '_' or the extension. Files with
// invalid locale codes are skipped. Any load failure resets the project.
func (p *Project) Open(ctx context.Context, path string) error {
	dir, base, ext := resource.SplitFileName(path)
	p.Reset()

	refs, errs := p.store.List(ctx, dir, base, ext)
	for _, err := range errs {
		if errors.Is(err, lokalize.ErrInvalidLocaleCode) {
			p.logger.Warn("skipping resource", "dir", dir, "error", err)
			continue
		}
		return fmt.Errorf("project: open %s: %w", path, err)
	}
	if len(refs) == 0 {
		return lokalize.NewResourceError("open", path, errors.New("no resources found"))
	}

	tree := lokalize.NewTree(base, lokalize.WithDisplayLanguage(p.display))
	metas := map[lokalize.NodeID]resource.Meta{}
	for _, ref := range refs {
		snapshot, meta, ok, err := p.store.Load(ctx, ref)
		if err != nil {
			p.logger.Error("loading resource failed", "path", ref.Path(), "error", err)
			return fmt.Errorf("project: open %s: %w", path, err)
		}
		if !ok {
			continue
		}
		id := tree.Insert(ref.Locale, lokalize.NewStoreFromSnapshot(snapshot))
		metas[id] = meta
		p.logger.Debug("locale loaded", "locale", ref.Locale.FileName(), "keys", len(snapshot))
	}
	tree.SortByDisplayName()
	if err := tree.SetMaster(tree.Root()); err != nil {
		return err
	}

	p.dir, p.base, p.ext = dir, base, ext
	p.tree = tree
	p.metas = metas
	p.logger.Info("project opened", "dir", dir, "base", base, "locales", tree.Len())
	return nil
}

// CreateNew starts an empty project whose root locale is base.
func (p *Project) CreateNew(dir, base string) error {
	if base == "" {
		return fmt.Errorf("project: base name is required")
	}
	p.Reset()
	p.dir, p.base = dir, base
	p.tree = lokalize.NewTree(base, lokalize.WithDisplayLanguage(p.display))
	if err := p.tree.SetMaster(p.tree.Root()); err != nil {
		return err
	}
	p.emitLocale(activity.BuildLocaleCreatedEvent, p.tree.Root(), nil)
	return nil
}

// Rebase moves the project to the directory, base and extension of path.
// Files are written there on the next Save.
func (p *Project) Rebase(path string) error {
	if p.tree == nil {
		return ErrNotLoaded
	}
	dir, base, ext := resource.SplitFileName(path)
	p.dir, p.base, p.ext = dir, base, ext
	p.tree.Rebase(base)
	p.metas = map[lokalize.NodeID]resource.Meta{}
	p.logger.Info("project rebased", "dir", dir, "base", base, "ext", ext)
	return nil
}

// Reset drops the loaded project.
func (p *Project) Reset() {
	p.dir, p.base = "", ""
	p.tree = nil
	p.metas = map[lokalize.NodeID]resource.Meta{}
}

// Save commits every locale to its file. Failures are joined; locales that
// failed keep their in-memory changes.
func (p *Project) Save(ctx context.Context) error {
	if p.tree == nil {
		return ErrNotLoaded
	}
	var errs []error
	for _, id := range p.tree.Nodes() {
		ref, _ := p.Ref(id)
		store, _ := p.tree.Store(id)
		writer := &resource.Writer{Store: p.store, Ref: ref, Meta: p.metas[id]}
		if err := store.Commit(ctx, writer); err != nil {
			p.logger.Error("saving locale failed", "path", ref.Path(), "error", err)
			errs = append(errs, err)
			continue
		}
		p.metas[id] = writer.Meta
		p.emitLocale(activity.BuildLocaleSavedEvent, id, func(in *activity.TranslationEventInput) {
			in.Path = ref.Path()
			in.SnapshotID = writer.Meta.SnapshotID
		})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.logger.Info("project saved", "dir", p.dir, "locales", p.tree.Len())
	return nil
}

// AddLocale creates an empty locale for codes (language[, country[,
// variant]]). The language must be a two letter lowercase code. A locale
// with the same display name is only replaced when overwrite is set.
func (p *Project) AddLocale(codes []string, overwrite bool) (lokalize.NodeID, error) {
	if p.tree == nil {
		return lokalize.NoNode, ErrNotLoaded
	}
	if len(codes) == 0 || len(codes[0]) != 2 {
		return lokalize.NoNode, fmt.Errorf("%w: language must have two letters", lokalize.ErrInvalidLocaleCode)
	}
	locale, err := lokalize.NewLocale(p.base, codes...)
	if err != nil {
		return lokalize.NoNode, err
	}
	if p.tree.Contains(locale) && !overwrite {
		return lokalize.NoNode, fmt.Errorf("%w: %s", lokalize.ErrLocaleExists, locale.DisplayName(p.display))
	}
	id := p.tree.Insert(locale, lokalize.NewStore())
	delete(p.metas, id)
	p.tree.SortByDisplayName()
	p.emitLocale(activity.BuildLocaleCreatedEvent, id, nil)
	return id, nil
}

// RemoveLocale detaches a leaf locale or clears the keys of any other. The
// resource file is left on disk.
func (p *Project) RemoveLocale(id lokalize.NodeID) (lokalize.RemoveResult, error) {
	if p.tree == nil {
		return lokalize.KeysCleared, ErrNotLoaded
	}
	locale, _ := p.tree.Locale(id)
	result, err := p.tree.Remove(id)
	if err != nil {
		return result, err
	}
	if result == lokalize.Removed {
		delete(p.metas, id)
	}
	p.emitLocaleFor(activity.BuildLocaleRemovedEvent, locale, func(in *activity.TranslationEventInput) {
		in.Metadata = map[string]any{"result": result.String()}
	})
	return result, nil
}

// SetMaster moves the master flag to id. Only the root and its direct
// children are eligible.
func (p *Project) SetMaster(id lokalize.NodeID) error {
	if p.tree == nil {
		return ErrNotLoaded
	}
	if !p.tree.CanBeMaster(id) {
		return fmt.Errorf("%w: %s", lokalize.ErrNotEligible, p.tree.DisplayName(id))
	}
	return p.tree.SetMaster(id)
}

// NewView returns a key view over the project tree sharing the project
// logger and activity emitter. Extra options are applied last.
func (p *Project) NewView(opts ...lokalize.ViewOption) *lokalize.View {
	base := []lokalize.ViewOption{
		lokalize.WithLogger(p.logger),
		lokalize.WithActivityEmitter(p.activity),
	}
	return lokalize.NewView(p.tree, append(base, opts...)...)
}

func (p *Project) emitLocale(build func(activity.TranslationEventInput) activity.Event, id lokalize.NodeID, fill func(*activity.TranslationEventInput)) {
	locale, _ := p.tree.Locale(id)
	p.emitLocaleFor(build, locale, fill)
}

func (p *Project) emitLocaleFor(build func(activity.TranslationEventInput) activity.Event, locale lokalize.Locale, fill func(*activity.TranslationEventInput)) {
	if !p.activity.Enabled() {
		return
	}
	input := activity.TranslationEventInput{Locale: locale.Code()}
	if input.Locale == "" {
		input.Locale = locale.FileName()
	}
	if fill != nil {
		fill(&input)
	}
	if err := p.activity.Emit(context.Background(), build(input)); err != nil {
		p.logger.Warn("activity hook failed", "locale", input.Locale, "error", err)
	}
}
