package project

import (
	"context"
	"errors"
	"testing"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/goliatone/go-lokalize/pkg/activity"
	"github.com/goliatone/go-lokalize/pkg/resource"
)

func seed(t *testing.T, store *resource.MemoryStore, base string, files map[string]map[string]string) {
	t.Helper()
	for code, snapshot := range files {
		codes, err := lokalize.ParseLocaleCode(code)
		if err != nil {
			t.Fatalf("parse %q: %v", code, err)
		}
		locale, err := lokalize.NewLocale(base, codes...)
		if err != nil {
			t.Fatalf("locale %q: %v", code, err)
		}
		store.Put(resource.NewRef("res", locale, ""), snapshot)
	}
}

func openProject(t *testing.T, opts ...Option) (*Project, *resource.MemoryStore) {
	t.Helper()
	store := resource.NewMemoryStore()
	seed(t, store, "app", map[string]map[string]string{
		"":      {"greeting": "Hello", "farewell": "Bye"},
		"de":    {"greeting": "Hallo"},
		"de_AT": {"greeting": "Servus"},
		"fr":    {},
	})
	p := New(append([]Option{WithStore(store)}, opts...)...)
	if err := p.Open(context.Background(), "res/app_de.properties"); err != nil {
		t.Fatalf("open: %v", err)
	}
	return p, store
}

func TestOpenBuildsSortedTreeWithRootMaster(t *testing.T) {
	p, _ := openProject(t)
	tree := p.Tree()

	if p.Base() != "app" || p.Dir() != "res" || p.Ext() != ".properties" {
		t.Fatalf("unexpected project identity %q %q %q", p.Base(), p.Dir(), p.Ext())
	}
	if tree.Len() != 4 {
		t.Fatalf("expected 4 locales, got %d", tree.Len())
	}
	if tree.FindMaster() != tree.Root() {
		t.Fatalf("expected root to be master")
	}
	children := tree.Children(tree.Root())
	if len(children) != 2 || tree.DisplayName(children[0]) != "French" || tree.DisplayName(children[1]) != "German" {
		names := []string{}
		for _, c := range children {
			names = append(names, tree.DisplayName(c))
		}
		t.Fatalf("expected children sorted by display name, got %v", names)
	}
	at := tree.Find(lokalize.Locale{Language: "de", Country: "AT"})
	if text, _ := tree.Resolve(at, "farewell"); text != "Bye" {
		t.Fatalf("expected farewell inherited from root, got %q", text)
	}
}

func TestOpenFailureResetsProject(t *testing.T) {
	store := resource.NewMemoryStore()
	seed(t, store, "app", map[string]map[string]string{"": {"a": "1"}, "de": {"a": "2"}})
	store.FailOn(resource.NewRef("res", lokalize.Locale{Base: "app", Language: "de"}, ""), errors.New("unreadable"))

	p := New(WithStore(store))
	err := p.Open(context.Background(), "res/app.properties")
	if !errors.Is(err, lokalize.ErrResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
	if p.Loaded() || p.Tree() != nil {
		t.Fatalf("expected project reset after failed open")
	}
}

func TestOpenWithoutResources(t *testing.T) {
	p := New(WithStore(resource.NewMemoryStore()))
	if err := p.Open(context.Background(), "res/app.properties"); !errors.Is(err, lokalize.ErrResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
}

func TestSaveCommitsEveryLocaleAndEmits(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	p, store := openProject(t, WithActivity(emitter))
	tree := p.Tree()
	de := tree.Find(lokalize.Locale{Language: "de"})
	deStore, _ := tree.Store(de)
	deStore.PutText("farewell", "Tschüss")

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tree.AnyModified() {
		t.Fatalf("expected no modifications after save")
	}
	ref, _ := p.Ref(de)
	snapshot, _, ok, err := store.Load(context.Background(), ref)
	if err != nil || !ok {
		t.Fatalf("load saved: ok=%v err=%v", ok, err)
	}
	if snapshot["farewell"] != "Tschüss" {
		t.Fatalf("expected saved farewell, got %v", snapshot)
	}
	meta, _ := p.Meta(de)
	if meta.SnapshotID != resource.SnapshotID(snapshot) {
		t.Fatalf("expected meta to follow save, got %+v", meta)
	}
	if len(capture.Events) != 4 || capture.Events[0].Verb != activity.VerbLocaleSaved {
		t.Fatalf("expected one saved event per locale, got %v", capture.Verbs())
	}
}

func TestSaveFailureKeepsChanges(t *testing.T) {
	p, store := openProject(t)
	tree := p.Tree()
	fr := tree.Find(lokalize.Locale{Language: "fr"})
	frStore, _ := tree.Store(fr)
	frStore.PutText("greeting", "Bonjour")
	ref, _ := p.Ref(fr)
	store.FailOn(ref, errors.New("read-only"))

	err := p.Save(context.Background())
	if !errors.Is(err, lokalize.ErrResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
	if !frStore.IsModified("greeting") {
		t.Fatalf("expected failed locale to keep its changes")
	}
	root, _ := tree.Store(tree.Root())
	if root.AnyModified() {
		t.Fatalf("expected other locales saved")
	}
}

func TestAddLocale(t *testing.T) {
	p, _ := openProject(t)

	if _, err := p.AddLocale([]string{"deu"}, false); !errors.Is(err, lokalize.ErrInvalidLocaleCode) {
		t.Fatalf("expected invalid code for three letter language, got %v", err)
	}
	if _, err := p.AddLocale([]string{"de"}, false); !errors.Is(err, lokalize.ErrLocaleExists) {
		t.Fatalf("expected locale exists, got %v", err)
	}
	id, err := p.AddLocale([]string{"de"}, true)
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	store, _ := p.Tree().Store(id)
	if store.Len() != 0 {
		t.Fatalf("expected overwritten locale to be empty")
	}
	if len(p.Tree().Children(id)) != 1 {
		t.Fatalf("expected overwritten locale to keep its children")
	}

	it, err := p.AddLocale([]string{"it", "CH"}, false)
	if err != nil {
		t.Fatalf("add it_CH: %v", err)
	}
	if p.Tree().Parent(it) == p.Tree().Root() {
		t.Fatalf("expected intermediate italian locale")
	}
}

func TestRemoveLocaleAndSetMaster(t *testing.T) {
	p, _ := openProject(t)
	tree := p.Tree()
	de := tree.Find(lokalize.Locale{Language: "de"})
	at := tree.Find(lokalize.Locale{Language: "de", Country: "AT"})

	if err := p.SetMaster(at); !errors.Is(err, lokalize.ErrNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
	if err := p.SetMaster(de); err != nil {
		t.Fatalf("set master: %v", err)
	}
	if tree.ResolveParent(tree.Root()) != de {
		t.Fatalf("expected root to inherit from the new master")
	}

	result, err := p.RemoveLocale(de)
	if err != nil || result != lokalize.KeysCleared {
		t.Fatalf("expected keys cleared for inner node, got %v %v", result, err)
	}
	result, err = p.RemoveLocale(at)
	if err != nil || result != lokalize.Removed {
		t.Fatalf("expected leaf removed, got %v %v", result, err)
	}
	if tree.Valid(at) {
		t.Fatalf("expected removed node to be invalid")
	}
}

func TestCreateNewAndRebase(t *testing.T) {
	store := resource.NewMemoryStore()
	p := New(WithStore(store))
	if err := p.CreateNew("out", "strings"); err != nil {
		t.Fatalf("create: %v", err)
	}
	root, _ := p.Tree().Store(p.Tree().Root())
	root.PutText("title", "Editor")
	if err := p.Rebase("elsewhere/texts.props"); err != nil {
		t.Fatalf("rebase: %v", err)
	}
	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, _ := store.Exists(context.Background(), resource.NewRef("elsewhere", lokalize.Locale{Base: "texts"}, ".props"))
	if !ok {
		t.Fatalf("expected rebased resource to be written")
	}
	p.Reset()
	if _, err := p.AddLocale([]string{"de"}, false); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected not loaded after reset, got %v", err)
	}
}

func TestNewViewSharesEmitter(t *testing.T) {
	capture := &activity.CaptureHook{}
	p, _ := openProject(t, WithActivity(activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})))
	view := p.NewView()
	fr := p.Tree().Find(lokalize.Locale{Language: "fr"})
	if err := view.Select(fr); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !view.InsertKey("title") {
		t.Fatalf("expected insert to succeed")
	}
	if len(capture.Events) != 1 || capture.Events[0].Verb != activity.VerbKeyCreated {
		t.Fatalf("expected key created event, got %v", capture.Verbs())
	}
	if capture.Events[0].ObjectID != "fr:title" {
		t.Fatalf("unexpected object id %q", capture.Events[0].ObjectID)
	}
}
