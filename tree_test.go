package lokalize

import (
	"errors"
	"testing"
)

func mustLocale(t *testing.T, codes ...string) Locale {
	t.Helper()
	l, err := NewLocale("app", codes...)
	if err != nil {
		t.Fatalf("locale %v: %v", codes, err)
	}
	return l
}

func sampleTree(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tree := NewTree("app")
	ids := map[string]NodeID{"": tree.Root()}
	root, _ := tree.Store(tree.Root())
	root.PutText("greeting", "Hello")
	ids["de_AT"] = tree.Insert(mustLocale(t, "de", "AT"), NewStoreFromSnapshot(map[string]string{"greeting": "Servus"}))
	ids["de"] = tree.Find(mustLocale(t, "de"))
	ids["fr"] = tree.Insert(mustLocale(t, "fr"), NewStoreFromSnapshot(map[string]string{"greeting": "Bonjour"}))
	ids["de_AT_x1"] = tree.Insert(mustLocale(t, "de", "AT", "x1"), nil)
	return tree, ids
}

func TestTreeInsertCreatesIntermediateNodes(t *testing.T) {
	tree, ids := sampleTree(t)
	if ids["de"] == NoNode {
		t.Fatalf("expected intermediate de node")
	}
	if tree.Parent(ids["de_AT"]) != ids["de"] || tree.Parent(ids["de"]) != tree.Root() {
		t.Fatalf("unexpected parents")
	}
	if tree.Parent(ids["de_AT_x1"]) != ids["de_AT"] {
		t.Fatalf("expected variant below country")
	}
	if tree.Len() != 5 {
		t.Fatalf("expected 5 nodes, got %d", tree.Len())
	}
	locale, _ := tree.Locale(ids["de"])
	if locale.Base != "app" || locale.Country != "" {
		t.Fatalf("intermediate node should carry base only with its level codes, got %+v", locale)
	}
}

func TestTreeInsertReplacesInPlace(t *testing.T) {
	tree, ids := sampleTree(t)
	if err := tree.SetMaster(ids["de"]); err != nil {
		t.Fatalf("set master: %v", err)
	}
	replaced := tree.Insert(Locale{Base: "other", Language: "de"}, NewStoreFromSnapshot(map[string]string{"k": "v"}))
	if replaced != ids["de"] {
		t.Fatalf("expected same node id, got %d", replaced)
	}
	if len(tree.Children(replaced)) != 1 || !tree.IsMaster(replaced) {
		t.Fatalf("expected children and master flag kept")
	}
	locale, _ := tree.Locale(replaced)
	if locale.Base != "app" {
		t.Fatalf("expected inserted locale to inherit base, got %q", locale.Base)
	}
	store, _ := tree.Store(replaced)
	if !store.ContainsKey("k") {
		t.Fatalf("expected store replaced")
	}

	root := tree.Insert(Locale{}, NewStoreFromSnapshot(map[string]string{"r": "1"}))
	if root != tree.Root() {
		t.Fatalf("locale without language must replace the root")
	}
}

func TestTreeRemove(t *testing.T) {
	tree, ids := sampleTree(t)

	result, err := tree.Remove(ids["de"])
	if err != nil || result != KeysCleared {
		t.Fatalf("expected inner node cleared, got %v %v", result, err)
	}
	if !tree.Valid(ids["de"]) {
		t.Fatalf("inner node must stay")
	}
	result, err = tree.Remove(tree.Root())
	if err != nil || result != KeysCleared {
		t.Fatalf("expected root cleared, got %v %v", result, err)
	}
	result, err = tree.Remove(ids["fr"])
	if err != nil || result != Removed {
		t.Fatalf("expected leaf removed, got %v %v", result, err)
	}
	if tree.Valid(ids["fr"]) || tree.Find(mustLocale(t, "fr")) != NoNode {
		t.Fatalf("removed node must be gone")
	}
	if _, err := tree.Remove(ids["fr"]); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected unknown node, got %v", err)
	}
}

func TestTreeResolveParent(t *testing.T) {
	tree, ids := sampleTree(t)

	if got := tree.ResolveParent(ids["fr"]); got != tree.Root() {
		t.Fatalf("without master direct children inherit from root, got %d", got)
	}
	if got := tree.ResolveParent(tree.Root()); got != NoNode {
		t.Fatalf("root without master has no parent, got %d", got)
	}

	if err := tree.SetMaster(ids["fr"]); err != nil {
		t.Fatalf("set master: %v", err)
	}
	tests := []struct {
		name string
		id   NodeID
		want NodeID
	}{
		{name: "master", id: ids["fr"], want: NoNode},
		{name: "root", id: tree.Root(), want: ids["fr"]},
		{name: "root child", id: ids["de"], want: ids["fr"]},
		{name: "country", id: ids["de_AT"], want: ids["de"]},
		{name: "variant", id: ids["de_AT_x1"], want: ids["de_AT"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.ResolveParent(tt.id); got != tt.want {
				t.Fatalf("ResolveParent = %d, want %d", got, tt.want)
			}
			if got := tree.ResolveParent(tt.id); got == tt.id {
				t.Fatalf("node must never resolve to itself")
			}
		})
	}
}

func TestTreeMasterFlag(t *testing.T) {
	tree, ids := sampleTree(t)
	if tree.CanBeMaster(ids["de_AT"]) {
		t.Fatalf("country level must not be eligible")
	}
	if !tree.CanBeMaster(tree.Root()) || !tree.CanBeMaster(ids["de"]) {
		t.Fatalf("root and its children are eligible")
	}
	_ = tree.SetMaster(ids["de"])
	_ = tree.SetMaster(ids["fr"])
	masters := 0
	for _, id := range tree.Nodes() {
		if tree.IsMaster(id) {
			masters++
		}
	}
	if masters != 1 || tree.FindMaster() != ids["fr"] {
		t.Fatalf("expected exactly one master, got %d", masters)
	}
	_ = tree.SetMaster(NoNode)
	if tree.FindMaster() != NoNode {
		t.Fatalf("expected master unset")
	}
	if err := tree.SetMaster(NodeID(99)); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected unknown node, got %v", err)
	}
}

func TestTreeContainsAndSort(t *testing.T) {
	tree, ids := sampleTree(t)
	if !tree.Contains(mustLocale(t, "de")) || tree.Contains(mustLocale(t, "it")) {
		t.Fatalf("unexpected Contains result")
	}
	tree.SortByDisplayName()
	children := tree.Children(tree.Root())
	if children[0] != ids["fr"] || children[1] != ids["de"] {
		t.Fatalf("expected French before German, got %v", children)
	}
}

func TestTreeWalkAndModified(t *testing.T) {
	tree, ids := sampleTree(t)
	depths := map[NodeID]int{}
	tree.Walk(func(id NodeID, depth int) bool {
		depths[id] = depth
		return true
	})
	if depths[ids["de_AT_x1"]] != 3 || depths[tree.Root()] != 0 {
		t.Fatalf("unexpected depths %v", depths)
	}
	if !tree.AnyModified() {
		t.Fatalf("root holds an unsaved key")
	}
	tree.Rebase("web")
	for _, id := range tree.Nodes() {
		if locale, _ := tree.Locale(id); locale.Base != "web" {
			t.Fatalf("expected rebased node, got %+v", locale)
		}
	}
}
