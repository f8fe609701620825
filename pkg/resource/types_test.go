package resource_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/goliatone/go-lokalize/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    lokalize.Locale
		wantErr bool
	}{
		{name: "base", file: "app.properties", want: lokalize.Locale{Base: "app"}},
		{name: "language", file: "app_de.properties", want: lokalize.Locale{Base: "app", Language: "de"}},
		{name: "country", file: "app_de_CH.properties", want: lokalize.Locale{Base: "app", Language: "de", Country: "CH"}},
		{name: "variant", file: "app_de_CH_zh.properties", want: lokalize.Locale{Base: "app", Language: "de", Country: "CH", Variant: "zh"}},
		{name: "bad country", file: "app_de_ch.properties", wantErr: true},
		{name: "wrong base", file: "web_de.properties", wantErr: true},
		{name: "no separator", file: "apple.properties", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resource.ParseFileName(tt.file, "app", ".properties")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, lokalize.ErrInvalidLocaleCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitFileName(t *testing.T) {
	dir, base, ext := resource.SplitFileName(filepath.Join("res", "messages_de_AT.properties"))
	assert.Equal(t, "res", dir)
	assert.Equal(t, "messages", base)
	assert.Equal(t, ".properties", ext)

	_, base, ext = resource.SplitFileName("strings.txt")
	assert.Equal(t, "strings", base)
	assert.Equal(t, ".txt", ext)
}

func TestRefFileName(t *testing.T) {
	ref := resource.NewRef("res", lokalize.Locale{Base: "app", Language: "pt", Country: "BR"}, "props")
	assert.Equal(t, "app_pt_BR.props", ref.FileName())
	assert.Equal(t, filepath.Join("res", "app_pt_BR.props"), ref.Path())
}

func TestSnapshotIDIsContentDerived(t *testing.T) {
	a := resource.SnapshotID(map[string]string{"a": "1", "b": "2"})
	b := resource.SnapshotID(map[string]string{"b": "2", "a": "1"})
	c := resource.SnapshotID(map[string]string{"a": "1"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMemoryStoreContract(t *testing.T) {
	ctx := context.Background()
	store := resource.NewMemoryStore()
	ref := resource.NewRef("mem", lokalize.Locale{Base: "app", Language: "de"}, "")

	_, _, ok, err := store.Load(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	meta, err := store.Save(ctx, ref, map[string]string{"k": "v"}, resource.Meta{Extra: map[string]string{"by": "test"}})
	require.NoError(t, err)
	assert.Equal(t, "test", meta.Extra["by"])

	snapshot, loaded, ok, err := store.Load(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"k": "v"}, snapshot)
	assert.Equal(t, meta.SnapshotID, loaded.SnapshotID)

	snapshot["k"] = "mutated"
	again, _, _, _ := store.Load(ctx, ref)
	assert.Equal(t, "v", again["k"])

	_, err = store.Save(ctx, ref, map[string]string{"k": "w"}, resource.Meta{ETag: "stale"})
	assert.True(t, errors.Is(err, resource.ErrETagMismatch))

	store.Put(resource.NewRef("mem", lokalize.Locale{Base: "app"}, ""), map[string]string{})
	refs, errs := store.List(ctx, "mem", "app", ".properties")
	assert.Empty(t, errs)
	require.Len(t, refs, 2)
	assert.Equal(t, "app.properties", refs[0].FileName())

	store.FailOn(ref, errors.New("unreadable"))
	_, _, _, err = store.Load(ctx, ref)
	assert.True(t, errors.Is(err, lokalize.ErrResourceUnavailable))
}
