package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "archive.json"))
	data, err := store.Load(context.Background(), Key)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "archive.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(ctx, Key, []byte(`[{"id":"analysis-1"}]`)))
	require.NoError(t, store.Save(ctx, "other", []byte(`{"a":1}`)))
	require.NoError(t, store.Save(ctx, Key, []byte(`[{"id":"analysis-2"}]`)))

	data, err := store.Load(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"analysis-2"}]`, string(data))

	other, err := store.Load(ctx, "other")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(other))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileStore_RejectsInvalidJSON(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "archive.json"))
	assert.Error(t, store.Save(context.Background(), Key, []byte(`{broken`)))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	store := NewFileStore(path)
	_, err := store.Load(context.Background(), Key)
	assert.Error(t, err)
}

func TestArchive_OverFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.json")

	a, err := Open(ctx, NewFileStore(path), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, a.Put(ctx, saved("analysis-1", "Ana")))

	reopened, err := Open(ctx, NewFileStore(path), zerolog.Nop())
	require.NoError(t, err)
	got, ok := reopened.Get("analysis-1")
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Colaborador)
}
