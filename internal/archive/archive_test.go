package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-analyzer/internal/types"
)

func saved(id, name string) *types.EvaluationResult {
	return &types.EvaluationResult{ID: id, Colaborador: name, PuntuacionGeneral: 7}
}

func openMemory(t *testing.T) (*Archive, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	a, err := Open(context.Background(), store, zerolog.Nop())
	require.NoError(t, err)
	return a, store
}

func TestOpen_Empty(t *testing.T) {
	a, _ := openMemory(t)
	assert.Empty(t, a.List())
	assert.Equal(t, 0, a.Len())
}

func TestOpen_CorruptDataStartsEmpty(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), Key, []byte(`{not json`)))

	a, err := Open(context.Background(), store, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, a.List())
}

type failingLoadStore struct{ MemoryStore }

func (s *failingLoadStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestOpen_StoreFailure(t *testing.T) {
	_, err := Open(context.Background(), &failingLoadStore{}, zerolog.Nop())
	var ae *ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "open", ae.Op)
}

func TestPut_AppendsAndReplaces(t *testing.T) {
	ctx := context.Background()
	a, store := openMemory(t)

	require.NoError(t, a.Put(ctx, saved("analysis-1", "Ana")))
	require.NoError(t, a.Put(ctx, saved("analysis-2", "Luis")))

	updated := saved("analysis-1", "Ana María")
	require.NoError(t, a.Put(ctx, updated))

	list := a.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Ana María", list[0].Colaborador, "replacement keeps position")
	assert.Equal(t, "analysis-2", list[1].ID)

	// The store holds the whole list under the fixed key
	reopened, err := Open(ctx, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, list, reopened.List())
}

func TestPut_RequiresID(t *testing.T) {
	a, _ := openMemory(t)
	err := a.Put(context.Background(), &types.EvaluationResult{Colaborador: "Ana"})
	var ae *ArchiveError
	assert.ErrorAs(t, err, &ae)
}

func TestPut_StoresCopies(t *testing.T) {
	a, _ := openMemory(t)
	result := saved("analysis-1", "Ana")
	require.NoError(t, a.Put(context.Background(), result))

	result.Colaborador = "mutated"
	got, ok := a.Get("analysis-1")
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Colaborador)

	got.Colaborador = "mutated again"
	again, _ := a.Get("analysis-1")
	assert.Equal(t, "Ana", again.Colaborador)
}

func TestGet_Unknown(t *testing.T) {
	a, _ := openMemory(t)
	got, ok := a.Get("analysis-missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	a, _ := openMemory(t)
	require.NoError(t, a.Put(ctx, saved("analysis-1", "Ana")))
	require.NoError(t, a.Put(ctx, saved("analysis-2", "Luis")))

	require.NoError(t, a.Remove(ctx, "analysis-1"))
	list := a.List()
	require.Len(t, list, 1)
	assert.Equal(t, "analysis-2", list[0].ID)

	require.NoError(t, a.Remove(ctx, "analysis-unknown"))
	assert.Equal(t, 1, a.Len())
}

func TestWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	a, store := openMemory(t)
	require.NoError(t, a.Put(ctx, saved("analysis-1", "Ana")))

	store.FailSave = errors.New("quota exceeded")

	err := a.Put(ctx, saved("analysis-2", "Luis"))
	var ae *ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "almacenamiento podría estar lleno")
	assert.Equal(t, 1, a.Len())

	err = a.Remove(ctx, "analysis-1")
	require.ErrorAs(t, err, &ae)
	_, ok := a.Get("analysis-1")
	assert.True(t, ok)

	store.FailSave = nil
	require.NoError(t, a.Put(ctx, saved("analysis-2", "Luis")))
	assert.Equal(t, 2, a.Len())
}
