package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

func newTestConceptStore(t *testing.T) storage.ConceptStore {
	t.Helper()
	_, conceptStore, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return conceptStore
}

func TestConceptStore_PutAndGet(t *testing.T) {
	store := newTestConceptStore(t)
	ctx := context.Background()

	expansion := &core.ConceptExpansion{
		Term:       "jealousy",
		Definition: "Resentful suspicion of a rival's claim on someone's affection.",
		Synonyms:   []string{"envy", "possessiveness"},
		Indicators: []string{"complaints about other correspondents"},
	}
	require.NoError(t, store.PutExpansion(ctx, expansion))

	got, err := store.GetExpansion(ctx, "jealousy")
	require.NoError(t, err)
	assert.Equal(t, expansion.Term, got.Term)
	assert.Equal(t, expansion.Definition, got.Definition)
	assert.Equal(t, expansion.Synonyms, got.Synonyms)
	assert.Equal(t, expansion.Indicators, got.Indicators)
}

func TestConceptStore_LookupNormalizesTerm(t *testing.T) {
	store := newTestConceptStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutExpansion(ctx, &core.ConceptExpansion{
		Term:       "Political Anxiety",
		Definition: "Worry about the stability of government.",
	}))

	got, err := store.GetExpansion(ctx, "  political anxiety ")
	require.NoError(t, err)
	assert.Equal(t, "Political Anxiety", got.Term)
}

func TestConceptStore_GetMissing(t *testing.T) {
	store := newTestConceptStore(t)

	_, err := store.GetExpansion(context.Background(), "never expanded")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConceptStore_RejectsIncompleteExpansion(t *testing.T) {
	store := newTestConceptStore(t)
	ctx := context.Background()

	err := store.PutExpansion(ctx, &core.ConceptExpansion{Term: "duty"})
	assert.ErrorIs(t, err, core.ErrExpansionIncomplete)

	_, err = store.GetExpansion(ctx, "duty")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConceptStore_PutOverwrites(t *testing.T) {
	store := newTestConceptStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutExpansion(ctx, &core.ConceptExpansion{
		Term:       "duty",
		Definition: "First definition.",
	}))
	require.NoError(t, store.PutExpansion(ctx, &core.ConceptExpansion{
		Term:       "Duty",
		Definition: "Second definition.",
	}))

	got, err := store.GetExpansion(ctx, "duty")
	require.NoError(t, err)
	assert.Equal(t, "Second definition.", got.Definition)
}
