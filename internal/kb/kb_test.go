package kb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "kb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"down" OR "payment"`, ftsQuery("down payment"))
	assert.Equal(t, `"what" OR "s" OR "a" OR "FICO" OR "score"`, ftsQuery("what's a FICO score?"))
	assert.Equal(t, "", ftsQuery("!?!"))
	assert.Equal(t, "", ftsQuery(""))
}

func TestSearch_SeededCorpus(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Search(context.Background(), "what is a down payment", 3)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 3)
	for _, e := range entries {
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Content)
	}
}

func TestSearch_NoTokens(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Search(context.Background(), "???", 3)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	// Seeding runs once; a second migrate must not duplicate entries.
	entries, err := store.Search(ctx, "mortgage", 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), len(seedEntries))
}
