package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)

	saved := Settings{
		ActiveTab:       "leaderboard",
		LastGroupID:     "group-7",
		LastGameID:      "game-12",
		LastScorecardID: "sc-3",
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestStore_FreshStoreIsEmpty(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Settings{}, loaded)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Settings{ActiveTab: "games"}))
	require.NoError(t, store.Save(Settings{ActiveTab: "scorecard"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "scorecard", loaded.ActiveTab)
	assert.Empty(t, loaded.LastGameID)
}
