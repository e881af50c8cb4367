package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/worldforge/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "worlds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func generate(t *testing.T, seed int64, owner string) *world.World {
	t.Helper()
	cfg := world.DefaultGenConfig()
	cfg.Grain = 40
	cfg.Factions = 3
	cfg.Seed = seed
	cfg.Owner = owner
	w, err := world.Generate(cfg)
	require.NoError(t, err)
	return w
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	w := generate(t, 1, "ana")
	require.NoError(t, db.SaveWorld(w))

	got, err := db.LoadWorld(w.ID)
	require.NoError(t, err)

	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, w.Owner, got.Owner)
	assert.Equal(t, w.Seed, got.Seed)
	assert.Equal(t, w.Factions, got.Factions)
	require.Len(t, got.Provinces, len(w.Provinces))
	for i, p := range w.Provinces {
		q := got.Provinces[i]
		assert.Equal(t, p.ID, q.ID)
		assert.Equal(t, p.FactionID, q.FactionID)
		assert.Equal(t, p.IsOcean, q.IsOcean)
		assert.Equal(t, p.Neighbors, q.Neighbors)
		assert.Equal(t, p.IsCapital(), q.IsCapital())
		assert.Equal(t, len(p.Armies), len(q.Armies))
	}
	assert.Equal(t, len(w.Continents), len(got.Continents))
	assert.NoError(t, got.Validate())
}

func TestSaveWorldReplaces(t *testing.T) {
	db := openTestDB(t)
	w := generate(t, 2, "ana")
	require.NoError(t, db.SaveWorld(w))

	w.GameOver = true
	w.Factions = w.Factions[:1]
	require.NoError(t, db.SaveWorld(w))

	factions, err := db.Factions(w.ID)
	require.NoError(t, err)
	assert.Len(t, factions, 1)

	got, err := db.LoadWorld(w.ID)
	require.NoError(t, err)
	assert.True(t, got.GameOver)
}

func TestUpdateFaction(t *testing.T) {
	db := openTestDB(t)
	w := generate(t, 3, "ana")
	require.NoError(t, db.SaveWorld(w))
	require.NotEmpty(t, w.Factions)

	f := w.Factions[0]
	require.NoError(t, f.Claim())
	f.TurnEnded = true
	require.NoError(t, db.UpdateFaction(w.ID, f))

	got, err := db.LoadWorld(w.ID)
	require.NoError(t, err)
	loaded := got.Faction(f.ID)
	require.NotNil(t, loaded)
	assert.False(t, loaded.Available)
	assert.True(t, loaded.TurnEnded)
	assert.False(t, loaded.Defeated)

	f.ID = "missing"
	err = db.UpdateFaction(w.ID, f)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListAndDeleteWorlds(t *testing.T) {
	db := openTestDB(t)
	a := generate(t, 4, "ana")
	b := generate(t, 5, "ben")
	c := generate(t, 6, "ana")
	for _, w := range []*world.World{a, b, c} {
		require.NoError(t, db.SaveWorld(w))
	}

	all, err := db.ListWorlds("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	anas, err := db.ListWorlds("ana")
	require.NoError(t, err)
	require.Len(t, anas, 2)
	// Same second: newest insert first.
	assert.Equal(t, c.ID, anas[0].ID)
	assert.Equal(t, a.ID, anas[1].ID)
	assert.Equal(t, len(c.Factions), anas[0].Factions)
	assert.Equal(t, c.LandCount(), anas[0].Land)
	assert.Equal(t, len(c.Provinces), anas[0].Provinces)

	require.NoError(t, db.DeleteWorld(a.ID))
	_, err = db.LoadWorld(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteWorld(a.ID), ErrNotFound)

	factions, err := db.Factions(a.ID)
	require.NoError(t, err)
	assert.Empty(t, factions)

	none, err := db.ListWorlds("nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadMissingWorld(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadWorld("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
