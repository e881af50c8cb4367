package world

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/worldforge/internal/social"
)

func seededConfig(seed int64) GenConfig {
	cfg := DefaultGenConfig()
	cfg.Grain = 50
	cfg.Factions = 4
	cfg.Seed = seed
	return cfg
}

func TestGenerateInvariants(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		w, err := Generate(seededConfig(seed))
		require.NoError(t, err, "seed %d", seed)

		assert.Equal(t, seed, w.Seed)
		assert.NotEmpty(t, w.ID)
		assert.LessOrEqual(t, len(w.Factions), 4)
		assert.LessOrEqual(t, len(w.Provinces), 50)
		assert.LessOrEqual(t, w.LandCount(), len(w.Provinces))
		require.NoError(t, w.Validate())

		factions := social.Index(w.Factions)
		capitals := make(map[string]int)
		for _, p := range w.Provinces {
			assert.True(t, p.Border.Closed())
			assert.GreaterOrEqual(t, p.Elevation, 0.0)
			assert.LessOrEqual(t, p.Elevation, 1.0)
			if p.IsOcean {
				assert.Empty(t, p.FactionID)
				continue
			}
			assert.Contains(t, factions, p.FactionID)
			assert.NotEmpty(t, p.Name)
			if p.IsCapital() {
				capitals[p.FactionID]++
			}
			if p.Port != nil {
				assert.NotNil(t, p.City)
			}
		}
		for fid, n := range capitals {
			assert.Equal(t, 1, n, "faction %s", fid)
		}

		for _, c := range w.Continents {
			assert.Contains(t, factions, c.FactionID)
			for _, poly := range c.Outline {
				require.NotEmpty(t, poly)
				assert.Greater(t, ringArea(poly[0]), 0.0)
				for _, r := range poly {
					assert.True(t, r.Closed())
					assert.True(t, ringSimple(r), "seed %d: outline ring of %s self-intersects", seed, c.FactionID)
				}
				for _, h := range poly[1:] {
					assert.Less(t, ringArea(h), 0.0)
				}
			}
		}
		assert.Len(t, w.Background(), outlinePolygons(w))
	}
}

func outlinePolygons(w *World) int {
	n := 0
	for _, c := range w.Continents {
		n += len(c.Outline)
	}
	return n
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(seededConfig(42))
	require.NoError(t, err)
	b, err := Generate(seededConfig(42))
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))

	c, err := Generate(seededConfig(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestGenerateRandomSeed(t *testing.T) {
	w, err := GenerateWorld(30, 3)
	require.NoError(t, err)
	assert.NotZero(t, w.Seed)
	assert.LessOrEqual(t, len(w.Factions), 3)
}

func TestGenerateManyFactionsFewCells(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Grain = MinGrain
	cfg.Factions = MaxFactions
	cfg.Seed = 9
	w, err := Generate(cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(w.Factions), MinGrain)
	assert.NoError(t, w.Validate())
}

func TestGenerateRejectsConfig(t *testing.T) {
	cases := map[string]func(*GenConfig){
		"grain low":      func(c *GenConfig) { c.Grain = MinGrain - 1 },
		"grain high":     func(c *GenConfig) { c.Grain = MaxGrain + 1 },
		"one faction":    func(c *GenConfig) { c.Factions = 1 },
		"many factions":  func(c *GenConfig) { c.Factions = MaxFactions + 1 },
		"connection":     func(c *GenConfig) { c.MinConnection = 1.5 },
		"growth":         func(c *GenConfig) { c.GrowthRounds = -1 },
		"city fraction":  func(c *GenConfig) { c.Settlements.CityFraction = 2 },
		"port chance":    func(c *GenConfig) { c.Settlements.PortChance = -0.1 },
		"fort fraction":  func(c *GenConfig) { c.Settlements.FortFraction = 1.1 },
		"no troops":      func(c *GenConfig) { c.Settlements.TroopChoices = nil },
		"negative troop": func(c *GenConfig) { c.Settlements.TroopChoices = []int{50, -1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := seededConfig(1)
			mutate(&cfg)
			w, err := Generate(cfg)
			assert.Nil(t, w)

			var gerr *GenerationError
			require.True(t, errors.As(err, &gerr), "got %v", err)
			assert.Equal(t, "config", gerr.Stage)
		})
	}
}

func TestDefaultGenConfigValid(t *testing.T) {
	assert.NoError(t, DefaultGenConfig().Validate())
}

func TestWorldValidateCatchesBrokenWorld(t *testing.T) {
	w, err := Generate(seededConfig(5))
	require.NoError(t, err)

	var land *Province
	for _, p := range w.Provinces {
		if !p.IsOcean {
			land = p
			break
		}
	}
	require.NotNil(t, land)

	land.FactionID = "nobody"
	assert.ErrorContains(t, w.Validate(), "unknown faction")

	land.FactionID = ""
	land.IsOcean = true
	land.City = NewCity(false)
	assert.ErrorContains(t, w.Validate(), "land attachments")
}

func TestFeatureCollection(t *testing.T) {
	w, err := Generate(seededConfig(6))
	require.NoError(t, err)

	fc := w.FeatureCollection()
	require.Len(t, fc.Features, len(w.Continents)+len(w.Provinces))

	land := 0
	for _, f := range fc.Features {
		if f.Properties["kind"] == "province" && f.Properties["ocean"] == false {
			land++
			assert.NotEmpty(t, f.Properties["name"])
		}
	}
	assert.Equal(t, w.LandCount(), land)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestWorldLookups(t *testing.T) {
	w, err := Generate(seededConfig(7))
	require.NoError(t, err)

	p := w.Provinces[0]
	assert.Same(t, p, w.Province(p.ID))
	assert.Nil(t, w.Province("missing"))
	if len(w.Factions) > 0 {
		f := w.Factions[0]
		assert.Same(t, f, w.Faction(f.ID))
		assert.True(t, f.Available)
	}
	assert.Nil(t, w.Faction("missing"))
}
