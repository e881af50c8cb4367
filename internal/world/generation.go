// World generation pipeline: tessellate, build adjacency, seed and grow
// continents, merge them into outlines, then place settlements.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/worldforge/internal/entropy"
	"github.com/talgya/worldforge/internal/social"
)

// Bounds on the generation inputs.
const (
	MinGrain    = 10
	MaxGrain    = 500
	MinFactions = 2 // faction count must exceed 1
	MaxFactions = 20
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Grain    int    // Number of tessellation sites
	Factions int    // Continents requested, one faction each
	Seed     int64  // Random seed (0 = random)
	Owner    string // Recorded on the world; not used by generation

	MinConnection float64 // Minimum degree/cells fraction for a seed cell
	GrowthRounds  int     // Random-walk rounds per continent

	Settlements SettlementConfig
}

// DefaultGenConfig returns the standard configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Grain:         100,
		Factions:      6,
		MinConnection: 0.02,
		GrowthRounds:  20,
		Settlements:   DefaultSettlementConfig(),
	}
}

// Validate reports the first out-of-range parameter.
func (c GenConfig) Validate() error {
	switch {
	case c.Grain < MinGrain || c.Grain > MaxGrain:
		return fmt.Errorf("grain %d outside [%d, %d]", c.Grain, MinGrain, MaxGrain)
	case c.Factions < MinFactions || c.Factions > MaxFactions:
		return fmt.Errorf("faction count %d outside [%d, %d]", c.Factions, MinFactions, MaxFactions)
	case c.MinConnection < 0 || c.MinConnection > 1:
		return fmt.Errorf("min connection %v outside [0, 1]", c.MinConnection)
	case c.GrowthRounds < 0:
		return errors.New("growth rounds must not be negative")
	}
	s := c.Settlements
	switch {
	case s.CityFraction < 0 || s.CityFraction > 1:
		return fmt.Errorf("city fraction %v outside [0, 1]", s.CityFraction)
	case s.PortChance < 0 || s.PortChance > 1:
		return fmt.Errorf("port chance %v outside [0, 1]", s.PortChance)
	case s.FortFraction < 0 || s.FortFraction > 1:
		return fmt.Errorf("fort fraction %v outside [0, 1]", s.FortFraction)
	case len(s.TroopChoices) == 0:
		return errors.New("no troop choices")
	}
	for _, n := range s.TroopChoices {
		if n <= 0 {
			return fmt.Errorf("troop choice %d must be positive", n)
		}
	}
	return nil
}

// GenerateWorld builds a world with default parameters and a random seed.
func GenerateWorld(grain, factionCount int) (*World, error) {
	cfg := DefaultGenConfig()
	cfg.Grain = grain
	cfg.Factions = factionCount
	return Generate(cfg)
}

// Generate runs the full pipeline synchronously. The same seed always yields
// the same world; seed 0 draws a fresh one, recorded in World.Seed. On error
// no world is returned.
func Generate(cfg GenConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &GenerationError{Stage: "config", Err: err}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}
	rng := rand.New(rand.NewSource(seed))
	newID := idSource(rng)
	names := NewNamer(rng)
	start := time.Now()

	tess, err := Tessellate(cfg.Grain, rng)
	if err != nil {
		return nil, err
	}

	m, err := NewMap(tess, newID)
	if err != nil {
		return nil, &GenerationError{Stage: "adjacency", Err: err}
	}

	continents, rejected := SeedContinents(m.Adjacency, cfg.Factions, cfg.MinConnection, rng, newID)
	if len(continents) < cfg.Factions {
		slog.Info("fewer continents than requested",
			"requested", cfg.Factions,
			"seeded", len(continents),
			"rejected", rejected,
		)
	}
	GrowContinents(m.Adjacency, continents, cfg.GrowthRounds, rng)

	_, skipped := MergeContinents(m, continents, names)

	if err := PlaceSettlements(m, continents, cfg.Settlements, rng, newID); err != nil {
		return nil, &GenerationError{Stage: "settlements", Err: err}
	}

	applyRelief(m, seed)

	w := &World{
		ID:        newID(),
		Owner:     cfg.Owner,
		Seed:      seed,
		Provinces: m.Provinces,
	}
	for _, c := range continents {
		f, err := social.NewFaction(c.ID, names.Faction())
		if err != nil {
			return nil, &GenerationError{Stage: "factions", Err: err}
		}
		w.Factions = append(w.Factions, f)
		if len(c.Outline) > 0 {
			w.Continents = append(w.Continents, ContinentOutline{FactionID: c.ID, Outline: c.Outline})
		}
	}

	if err := w.Validate(); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}

	slog.Info("world generated",
		"id", w.ID,
		"seed", seed,
		"cells", len(m.Provinces),
		"land", m.LandCount(),
		"factions", len(w.Factions),
		"skipped_tiles", len(skipped),
		"elapsed", time.Since(start),
	)
	return w, nil
}
