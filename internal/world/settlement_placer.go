// Settlement placement — capitals, cities, ports, forts and garrisons on each
// continent's claimed provinces.
package world

import (
	"fmt"
	"math/rand"
)

// SettlementConfig holds the settlement placement parameters.
type SettlementConfig struct {
	CityFraction float64 // Share of a continent's provinces that hold a city, capital included
	PortChance   float64 // Chance a city is checked for a coastal port
	FortFraction float64 // Share of a continent's provinces that get a fort and army
	TroopChoices []int   // Army sizes drawn uniformly
}

// DefaultSettlementConfig returns the standard placement parameters.
func DefaultSettlementConfig() SettlementConfig {
	return SettlementConfig{
		CityFraction: 0.3,
		PortChance:   0.5,
		FortFraction: 0.2,
		TroopChoices: []int{50, 100, 150, 200},
	}
}

// PlaceSettlements seeds every continent that claimed at least one province.
// The first province in shuffled order becomes the capital, the next ones
// ordinary cities; cities next to the ocean may get a port. A second shuffle
// picks the provinces that get a fort and a garrison of the continent's faction.
func PlaceSettlements(m *Map, continents []*Continent, cfg SettlementConfig, rng *rand.Rand, newID func() string) error {
	for _, c := range continents {
		if len(c.Claimed) == 0 {
			continue
		}

		pvs := make([]*Province, len(c.Claimed))
		for i, t := range c.Claimed {
			pvs[i] = m.Provinces[t]
		}

		shuffle(rng, pvs)

		cities := int(float64(len(pvs)) * cfg.CityFraction)
		if cities < 1 {
			cities = 1
		}
		for i := 0; i < cities; i++ {
			pvs[i].City = NewCity(i == 0)
			if rng.Float64() < cfg.PortChance && m.HasOceanNeighbor(pvs[i]) {
				pvs[i].Port = &Port{}
			}
		}

		shuffle(rng, pvs)

		forts := int(float64(len(pvs)) * cfg.FortFraction)
		for _, p := range pvs[:forts] {
			units := cfg.TroopChoices[rng.Intn(len(cfg.TroopChoices))]
			army, err := NewArmy(newID(), p.FactionID, units)
			if err != nil {
				return fmt.Errorf("garrison %s: %w", p.ID, err)
			}
			p.Fort = &Fort{}
			p.Armies = append(p.Armies, army)
		}
	}
	return nil
}

func shuffle(rng *rand.Rand, pvs []*Province) {
	rng.Shuffle(len(pvs), func(i, j int) {
		pvs[i], pvs[j] = pvs[j], pvs[i]
	})
}
