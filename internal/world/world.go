package world

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/talgya/worldforge/internal/social"
)

// ContinentOutline is the merged shape of one faction's continent.
type ContinentOutline struct {
	FactionID string           `json:"faction_id"`
	Outline   orb.MultiPolygon `json:"outline"`
}

// World is the complete snapshot produced by one generation run.
type World struct {
	ID       string `json:"game_id"`
	Owner    string `json:"owner"`
	Seed     int64  `json:"seed"`
	GameOver bool   `json:"game_over"`

	Provinces  []*Province        `json:"provinces"`
	Continents []ContinentOutline `json:"continents"`
	Factions   []*social.Faction  `json:"factions"`
}

// Background returns the exterior ring of every continent polygon, the form
// the map renderer draws behind the provinces.
func (w *World) Background() []orb.Ring {
	var rings []orb.Ring
	for _, c := range w.Continents {
		for _, poly := range c.Outline {
			if len(poly) > 0 {
				rings = append(rings, poly[0])
			}
		}
	}
	return rings
}

// Province returns the province with the given id, or nil.
func (w *World) Province(id string) *Province {
	for _, p := range w.Provinces {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Faction returns the faction with the given id, or nil.
func (w *World) Faction(id string) *social.Faction {
	for _, f := range w.Factions {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// LandCount returns the number of provinces claimed by a faction.
func (w *World) LandCount() int {
	n := 0
	for _, p := range w.Provinces {
		if !p.IsOcean {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of a world: ocean provinces are
// bare, neighbor lists are symmetric, every land province belongs to a known
// faction, and every faction with land has exactly one capital.
func (w *World) Validate() error {
	byID := make(map[string]*Province, len(w.Provinces))
	for _, p := range w.Provinces {
		byID[p.ID] = p
	}
	factions := social.Index(w.Factions)
	capitals := make(map[string]int)
	land := make(map[string]int)

	var errs []error
	for _, p := range w.Provinces {
		for _, nid := range p.Neighbors {
			n, ok := byID[nid]
			if !ok {
				errs = append(errs, fmt.Errorf("province %s: unknown neighbor %s", p.ID, nid))
				continue
			}
			if !contains(n.Neighbors, p.ID) {
				errs = append(errs, fmt.Errorf("province %s: neighbor %s does not list it back", p.ID, nid))
			}
		}

		if p.IsOcean {
			if p.City != nil || p.Fort != nil || p.Port != nil || len(p.Armies) > 0 || p.FactionID != "" {
				errs = append(errs, fmt.Errorf("ocean province %s has land attachments", p.ID))
			}
			continue
		}

		if _, ok := factions[p.FactionID]; !ok {
			errs = append(errs, fmt.Errorf("province %s: unknown faction %q", p.ID, p.FactionID))
		}
		land[p.FactionID]++
		if p.IsCapital() {
			capitals[p.FactionID]++
		}
		for _, a := range p.Armies {
			if a.FactionID != p.FactionID {
				errs = append(errs, fmt.Errorf("province %s: army of foreign faction %s", p.ID, a.FactionID))
			}
		}
	}

	for fid, n := range land {
		if n > 0 && capitals[fid] != 1 {
			errs = append(errs, fmt.Errorf("faction %s has %d capitals", fid, capitals[fid]))
		}
	}
	return errors.Join(errs...)
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
