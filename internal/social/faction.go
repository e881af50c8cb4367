// Package social holds the factions that contest the generated world.
package social

import "errors"

// Faction is one player slot, created per continent at generation time. The
// flags are owned by the session layer afterwards.
type Faction struct {
	ID   string `json:"faction_id"`
	Name string `json:"name"`

	Available bool `json:"available"`  // Not yet claimed by a player
	Defeated  bool `json:"defeated"`
	TurnEnded bool `json:"turn_ended"` // Player has ended the current turn
}

// NewFaction returns an unclaimed, undefeated faction.
func NewFaction(id, name string) (*Faction, error) {
	if id == "" {
		return nil, errors.New("faction needs an id")
	}
	return &Faction{ID: id, Name: name, Available: true}, nil
}

// Claim marks the faction as taken by a player.
func (f *Faction) Claim() error {
	if !f.Available {
		return errors.New("faction already claimed")
	}
	f.Available = false
	return nil
}

// Index returns the factions keyed by id.
func Index(factions []*Faction) map[string]*Faction {
	idx := make(map[string]*Faction, len(factions))
	for _, f := range factions {
		idx[f.ID] = f
	}
	return idx
}
