// Package world generates the province map: a bounded Voronoi tessellation of
// the unit square, its adjacency graph, continents grown over it, and the
// settlements seeded on each continent.
package world

import (
	"errors"

	"github.com/paulmach/orb"
)

// City marks a settled province. Exactly one city per faction is the capital.
type City struct {
	IsCapital bool `json:"is_capital"`
}

// NewCity returns a city.
func NewCity(capital bool) *City {
	return &City{IsCapital: capital}
}

// Army is a body of troops stationed in a province.
type Army struct {
	ID        string `json:"army_id"`
	FactionID string `json:"faction_id"`
	Units     int    `json:"units"`
}

// NewArmy validates and returns an army owned by factionID.
func NewArmy(id, factionID string, units int) (*Army, error) {
	if factionID == "" {
		return nil, errors.New("army needs a faction")
	}
	if units <= 0 {
		return nil, errors.New("army needs a positive unit count")
	}
	return &Army{ID: id, FactionID: factionID, Units: units}, nil
}

// Port and Fort are presence-only markers.
type (
	Port struct{}
	Fort struct{}
)

// Province is one tessellation cell. Provinces start as ocean and become land
// when a continent claims them.
type Province struct {
	ID        string `json:"province_id"`
	FractalID string `json:"fractal_id"`
	Name      string `json:"name,omitempty"`
	FactionID string `json:"faction_id,omitempty"`
	IsOcean   bool   `json:"is_ocean"`

	Border   orb.Ring  `json:"border"`
	Centroid orb.Point `json:"centroid"`

	// Ids of provinces sharing at least one tessellation vertex.
	Neighbors []string `json:"neighbors"`

	City   *City   `json:"city,omitempty"`
	Armies []*Army `json:"armies,omitempty"`
	Fort   *Fort   `json:"fort,omitempty"`
	Port   *Port   `json:"port,omitempty"`

	Elevation float64 `json:"elevation"` // 0.0 (low) to 1.0 (high), from relief noise
}

// NewProvince builds an ocean province from a closed border ring.
func NewProvince(id, fractalID string, border orb.Ring, centroid orb.Point) (*Province, error) {
	if id == "" || fractalID == "" {
		return nil, errors.New("province needs an id and a fractal id")
	}
	if len(border) < 4 || !border.Closed() {
		return nil, errors.New("province border must be a closed ring")
	}
	return &Province{
		ID:        id,
		FractalID: fractalID,
		IsOcean:   true,
		Border:    border,
		Centroid:  centroid,
		Neighbors: []string{},
	}, nil
}

// claim turns an ocean province into land held by factionID.
func (p *Province) claim(name, factionID string) {
	p.Name = name
	p.IsOcean = false
	p.FactionID = factionID
}

// IsCapital reports whether the province holds its faction's capital.
func (p *Province) IsCapital() bool {
	return p.City != nil && p.City.IsCapital
}
