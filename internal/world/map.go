package world

import "fmt"

// Map holds the provinces of one tessellation, their adjacency, and lookups.
// Province i is built from tessellation cell i.
type Map struct {
	Tess      *Tessellation
	Provinces []*Province
	Adjacency Adjacency

	byID      map[string]*Province
	byFractal map[string]*Province
}

// NewMap creates one ocean province per cell and links neighbors through the
// adjacency matrix. newID supplies province ids.
func NewMap(tess *Tessellation, newID func() string) (*Map, error) {
	m := &Map{
		Tess:      tess,
		Provinces: make([]*Province, len(tess.Cells)),
		Adjacency: BuildAdjacency(tess.Cells),
		byID:      make(map[string]*Province, len(tess.Cells)),
		byFractal: make(map[string]*Province, len(tess.Cells)),
	}

	for i, c := range tess.Cells {
		p, err := NewProvince(newID(), FractalID(c.Vertices), tess.Polygon(i), tess.Centroid(i))
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		m.Provinces[i] = p
		m.byID[p.ID] = p
		m.byFractal[p.FractalID] = p
	}

	for i, p := range m.Provinces {
		for _, j := range m.Adjacency.Neighbors(i) {
			p.Neighbors = append(p.Neighbors, m.Provinces[j].ID)
		}
	}
	return m, nil
}

// Get returns the province with the given id, or nil.
func (m *Map) Get(id string) *Province {
	return m.byID[id]
}

// ByFractal returns the province built from the cell with the given fractal
// id, or nil.
func (m *Map) ByFractal(fractalID string) *Province {
	return m.byFractal[fractalID]
}

// HasOceanNeighbor reports whether any neighbor of p is still ocean.
func (m *Map) HasOceanNeighbor(p *Province) bool {
	for _, id := range p.Neighbors {
		if n := m.Get(id); n != nil && n.IsOcean {
			return true
		}
	}
	return false
}

// LandCount returns the number of claimed provinces.
func (m *Map) LandCount() int {
	n := 0
	for _, p := range m.Provinces {
		if !p.IsOcean {
			n++
		}
	}
	return n
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(provinces=%d, land=%d)", len(m.Provinces), m.LandCount())
}
