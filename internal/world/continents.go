// Continent seeding and growth.
// Seeds favour well-connected cells; growth is a biased random walk over the
// adjacency graph, so continent sizes are only loosely tied to round count.
package world

import (
	"math/rand"

	"github.com/paulmach/orb"
)

// Continent is one faction's landmass while it is being built.
type Continent struct {
	ID   string
	Seed int

	// Growth path of cell indices. May repeat cells and overlap other
	// continents until merging.
	Tiles []int

	// Cells this continent won during merging, in claim order.
	Claimed []int

	Outline orb.MultiPolygon
}

// SeedContinents picks up to n seed cells. A random cell is accepted when its
// connectivity is at least minConnection and it does not already seed a
// continent. After 2n rejected attempts seeding stops early; fewer continents
// than requested is a valid result. Returns the continents in seed order and
// the number of rejected attempts.
func SeedContinents(adj Adjacency, n int, minConnection float64, rng *rand.Rand, newID func() string) ([]*Continent, int) {
	var continents []*Continent
	if adj.Len() == 0 {
		return continents, 0
	}

	seeded := make(map[int]bool)
	rejected := 0
	for len(continents) < n {
		if rejected >= 2*n {
			break
		}
		cell := rng.Intn(adj.Len())
		if seeded[cell] || adj.Connectivity(cell) < minConnection {
			rejected++
			continue
		}
		seeded[cell] = true
		continents = append(continents, &Continent{
			ID:    newID(),
			Seed:  cell,
			Tiles: []int{cell},
		})
	}
	return continents, rejected
}

// GrowContinents runs the given number of growth rounds. Each round every
// continent picks a random cell from its path and appends one random neighbor
// of it.
func GrowContinents(adj Adjacency, continents []*Continent, rounds int, rng *rand.Rand) {
	for r := 0; r < rounds; r++ {
		for _, c := range continents {
			from := c.Tiles[rng.Intn(len(c.Tiles))]
			next := adj.Neighbors(from)
			if len(next) == 0 {
				continue
			}
			c.Tiles = append(c.Tiles, next[rng.Intn(len(next))])
		}
	}
}
