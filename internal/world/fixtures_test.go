package world

import (
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"
)

// lattice returns an n×n grid of square cells over the unit square. Vertex
// (x, y) has index y*(n+1)+x and cell (x, y) has index y*n+x.
func lattice(n int) *Tessellation {
	tess := &Tessellation{}
	step := 1 / float64(n)
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			tess.Vertices = append(tess.Vertices, orb.Point{float64(x) * step, float64(y) * step})
		}
	}
	v := func(x, y int) int { return y*(n+1) + x }
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			tess.Cells = append(tess.Cells, Cell{
				Site:     orb.Point{(float64(x) + 0.5) * step, (float64(y) + 0.5) * step},
				Vertices: []int{v(x, y), v(x+1, y), v(x+1, y+1), v(x, y+1)},
			})
		}
	}
	return tess
}

// withSliver appends a zero-area cell on the edge between vertices a and b.
func withSliver(tess *Tessellation, a, b int) int {
	mid := orb.Point{
		(tess.Vertices[a][0] + tess.Vertices[b][0]) / 2,
		(tess.Vertices[a][1] + tess.Vertices[b][1]) / 2,
	}
	tess.Vertices = append(tess.Vertices, mid)
	tess.Cells = append(tess.Cells, Cell{Site: mid, Vertices: []int{a, len(tess.Vertices) - 1, b}})
	return len(tess.Cells) - 1
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustMap(tess *Tessellation) *Map {
	m, err := NewMap(tess, sequentialIDs("p"))
	if err != nil {
		panic(err)
	}
	return m
}
