package world

import (
	"sort"
	"strconv"
	"strings"
)

// Adjacency is a symmetric cell adjacency matrix: cells i and j are adjacent
// when i != j and they share at least one vertex index.
type Adjacency [][]bool

// BuildAdjacency derives the adjacency matrix from vertex sharing. It depends
// only on the cells' vertex indices, so rebuilding it yields the same matrix.
func BuildAdjacency(cells []Cell) Adjacency {
	n := len(cells)
	adj := make(Adjacency, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}

	// vertex index → cells touching it
	touching := make(map[int][]int)
	for i, c := range cells {
		for _, v := range c.Vertices {
			touching[v] = append(touching[v], i)
		}
	}
	for _, group := range touching {
		for _, a := range group {
			for _, b := range group {
				if a != b {
					adj[a][b] = true
				}
			}
		}
	}
	return adj
}

// Len returns the number of cells.
func (a Adjacency) Len() int { return len(a) }

// Adjacent reports whether cells i and j share a vertex.
func (a Adjacency) Adjacent(i, j int) bool { return a[i][j] }

// Degree returns the number of cells adjacent to i.
func (a Adjacency) Degree(i int) int {
	n := 0
	for _, ok := range a[i] {
		if ok {
			n++
		}
	}
	return n
}

// Connectivity returns the degree of i as a fraction of all cells.
func (a Adjacency) Connectivity(i int) float64 {
	if len(a) == 0 {
		return 0
	}
	return float64(a.Degree(i)) / float64(len(a))
}

// Neighbors returns the cells adjacent to i in ascending order.
func (a Adjacency) Neighbors(i int) []int {
	var out []int
	for j, ok := range a[i] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

// FractalID is the stable key of a cell: its vertex indices sorted and joined
// with "-".
func FractalID(vertices []int) string {
	sorted := append([]int(nil), vertices...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}
