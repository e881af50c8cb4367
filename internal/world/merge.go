// Region merging: resolves overlapping growth paths and unions each
// continent's cells into outline polygons.
package world

import (
	"log/slog"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Unclaimed marks a cell no continent owns.
const Unclaimed = -1

// minTileArea is the smallest cell area accepted into an outline.
const minTileArea = 1e-14

// Ownership maps each cell index to the index of the continent that owns it.
type Ownership []int

// NewOwnership returns an arena of n unclaimed cells.
func NewOwnership(n int) Ownership {
	o := make(Ownership, n)
	for i := range o {
		o[i] = Unclaimed
	}
	return o
}

// Owner returns the owning continent index of cell, or Unclaimed.
func (o Ownership) Owner(cell int) int { return o[cell] }

// Claimed reports whether any continent owns cell.
func (o Ownership) Claimed(cell int) bool { return o[cell] != Unclaimed }

// MergeContinents claims cells for continents in order; a cell taken by an
// earlier continent is skipped by later ones. Each claimed cell becomes a
// named land province of the continent's faction and is unioned into the
// continent outline. Cells whose geometry cannot be merged stay ocean and are
// returned as GeometryErrors.
func MergeContinents(m *Map, continents []*Continent, names *Namer) (Ownership, []*GeometryError) {
	owners := NewOwnership(len(m.Provinces))
	var failures []*GeometryError

	for ci, c := range continents {
		cov := newCoverage(m.Tess.Vertices)
		c.Claimed = c.Claimed[:0]

		for _, t := range uniqueTiles(c.Tiles) {
			if owners.Claimed(t) {
				continue
			}
			cell := m.Tess.Cells[t].Vertices

			gerr := validateTile(m.Tess, t)
			if gerr == nil {
				gerr = cov.add(t, cell)
			}
			if gerr == nil && m.ByFractal(FractalID(cell)) == nil {
				gerr = &GeometryError{Tile: t, Reason: "no province for cell"}
			}
			if gerr != nil {
				slog.Warn("skipping tile", "continent", c.ID, "tile", t, "error", gerr)
				failures = append(failures, gerr)
				continue
			}

			m.ByFractal(FractalID(cell)).claim(names.Province(), c.ID)
			owners[t] = ci
			c.Claimed = append(c.Claimed, t)
		}

		c.Outline = cov.outline()
	}

	return owners, failures
}

// uniqueTiles drops repeated cells, keeping first-seen order.
func uniqueTiles(tiles []int) []int {
	seen := make(map[int]bool, len(tiles))
	out := make([]int, 0, len(tiles))
	for _, t := range tiles {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func validateTile(tess *Tessellation, t int) *GeometryError {
	cell := tess.Cells[t].Vertices
	if len(cell) < 3 {
		return &GeometryError{Tile: t, Reason: "fewer than three vertices"}
	}
	for _, v := range cell {
		p := tess.Vertices[v]
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return &GeometryError{Tile: t, Reason: "non-finite vertex"}
		}
	}
	ring := dedupeRing(tess.Polygon(t))
	if len(ring) < 4 {
		return &GeometryError{Tile: t, Reason: "collapsed ring"}
	}
	if math.Abs(ringArea(ring)) < minTileArea {
		return &GeometryError{Tile: t, Reason: "zero area"}
	}
	if !ringSimple(ring) {
		return &GeometryError{Tile: t, Reason: "self-intersecting ring"}
	}
	return nil
}

type edge struct{ from, to int }

// coverage accumulates the union of cells that share exact vertex indices.
// Interior edges appear once in each direction and cancel; what remains is
// the directed boundary of the union.
type coverage struct {
	vertices []orb.Point
	boundary map[edge]bool
}

func newCoverage(vertices []orb.Point) *coverage {
	return &coverage{vertices: vertices, boundary: make(map[edge]bool)}
}

// add unions a counter-clockwise cell ring into the coverage. A cell that
// would duplicate an existing boundary edge overlaps the union and is rejected
// without changing it.
func (c *coverage) add(t int, ring []int) *GeometryError {
	edges := make([]edge, len(ring))
	for i := range ring {
		edges[i] = edge{ring[i], ring[(i+1)%len(ring)]}
		if c.boundary[edges[i]] {
			return &GeometryError{Tile: t, Reason: "overlaps continent outline"}
		}
	}
	for _, e := range edges {
		rev := edge{e.to, e.from}
		if c.boundary[rev] {
			delete(c.boundary, rev)
		} else {
			c.boundary[e] = true
		}
	}
	return nil
}

// outline chains the boundary into rings. Counter-clockwise rings are
// exteriors; clockwise rings are holes placed in the smallest exterior that
// contains them.
func (c *coverage) outline() orb.MultiPolygon {
	if len(c.boundary) == 0 {
		return nil
	}

	edges := make([]edge, 0, len(c.boundary))
	for e := range c.boundary {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	next := make(map[int][]int)
	var starts []int
	for _, e := range edges {
		if len(next[e.from]) == 0 {
			starts = append(starts, e.from)
		}
		next[e.from] = append(next[e.from], e.to)
	}

	var exteriors, holes []orb.Ring
	for _, s := range starts {
		for len(next[s]) > 0 {
			ring, ok := c.walk(s, next)
			if !ok {
				slog.Warn("open continent boundary", "start", s)
				continue
			}
			ring = dedupeRing(ring)
			if len(ring) < 4 {
				continue
			}
			if ringArea(ring) > 0 {
				exteriors = append(exteriors, ring)
			} else {
				holes = append(holes, ring)
			}
		}
	}

	mp := make(orb.MultiPolygon, len(exteriors))
	for i, ext := range exteriors {
		mp[i] = orb.Polygon{ext}
	}
	for _, h := range holes {
		best, bestArea := -1, math.Inf(1)
		for i, ext := range exteriors {
			a := ringArea(ext)
			if a < bestArea && planar.RingContains(ext, h[0]) {
				best, bestArea = i, a
			}
		}
		if best >= 0 {
			mp[best] = append(mp[best], h)
		}
	}
	return mp
}

// walk follows boundary edges from start until it returns there, consuming
// them from next.
func (c *coverage) walk(start int, next map[int][]int) (orb.Ring, bool) {
	ring := orb.Ring{c.vertices[start]}
	cur := start
	for {
		tos := next[cur]
		if len(tos) == 0 {
			return nil, false
		}
		to := tos[0]
		next[cur] = tos[1:]
		ring = append(ring, c.vertices[to])
		if to == start {
			return ring, true
		}
		cur = to
	}
}

// dedupeRing drops consecutive repeated points and returns a closed ring.
func dedupeRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		if len(out) == 0 || !out[len(out)-1].Equal(p) {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0]) {
		out = out[:len(out)-1]
	}
	if len(out) > 0 {
		out = append(out, out[0])
	}
	return out
}

// ringArea returns the signed area of a closed ring; positive when
// counter-clockwise.
func ringArea(r orb.Ring) float64 {
	var sum float64
	for i := 0; i+1 < len(r); i++ {
		sum += r[i][0]*r[i+1][1] - r[i+1][0]*r[i][1]
	}
	return sum / 2
}

// ringSimple reports whether no two non-adjacent edges of a closed ring touch.
func ringSimple(r orb.Ring) bool {
	n := len(r) - 1
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsTouch(r[i], r[i+1], r[j], r[j+1]) {
				return false
			}
		}
	}
	return true
}

func segmentsTouch(p1, p2, q1, q2 orb.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func orient(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}
