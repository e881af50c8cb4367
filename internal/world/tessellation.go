// Bounded Voronoi tessellation of the unit square.
// Sites are mirrored across all four edges so that every cell of an original
// site closes inside the square; the Voronoi vertices are the circumcenters of
// the Delaunay triangles.
package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
)

// tolerance is the square root of machine epsilon. A vertex this far outside
// the square still counts as inside, and vertices closer than this are welded.
// Circumcenters of mirrored pairs sit exactly on the edge in exact arithmetic.
const tolerance = 1.4901161193847656e-08

// Cell is one bounded tessellation cell: its generating site and the ring of
// vertex indices (counter-clockwise, not closed) into Tessellation.Vertices.
type Cell struct {
	Site     orb.Point
	Vertices []int
}

// Tessellation holds the bounded cells and the shared vertex array.
type Tessellation struct {
	Vertices []orb.Point
	Cells    []Cell
}

// Polygon returns the closed border ring of cell i.
func (t *Tessellation) Polygon(i int) orb.Ring {
	idx := t.Cells[i].Vertices
	ring := make(orb.Ring, 0, len(idx)+1)
	for _, v := range idx {
		ring = append(ring, t.Vertices[v])
	}
	if len(idx) > 0 {
		ring = append(ring, t.Vertices[idx[0]])
	}
	return ring
}

// Centroid returns the mean of the cell's vertices.
func (t *Tessellation) Centroid(i int) orb.Point {
	var c orb.Point
	idx := t.Cells[i].Vertices
	if len(idx) == 0 {
		return c
	}
	for _, v := range idx {
		c[0] += t.Vertices[v][0]
		c[1] += t.Vertices[v][1]
	}
	n := float64(len(idx))
	return orb.Point{c[0] / n, c[1] / n}
}

// Tessellate scatters grain sites over the unit square and returns the cells
// that are fully bounded by it.
func Tessellate(grain int, rng *rand.Rand) (*Tessellation, error) {
	if grain < 3 {
		return nil, &InsufficientSitesError{Sites: grain}
	}

	sites := make([]delaunay.Point, grain)
	for i := range sites {
		sites[i] = delaunay.Point{X: rng.Float64(), Y: rng.Float64()}
	}

	tri, err := delaunay.Triangulate(mirrorSites(sites))
	if err != nil {
		return nil, &InsufficientSitesError{Sites: grain, Err: err}
	}

	vertices, weld := weldVertices(circumcenters(tri))
	inedge := incomingEdges(tri)

	tess := &Tessellation{}
	renumber := make(map[int]int)

	for i := 0; i < grain; i++ {
		tris, ok := cellAround(tri, inedge[i])
		if !ok {
			continue
		}
		ring := weldRing(tris, weld)
		if len(ring) < 3 || !allInBounds(vertices, ring) {
			continue
		}
		for k, v := range ring {
			idx, seen := renumber[v]
			if !seen {
				idx = len(tess.Vertices)
				renumber[v] = idx
				tess.Vertices = append(tess.Vertices, clampUnit(vertices[v]))
			}
			ring[k] = idx
		}
		orientCCW(tess.Vertices, ring)
		site := orb.Point{sites[i].X, sites[i].Y}
		tess.Cells = append(tess.Cells, Cell{Site: site, Vertices: ring})
	}

	if len(tess.Cells) == 0 {
		return nil, &InsufficientSitesError{
			Sites: grain,
			Err:   fmt.Errorf("no bounded cells out of %d sites", grain),
		}
	}

	return tess, nil
}

// mirrorSites returns the sites followed by their reflections across the
// left, right, bottom, and top edges of the unit square.
func mirrorSites(sites []delaunay.Point) []delaunay.Point {
	n := len(sites)
	pts := make([]delaunay.Point, 0, 5*n)
	pts = append(pts, sites...)
	for _, p := range sites {
		pts = append(pts, delaunay.Point{X: -p.X, Y: p.Y})
	}
	for _, p := range sites {
		pts = append(pts, delaunay.Point{X: 2 - p.X, Y: p.Y})
	}
	for _, p := range sites {
		pts = append(pts, delaunay.Point{X: p.X, Y: -p.Y})
	}
	for _, p := range sites {
		pts = append(pts, delaunay.Point{X: p.X, Y: 2 - p.Y})
	}
	return pts
}

// circumcenters returns one Voronoi vertex per Delaunay triangle.
func circumcenters(tri *delaunay.Triangulation) []orb.Point {
	n := len(tri.Triangles) / 3
	out := make([]orb.Point, n)
	for t := 0; t < n; t++ {
		a := tri.Points[tri.Triangles[3*t]]
		b := tri.Points[tri.Triangles[3*t+1]]
		c := tri.Points[tri.Triangles[3*t+2]]
		out[t] = circumcenter(a, b, c)
	}
	return out
}

// circumcenter falls back to the triangle centroid when the triangle is
// degenerate.
func circumcenter(a, b, c delaunay.Point) orb.Point {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return orb.Point{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	ux := (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d
	uy := (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d
	return orb.Point{ux, uy}
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// incomingEdges maps each point to one half-edge ending at it, preferring hull
// edges so that walks around hull points start at the open side.
func incomingEdges(tri *delaunay.Triangulation) []int {
	inedge := make([]int, len(tri.Points))
	for i := range inedge {
		inedge[i] = -1
	}
	for e := range tri.Triangles {
		p := tri.Triangles[nextHalfedge(e)]
		if tri.Halfedges[e] == -1 || inedge[p] == -1 {
			inedge[p] = e
		}
	}
	return inedge
}

// cellAround walks the triangles around the end point of start and returns
// their indices in ring order. ok is false for points on the hull or points
// the triangulation dropped as duplicates.
func cellAround(tri *delaunay.Triangulation, start int) ([]int, bool) {
	if start == -1 {
		return nil, false
	}
	var ring []int
	incoming := start
	for {
		ring = append(ring, incoming/3)
		incoming = tri.Halfedges[nextHalfedge(incoming)]
		if incoming == -1 {
			return nil, false
		}
		if incoming == start {
			break
		}
	}
	return ring, true
}

// weldVertices merges points closer than tolerance. Mirrored sites make
// boundary triangles cocircular in pairs, so their circumcenters coincide.
// Returns the distinct points and, per input point, its index among them.
func weldVertices(points []orb.Point) ([]orb.Point, []int) {
	type bucket struct{ x, y int64 }
	key := func(p orb.Point) bucket {
		return bucket{int64(math.Floor(p[0] / tolerance)), int64(math.Floor(p[1] / tolerance))}
	}

	grid := make(map[bucket][]int)
	var out []orb.Point
	weld := make([]int, len(points))

	for i, p := range points {
		k := key(p)
		found := -1
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, j := range grid[bucket{k.x + dx, k.y + dy}] {
					if math.Abs(out[j][0]-p[0]) <= tolerance && math.Abs(out[j][1]-p[1]) <= tolerance {
						found = j
						break search
					}
				}
			}
		}
		if found == -1 {
			found = len(out)
			out = append(out, p)
			grid[k] = append(grid[k], found)
		}
		weld[i] = found
	}
	return out, weld
}

// weldRing maps triangle indices to welded vertex indices, dropping repeats.
func weldRing(tris []int, weld []int) []int {
	ring := make([]int, 0, len(tris))
	for _, t := range tris {
		v := weld[t]
		if len(ring) > 0 && ring[len(ring)-1] == v {
			continue
		}
		ring = append(ring, v)
	}
	for len(ring) > 1 && ring[len(ring)-1] == ring[0] {
		ring = ring[:len(ring)-1]
	}
	return ring
}

func allInBounds(vertices []orb.Point, ring []int) bool {
	for _, v := range ring {
		p := vertices[v]
		if p[0] < -tolerance || p[0] > 1+tolerance ||
			p[1] < -tolerance || p[1] > 1+tolerance {
			return false
		}
	}
	return true
}

func clampUnit(p orb.Point) orb.Point {
	return orb.Point{math.Min(1, math.Max(0, p[0])), math.Min(1, math.Max(0, p[1]))}
}

// orientCCW reverses ring in place when its signed area is negative.
func orientCCW(vertices []orb.Point, ring []int) {
	if signedArea(vertices, ring) >= 0 {
		return
	}
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

func signedArea(vertices []orb.Point, ring []int) float64 {
	var sum float64
	for i := range ring {
		a := vertices[ring[i]]
		b := vertices[ring[(i+1)%len(ring)]]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}
