package repair

import (
	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/topology"
)

// triangleSet indexes the current triangles by unordered vertex triple, so
// hole filling never reintroduces a duplicate the filter already removed.
type triangleSet map[mesh.Triangle]struct{}

func makeTriangleSet(tris []mesh.Triangle) triangleSet {
	set := make(triangleSet, len(tris))
	for _, t := range tris {
		set[t.Canonical()] = struct{}{}
	}
	return set
}

// add appends t to the mesh unless its unordered triple is already present.
func (set triangleSet) add(m *mesh.Mesh, t mesh.Triangle) bool {
	key := t.Canonical()
	if _, dup := set[key]; dup {
		return false
	}
	set[key] = struct{}{}
	m.Triangles = append(m.Triangles, t)
	return true
}

// fillLoop closes a boundary loop. A 3-loop becomes a single triangle; a
// longer loop gets a new vertex at its centroid and a fan of triangles, one
// per boundary edge. The fan consumes every boundary edge of the loop
// exactly once and cannot self-intersect for roughly convex loops.
// Returns true if at least one triangle was added; a 3-loop that would
// merely duplicate its own backing triangle adds nothing.
func fillLoop(m *mesh.Mesh, loop []uint32, existing triangleSet) bool {
	n := len(loop)
	if n < 3 {
		return false
	}
	if n == 3 {
		return existing.add(m, mesh.Triangle{loop[0], loop[1], loop[2]})
	}

	var c mesh.Point
	for _, vi := range loop {
		c = c.Add(m.Vertices[vi])
	}
	c = c.Scale(1 / float64(n))

	ci := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, c)

	added := false
	for i := 0; i < n; i++ {
		if existing.add(m, mesh.Triangle{loop[i], loop[(i+1)%n], ci}) {
			added = true
		}
	}
	return added
}

// fillTJunction is the fallback when no loop of length >= 3 can be traced
// but boundary half-edges remain. It splices a triangle across the first
// vertex carrying two or more outgoing boundary half-edges, or failing that
// two or more incoming ones. The spliced triangle's winding may disagree
// with the surrounding surface; the next boundary extraction absorbs that.
// Returns false when no candidate vertex yields a new triangle.
func fillTJunction(m *mesh.Mesh, edges []topology.HalfEdge, existing triangleSet) bool {
	outs := make(map[uint32][]uint32, len(edges))
	ins := make(map[uint32][]uint32, len(edges))
	for _, e := range edges {
		outs[e.From] = append(outs[e.From], e.To)
		ins[e.To] = append(ins[e.To], e.From)
	}

	for _, e := range edges {
		if o := outs[e.From]; len(o) >= 2 {
			if existing.add(m, mesh.Triangle{e.From, o[1], o[0]}) {
				return true
			}
		}
	}
	for _, e := range edges {
		if in := ins[e.To]; len(in) >= 2 {
			if existing.add(m, mesh.Triangle{e.To, in[0], in[1]}) {
				return true
			}
		}
	}
	return false
}
