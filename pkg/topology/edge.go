// Package topology provides the edge-level primitives the repair pipeline is
// built on: canonical undirected edge keys, directed half-edges, per-pass
// edge incidence maps, and boundary loop discovery. All structures here are
// derived from the current triangle list and rebuilt per pass; nothing is
// maintained incrementally.
package topology

import "github.com/hololocheck/MeshFixLib/pkg/mesh"

// EdgeKey is the canonical key for an undirected edge: the unordered vertex
// pair stored as (min, max).
type EdgeKey struct {
	Lo, Hi uint32
}

// MakeEdgeKey builds the canonical key for the edge between a and b.
func MakeEdgeKey(a, b uint32) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{Lo: a, Hi: b}
}

// HalfEdge is a directed edge From→To, oriented by the triangle that
// contains it in that order.
type HalfEdge struct {
	From, To uint32
}

// Key returns the undirected projection of the half-edge.
func (h HalfEdge) Key() EdgeKey {
	return MakeEdgeKey(h.From, h.To)
}

// EdgeIncidence maps each undirected edge to the indices of the triangles
// that contain it, in ascending triangle order.
type EdgeIncidence map[EdgeKey][]int

// IncidenceOf builds the edge incidence map for a triangle list.
func IncidenceOf(tris []mesh.Triangle) EdgeIncidence {
	inc := make(EdgeIncidence, len(tris)*3/2)
	for i, t := range tris {
		for j := 0; j < 3; j++ {
			k := MakeEdgeKey(t[j], t[(j+1)%3])
			inc[k] = append(inc[k], i)
		}
	}
	return inc
}

// Counts returns the number of boundary edges (incidence exactly 1) and
// non-manifold edges (incidence greater than 2).
func (inc EdgeIncidence) Counts() (boundary, nonManifold int) {
	for _, tris := range inc {
		switch {
		case len(tris) == 1:
			boundary++
		case len(tris) > 2:
			nonManifold++
		}
	}
	return boundary, nonManifold
}
