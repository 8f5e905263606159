package topology

import "github.com/hololocheck/MeshFixLib/pkg/mesh"

// BoundaryEdges returns the directed boundary half-edges of a triangle list:
// every edge contained in exactly one triangle, oriented as it appears in
// that triangle's winding. The result is ordered by owning triangle, so it
// is a pure function of the input ordering.
func BoundaryEdges(tris []mesh.Triangle) []HalfEdge {
	inc := IncidenceOf(tris)

	var edges []HalfEdge
	for _, t := range tris {
		for j := 0; j < 3; j++ {
			a, b := t[j], t[(j+1)%3]
			if len(inc[MakeEdgeKey(a, b)]) == 1 {
				edges = append(edges, HalfEdge{From: a, To: b})
			}
		}
	}
	return edges
}
