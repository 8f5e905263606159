package repair

import (
	"fmt"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/topology"
)

// Diagnosis measures the topological health of a mesh.
type Diagnosis struct {
	VertexCount      int  `json:"vertexCount"`
	TriangleCount    int  `json:"triangleCount"`
	BoundaryEdges    int  `json:"boundaryEdges"`
	NonManifoldEdges int  `json:"nonManifoldEdges"`
	Watertight       bool `json:"watertight"`
}

// String renders the diagnosis in a single human-readable line.
func (d Diagnosis) String() string {
	state := "NOT watertight"
	if d.Watertight {
		state = "watertight"
	}
	return fmt.Sprintf("%d vertices, %d triangles, %d boundary edges, %d non-manifold edges: %s",
		d.VertexCount, d.TriangleCount, d.BoundaryEdges, d.NonManifoldEdges, state)
}

// Diagnose reports the mesh's topological health. It never mutates the mesh.
// A mesh is watertight when it has no boundary edges and no non-manifold
// edges.
func Diagnose(m *mesh.Mesh) Diagnosis {
	boundary, nonManifold := topology.IncidenceOf(m.Triangles).Counts()
	return Diagnosis{
		VertexCount:      m.VertexCount(),
		TriangleCount:    m.TriangleCount(),
		BoundaryEdges:    boundary,
		NonManifoldEdges: nonManifold,
		Watertight:       boundary == 0 && nonManifold == 0,
	}
}
