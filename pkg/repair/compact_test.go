package repair

import (
	"testing"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
)

func TestCompactRemovesUnreferenced(t *testing.T) {
	// Vertices 1 and 3 are unreferenced.
	m := &mesh.Mesh{
		Vertices: []mesh.Point{
			{0, 0, 0}, {9, 9, 9}, {1, 0, 0}, {8, 8, 8}, {0, 1, 0},
		},
		Triangles: []mesh.Triangle{{0, 2, 4}},
	}

	Compact(m)

	want := []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if len(m.Vertices) != len(want) {
		t.Fatalf("vertices = %v, want %v", m.Vertices, want)
	}
	for i, v := range m.Vertices {
		if v != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, v, want[i])
		}
	}
	if m.Triangles[0] != (mesh.Triangle{0, 1, 2}) {
		t.Errorf("remapped triangle = %v, want {0 1 2}", m.Triangles[0])
	}
}

func TestCompactFullyReferencedUnchanged(t *testing.T) {
	m := &mesh.Mesh{
		Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Triangles: []mesh.Triangle{{0, 1, 2}},
	}
	Compact(m)

	if m.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", m.VertexCount())
	}
	if m.Triangles[0] != (mesh.Triangle{0, 1, 2}) {
		t.Errorf("triangle = %v, want {0 1 2}", m.Triangles[0])
	}
}

func TestCompactNoTrianglesDropsEverything(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []mesh.Point{{0, 0, 0}, {1, 0, 0}},
	}
	Compact(m)
	if m.VertexCount() != 0 {
		t.Errorf("vertex count = %d, want 0", m.VertexCount())
	}
}
