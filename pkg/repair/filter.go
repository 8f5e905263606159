package repair

import "github.com/hololocheck/MeshFixLib/pkg/mesh"

// FilterTriangles drops degenerate triangles (a repeated vertex index) and
// duplicate triangles (the same unordered vertex set), keeping the first
// occurrence of each unordered triple. Runs after welding so that
// coincident-but-differently-indexed faces are recognised as duplicates.
// Returns the number of triangles dropped.
func FilterTriangles(m *mesh.Mesh) int {
	seen := make(map[mesh.Triangle]struct{}, len(m.Triangles))
	kept := m.Triangles[:0]

	for _, t := range m.Triangles {
		if t.Degenerate() {
			continue
		}
		key := t.Canonical()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, t)
	}

	dropped := len(m.Triangles) - len(kept)
	m.Triangles = kept
	return dropped
}
