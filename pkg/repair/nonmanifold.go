package repair

import (
	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/topology"
)

// maxNonManifoldPasses caps the resolver's delete-and-rebuild loop. Deleting
// a triangle cannot create new non-manifoldness, so one pass normally
// suffices; the cap guards against a pathology that would otherwise spin.
const maxNonManifoldPasses = 100

// ResolveNonManifold deletes excess triangles on every edge incident to more
// than two faces, keeping the first two by current array position, and
// repeats until no such edge remains or the pass cap is reached. Returns the
// cumulative number of triangles deleted.
func ResolveNonManifold(m *mesh.Mesh) int {
	fixed := 0

	for pass := 0; pass < maxNonManifoldPasses; pass++ {
		inc := topology.IncidenceOf(m.Triangles)

		doomed := make(map[int]struct{})
		for _, tris := range inc {
			if len(tris) <= 2 {
				continue
			}
			// IncidenceOf lists triangles in ascending array order, so
			// tris[2:] is exactly "all but the first two".
			for _, ti := range tris[2:] {
				doomed[ti] = struct{}{}
			}
		}
		if len(doomed) == 0 {
			break
		}

		kept := m.Triangles[:0]
		for i, t := range m.Triangles {
			if _, dead := doomed[i]; dead {
				continue
			}
			kept = append(kept, t)
		}
		fixed += len(m.Triangles) - len(kept)
		m.Triangles = kept
	}
	return fixed
}
