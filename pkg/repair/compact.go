package repair

import "github.com/hololocheck/MeshFixLib/pkg/mesh"

// Compact removes vertices no triangle references and renumbers the rest,
// preserving their original relative order. After compaction every index in
// [0, len(Vertices)) is referenced at least once.
func Compact(m *mesh.Mesh) {
	referenced := make([]bool, len(m.Vertices))
	for _, t := range m.Triangles {
		referenced[t[0]] = true
		referenced[t[1]] = true
		referenced[t[2]] = true
	}

	remap := make([]uint32, len(m.Vertices))
	kept := m.Vertices[:0]
	for i, v := range m.Vertices {
		if !referenced[i] {
			continue
		}
		remap[i] = uint32(len(kept))
		kept = append(kept, v)
	}
	m.Vertices = kept

	for i, t := range m.Triangles {
		m.Triangles[i] = mesh.Triangle{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
}
