package repair

import (
	"math"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
)

// weldScale quantises coordinates to a 1 micrometre grid for millimetre-unit
// data. Two positions weld iff all three rounded coordinates agree.
const weldScale = 1e6

// quantKey is the welding hash key: the three coordinates rounded
// half-away-from-zero at weldScale.
type quantKey [3]int64

func quantize(p mesh.Point) quantKey {
	return quantKey{
		int64(math.Round(p[0] * weldScale)),
		int64(math.Round(p[1] * weldScale)),
		int64(math.Round(p[2] * weldScale)),
	}
}

// Weld collapses spatially coincident vertices onto the first-seen
// representative and rewrites triangle indices in place. The surviving
// vertices keep their original relative order. Returns the number of
// vertices merged away.
//
// Triangles that become degenerate because two of their corners welded
// together are left in place; the filter stage removes them.
func Weld(m *mesh.Mesh) int {
	if len(m.Vertices) == 0 {
		return 0
	}

	seen := make(map[quantKey]uint32, len(m.Vertices))
	remap := make([]uint32, len(m.Vertices))
	kept := m.Vertices[:0]

	for i, v := range m.Vertices {
		k := quantize(v)
		if rep, ok := seen[k]; ok {
			remap[i] = rep
			continue
		}
		rep := uint32(len(kept))
		kept = append(kept, v)
		seen[k] = rep
		remap[i] = rep
	}

	merged := len(m.Vertices) - len(kept)
	m.Vertices = kept

	for i, t := range m.Triangles {
		m.Triangles[i] = mesh.Triangle{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
	return merged
}
