// Package sdfx implements the source.Generator interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Marching cubes emits three
// fresh corner vertices per triangle, so the soup it produces is exactly
// the duplicated-vertex input the vertex welder exists for.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/source"
)

// Compile-time interface check.
var _ source.Generator = (*Backend)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement source.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Backend implements source.Generator using sdfx.
type Backend struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int
}

// New returns a Backend at the default resolution.
func New() *Backend {
	return &Backend{Cells: defaultMeshCells}
}

// unwrap extracts the underlying sdf.SDF3 from a source.Solid.
func unwrap(s source.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a source.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) source.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions, centered at the origin.
func (b *Backend) Box(x, y, z float64) source.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder along the Z axis, centered at the origin.
func (b *Backend) Cylinder(height, radius float64) source.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere centered at the origin.
func (b *Backend) Sphere(radius float64) source.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (b *Backend) Union(a, c source.Solid) source.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(c)))
}

// Difference returns the difference a - c.
func (b *Backend) Difference(a, c source.Solid) source.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(c)))
}

// Translate moves a solid by (x, y, z).
func (b *Backend) Translate(s source.Solid, x, y, z float64) source.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Soup tessellates a solid with marching cubes. Every triangle contributes
// three fresh vertices; welding and manifold cleanup are the repair
// pipeline's job.
func (b *Backend) Soup(s source.Solid, name string) (*mesh.Mesh, error) {
	cells := b.Cells
	if cells <= 0 {
		cells = defaultMeshCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(unwrap(s), renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: tessellation of %q produced no triangles", name)
	}

	m := &mesh.Mesh{
		Name:      name,
		Vertices:  make([]mesh.Point, 0, len(triangles)*3),
		Triangles: make([]mesh.Triangle, 0, len(triangles)),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, mesh.Point{v.X, v.Y, v.Z})
		}
		base := uint32(i * 3)
		m.Triangles = append(m.Triangles, mesh.Triangle{base, base + 1, base + 2})
	}
	return m, nil
}
