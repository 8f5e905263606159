// Package source defines the abstract procedural mesh source interface.
// Implementations (sdfx) produce triangle soup from solid descriptions;
// the soup is expected to carry duplicated vertices and is meant to be fed
// through the repair pipeline. The abstraction allows swapping tessellation
// backends without changing the rest of the system.
package source

import "github.com/hololocheck/MeshFixLib/pkg/mesh"

// Solid is an opaque handle to a source's solid representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Generator builds solids and tessellates them into triangle soup.
type Generator interface {
	// Primitives, centered at the origin.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Soup tessellates the solid into an indexed triangle soup. The result
	// is not welded or otherwise cleaned; run it through the repair
	// pipeline before slicing.
	Soup(s Solid, name string) (*mesh.Mesh, error)
}
