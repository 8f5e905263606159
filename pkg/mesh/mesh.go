// Package mesh defines the core triangle mesh data model shared by the
// repair pipeline, the container adapters, and the procedural sources.
package mesh

// Point is a position in 3D space, in millimetres.
type Point [3]float64

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{p[0] + q[0], p[1] + q[1], p[2] + q[2]}
}

// Scale returns the point with every component multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{p[0] * s, p[1] * s, p[2] * s}
}

// Triangle is an ordered triple of vertex indices. Winding is informational:
// the repair stages preserve it where possible but do not enforce global
// consistency.
type Triangle [3]uint32

// Degenerate reports whether the triangle repeats a vertex index.
func (t Triangle) Degenerate() bool {
	return t[0] == t[1] || t[1] == t[2] || t[0] == t[2]
}

// Canonical returns the triangle's indices in ascending order. Two triangles
// are duplicates iff their canonical forms are equal.
func (t Triangle) Canonical() Triangle {
	a, b, c := t[0], t[1], t[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return Triangle{a, b, c}
}

// Mesh is an indexed triangle mesh. Vertices have no identity beyond their
// position in the vertex slice.
type Mesh struct {
	Name      string
	Vertices  []Point
	Triangles []Triangle
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Clone returns a deep copy. Repairing a clone never mutates the original.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Point, len(m.Vertices)),
		Triangles: make([]Triangle, len(m.Triangles)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Triangles, m.Triangles)
	return c
}
