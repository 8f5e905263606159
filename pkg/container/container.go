// Package container adapts 3MF containers to the repair pipeline's mesh
// model. Ingest yields (vertices, triangles) per object plus the decoded
// model, which acts as the opaque passthrough token; emit writes repaired
// geometry back into that model so every other part of the container
// survives the round trip untouched.
package container

import (
	"fmt"

	"github.com/hpinc/go3mf"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/repair"
)

// Load opens a 3MF container and extracts every mesh-bearing object.
// The returned model is the passthrough token for Save.
func Load(path string) ([]repair.Object, *go3mf.Model, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	defer r.Close()

	model := new(go3mf.Model)
	if err := r.Decode(model); err != nil {
		return nil, nil, fmt.Errorf("container: decode %s: %w", path, err)
	}
	return FromModel(model), model, nil
}

// Save encodes a model to path. Callers apply repaired geometry with
// ApplyToModel first.
func Save(path string, model *go3mf.Model) error {
	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return fmt.Errorf("container: create %s: %w", path, err)
	}
	if err := w.Encode(model); err != nil {
		w.Close()
		return fmt.Errorf("container: encode %s: %w", path, err)
	}
	return w.Close()
}

// FromModel extracts repair objects from a decoded model. Objects without a
// mesh (component assemblies) are skipped; build components reference the
// repaired resources unchanged.
func FromModel(model *go3mf.Model) []repair.Object {
	var objects []repair.Object
	for _, res := range model.Resources.Objects {
		if res.Mesh == nil {
			continue
		}
		objects = append(objects, repair.Object{
			ID:   objectID(res),
			Mesh: fromMesh(res),
		})
	}
	return objects
}

// ApplyToModel writes repaired geometry back into the model's object
// resources, matched by object ID. Results for unknown IDs are an error;
// objects without a result pass through untouched.
func ApplyToModel(model *go3mf.Model, results []repair.Result) error {
	byID := make(map[string]*go3mf.Object, len(model.Resources.Objects))
	for _, res := range model.Resources.Objects {
		if res.Mesh != nil {
			byID[objectID(res)] = res
		}
	}

	for i := range results {
		r := &results[i]
		res, ok := byID[r.ID]
		if !ok {
			return fmt.Errorf("container: no object %q in model", r.ID)
		}
		res.Mesh.Vertices.Vertex = toVertices(r.Mesh)
		res.Mesh.Triangles.Triangle = toTriangles(r.Mesh)
	}
	return nil
}

// NewModel builds a minimal millimetre-unit model with one object resource
// and one build item per mesh. Used when there is no ingested container to
// pass through, e.g. for generated geometry.
func NewModel(objects []repair.Object) *go3mf.Model {
	model := new(go3mf.Model)
	model.Units = go3mf.UnitMillimeter

	for i, obj := range objects {
		id := uint32(i + 1)
		model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
			ID:   id,
			Name: obj.ID,
			Mesh: &go3mf.Mesh{
				Vertices:  go3mf.Vertices{Vertex: toVertices(obj.Mesh)},
				Triangles: go3mf.Triangles{Triangle: toTriangles(obj.Mesh)},
			},
		})
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: id})
	}
	return model
}

// objectID names an object for progress and matching: the 3MF name when
// present, otherwise a stable synthetic ID from the resource number.
func objectID(o *go3mf.Object) string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("object-%d", o.ID)
}

func fromMesh(o *go3mf.Object) *mesh.Mesh {
	m := &mesh.Mesh{
		Name:      objectID(o),
		Vertices:  make([]mesh.Point, 0, len(o.Mesh.Vertices.Vertex)),
		Triangles: make([]mesh.Triangle, 0, len(o.Mesh.Triangles.Triangle)),
	}
	for _, v := range o.Mesh.Vertices.Vertex {
		m.Vertices = append(m.Vertices, mesh.Point{
			float64(v.X()), float64(v.Y()), float64(v.Z()),
		})
	}
	for _, t := range o.Mesh.Triangles.Triangle {
		m.Triangles = append(m.Triangles, mesh.Triangle{t.V1, t.V2, t.V3})
	}
	return m
}

func toVertices(m *mesh.Mesh) []go3mf.Point3D {
	out := make([]go3mf.Point3D, 0, len(m.Vertices))
	for _, v := range m.Vertices {
		out = append(out, go3mf.Point3D{
			float32(v[0]), float32(v[1]), float32(v[2]),
		})
	}
	return out
}

func toTriangles(m *mesh.Mesh) []go3mf.Triangle {
	out := make([]go3mf.Triangle, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		out = append(out, go3mf.Triangle{V1: t[0], V2: t[1], V3: t[2]})
	}
	return out
}
