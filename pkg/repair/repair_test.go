package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/topology"
)

// tetrahedron returns a trivially watertight mesh.
func tetrahedron() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Triangles: []mesh.Triangle{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}},
	}
}

// openCube returns a unit cube missing its top face: a manifold frame with
// one square hole bounded by vertices 4, 5, 6, 7.
func openCube() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []mesh.Point{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Triangles: []mesh.Triangle{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{0, 1, 5}, {0, 5, 4}, // front
			{1, 2, 6}, {1, 6, 5}, // right
			{2, 3, 7}, {2, 7, 6}, // back
			{3, 0, 4}, {3, 4, 7}, // left
		},
	}
}

// checkExitInvariants asserts the pipeline's exit contract: indices in
// range, no degenerate or duplicate triangles, edge incidence at most two,
// and every vertex referenced.
func checkExitInvariants(t *testing.T, m *mesh.Mesh) {
	t.Helper()

	seen := make(map[mesh.Triangle]struct{}, len(m.Triangles))
	referenced := make([]bool, len(m.Vertices))
	for _, tr := range m.Triangles {
		for _, idx := range tr {
			require.Less(t, int(idx), len(m.Vertices), "index out of range in %v", tr)
			referenced[idx] = true
		}
		require.False(t, tr.Degenerate(), "degenerate triangle %v survived", tr)

		key := tr.Canonical()
		_, dup := seen[key]
		require.False(t, dup, "duplicate triangle %v survived", tr)
		seen[key] = struct{}{}
	}

	for _, tris := range topology.IncidenceOf(m.Triangles) {
		require.LessOrEqual(t, len(tris), 2, "non-manifold edge survived")
	}
	for i, ref := range referenced {
		require.True(t, ref, "vertex %d unreferenced after compaction", i)
	}
}

func TestRepairWatertightTetrahedronUnchanged(t *testing.T) {
	in := tetrahedron()
	out, rep := Repair(in, nil)

	require.Equal(t, Report{}, rep)
	require.Equal(t, in.Vertices, out.Vertices)
	require.Equal(t, in.Triangles, out.Triangles)
	assert.True(t, Diagnose(out).Watertight)
	checkExitInvariants(t, out)
}

func TestRepairCoincidentDuplicateVertex(t *testing.T) {
	// Vertex 3 coincides with vertex 0; the second triangle is the first
	// in disguise.
	in := &mesh.Mesh{
		Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}},
		Triangles: []mesh.Triangle{{0, 1, 2}, {3, 1, 2}},
	}
	out, rep := Repair(in, nil)

	assert.Equal(t, 1, rep.Merged)
	assert.Equal(t, 3, out.VertexCount())
	assert.Equal(t, 1, out.TriangleCount())
	checkExitInvariants(t, out)
}

func TestRepairDegenerateTriangleFiltered(t *testing.T) {
	in := &mesh.Mesh{
		Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Triangles: []mesh.Triangle{{0, 1, 1}, {0, 1, 2}},
	}
	out, _ := Repair(in, nil)

	assert.Equal(t, 1, out.TriangleCount())
	checkExitInvariants(t, out)
}

func TestRepairNonManifoldFin(t *testing.T) {
	in := &mesh.Mesh{
		Vertices: []mesh.Point{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1},
		},
		Triangles: []mesh.Triangle{{0, 1, 2}, {0, 1, 3}, {0, 1, 4}},
	}
	out, rep := Repair(in, nil)

	assert.Equal(t, 1, rep.NonManifoldFixed)
	checkExitInvariants(t, out)
}

func TestRepairEmptyMesh(t *testing.T) {
	out, rep := Repair(&mesh.Mesh{
		Vertices: []mesh.Point{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	}, nil)

	// With no triangles there is no boundary to extract; the compactor
	// then drops every unreferenced vertex.
	require.Equal(t, Report{}, rep)
	assert.Zero(t, out.VertexCount())
	assert.Zero(t, out.TriangleCount())
}

func TestRepairFillsSquareHole(t *testing.T) {
	in := openCube()
	out, rep, diag := RepairMesh(in, nil)

	assert.Equal(t, 1, rep.HolesFilled)
	// One centroid vertex and four fan triangles close the hole.
	assert.Equal(t, 9, out.VertexCount())
	assert.Equal(t, 14, out.TriangleCount())
	assert.Equal(t, 0, diag.BoundaryEdges)
	assert.True(t, diag.Watertight)
	checkExitInvariants(t, out)
}

func TestRepairCentroidOfFilledHole(t *testing.T) {
	out, _ := Repair(openCube(), nil)
	require.Equal(t, 9, out.VertexCount())
	assert.Equal(t, mesh.Point{0.5, 0.5, 1}, out.Vertices[8])
}

func TestRepairUnfillableBoundaryTerminates(t *testing.T) {
	// A disk whose rim is longer than the loop finder's path cap: no loop
	// can be traced and no T-junction exists, so the driver must stop with
	// the boundary intact rather than loop or fail.
	const n = 310
	in := &mesh.Mesh{}
	for i := 0; i < n; i++ {
		in.Vertices = append(in.Vertices, mesh.Point{float64(i), float64(i % 7), 0})
	}
	in.Vertices = append(in.Vertices, mesh.Point{0, 0, 5}) // apex
	for i := 0; i < n; i++ {
		in.Triangles = append(in.Triangles, mesh.Triangle{uint32(i), uint32((i + 1) % n), n})
	}

	out, rep := Repair(in, nil)

	assert.Zero(t, rep.HolesFilled)
	assert.Greater(t, Diagnose(out).BoundaryEdges, 0)
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	in := &mesh.Mesh{
		Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}},
		Triangles: []mesh.Triangle{{0, 1, 2}, {3, 1, 2}},
	}
	snapshot := in.Clone()

	Repair(in, nil)

	require.Equal(t, snapshot.Vertices, in.Vertices)
	require.Equal(t, snapshot.Triangles, in.Triangles)
}

func TestRepairDeterministic(t *testing.T) {
	inputs := []*mesh.Mesh{
		tetrahedron(),
		openCube(),
		{
			Vertices: []mesh.Point{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, 0},
			},
			Triangles: []mesh.Triangle{{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {5, 1, 2}},
		},
	}
	for _, in := range inputs {
		a, repA := Repair(in, nil)
		b, repB := Repair(in, nil)

		require.Equal(t, repA, repB)
		require.Equal(t, a.Vertices, b.Vertices)
		require.Equal(t, a.Triangles, b.Triangles)
	}
}

func TestRepairMeshConvenience(t *testing.T) {
	out, rep, diag := RepairMesh(openCube(), nil)

	direct, directRep := Repair(openCube(), nil)
	assert.Equal(t, directRep, rep)
	assert.Equal(t, direct.Triangles, out.Triangles)
	assert.Equal(t, Diagnose(direct), diag)
}

func TestRepairAllSumsReports(t *testing.T) {
	objects := []Object{
		{ID: "cube", Mesh: openCube()},
		{ID: "dupe", Mesh: &mesh.Mesh{
			Vertices:  []mesh.Point{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}},
			Triangles: []mesh.Triangle{{0, 1, 2}, {3, 1, 2}},
		}},
	}
	results, total := RepairAll(objects, nil)

	require.Len(t, results, 2)

	var sum Report
	for _, r := range results {
		sum.Add(r.Report)
	}
	assert.Equal(t, sum, total)
	assert.Equal(t, 1, total.HolesFilled)
	assert.Equal(t, 1, total.Merged)

	assert.Equal(t, "cube", results[0].ID)
	assert.False(t, results[0].Before.Watertight)
	assert.True(t, results[0].After.Watertight)
}

func TestRepairAllProgressEvents(t *testing.T) {
	var events []Event
	sink := func(e Event) { events = append(events, e) }

	RepairAll([]Object{{ID: "cube", Mesh: openCube()}}, sink)

	require.NotEmpty(t, events)
	first, last := events[0], events[len(events)-1]

	assert.Equal(t, EventStart, first.Kind)
	assert.Equal(t, "cube", first.ObjectID)
	assert.Equal(t, 1, first.Total)

	assert.Equal(t, EventDone, last.Kind)
	require.NotNil(t, last.Report)
	require.NotNil(t, last.Diagnosis)
	assert.True(t, last.Diagnosis.Watertight)

	// Stage tokens from the per-object driver are forwarded in between.
	var sawStage bool
	for _, e := range events[1 : len(events)-1] {
		if e.Kind == EventProgress && e.Status == "welding" {
			sawStage = true
		}
		assert.Equal(t, "cube", e.ObjectID)
	}
	assert.True(t, sawStage, "expected forwarded stage tokens")
}

func TestReportAdd(t *testing.T) {
	r := Report{Merged: 1, NonManifoldFixed: 2, HolesFilled: 3}
	r.Add(Report{Merged: 10, NonManifoldFixed: 20, HolesFilled: 30})
	assert.Equal(t, Report{Merged: 11, NonManifoldFixed: 22, HolesFilled: 33}, r)
}
