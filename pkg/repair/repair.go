// Package repair turns arbitrary indexed triangle soup into a 2-manifold
// surface: every edge shared by at most two faces, holes closed, duplicates
// and degeneracies removed. The pipeline is deterministic; two runs on
// identical input produce identical output.
package repair

import (
	"fmt"

	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/topology"
)

// Hole-fill convergence limits. The iteration cap bounds runtime on
// pathological boundary graphs; the stuck limit ends the loop once the
// boundary stops shrinking.
const (
	maxFillIterations = 10000
	stuckLimit        = 50
	progressEvery     = 100
)

// Report counts what a repair changed. Counters only grow during a run.
type Report struct {
	Merged           int `json:"merged"`
	NonManifoldFixed int `json:"nmFixed"`
	HolesFilled      int `json:"holesFilled"`
}

// Add accumulates another report into r.
func (r *Report) Add(o Report) {
	r.Merged += o.Merged
	r.NonManifoldFixed += o.NonManifoldFixed
	r.HolesFilled += o.HolesFilled
}

// Object is one named mesh in a batch repair.
type Object struct {
	ID   string
	Mesh *mesh.Mesh
}

// Result is the outcome of repairing one object, with the diagnoses taken
// before and after so callers can report improvement rather than just final
// state.
type Result struct {
	ID     string
	Mesh   *mesh.Mesh
	Report Report
	Before Diagnosis
	After  Diagnosis
}

// Repair runs the full pipeline on a copy of in and returns the repaired
// mesh together with a report of what changed. The input mesh is never
// mutated.
func Repair(in *mesh.Mesh, progress Progress) (*mesh.Mesh, Report) {
	m := in.Clone()
	var rep Report

	progress.status("welding")
	rep.Merged = Weld(m)

	progress.status("filtering")
	FilterTriangles(m)

	progress.status("fixing non-manifold")
	rep.NonManifoldFixed = ResolveNonManifold(m)

	progress.status("filling holes")
	fillHoles(m, &rep, progress)

	// Hole filling can create non-manifold edges when loops share vertices,
	// so resolve once more before compacting.
	progress.status("final check")
	rep.NonManifoldFixed += ResolveNonManifold(m)

	progress.status("compacting")
	Compact(m)

	return m, rep
}

// RepairMesh is a convenience wrapper: Repair followed by Diagnose of the
// result.
func RepairMesh(in *mesh.Mesh, progress Progress) (*mesh.Mesh, Report, Diagnosis) {
	m, rep := Repair(in, progress)
	return m, rep, Diagnose(m)
}

// RepairAll repairs each object in order and returns the per-object results
// plus the element-wise sum of their reports. Progress events carry the
// object's index and ID.
func RepairAll(objects []Object, progress Progress) ([]Result, Report) {
	results := make([]Result, 0, len(objects))
	var total Report

	for i, obj := range objects {
		progress.emit(Event{
			Kind: EventStart, Index: i, ObjectID: obj.ID, Total: len(objects),
			Status: fmt.Sprintf("repairing %s", obj.ID),
		})

		inner := func(e Event) {
			e.Index, e.ObjectID, e.Total = i, obj.ID, len(objects)
			progress.emit(e)
		}

		before := Diagnose(obj.Mesh)
		fixed, rep, after := RepairMesh(obj.Mesh, inner)
		total.Add(rep)

		results = append(results, Result{
			ID: obj.ID, Mesh: fixed, Report: rep, Before: before, After: after,
		})
		progress.emit(Event{
			Kind: EventDone, Index: i, ObjectID: obj.ID, Total: len(objects),
			Status: "done", Report: &rep, Diagnosis: &after,
		})
	}
	return results, total
}

// fillHoles drives the hole-filling convergence loop: extract the boundary,
// fill the single shortest loop, and re-extract, because each fill can
// change the boundary graph. A T-junction splice is attempted when no loop
// can be traced. The loop ends when the boundary is empty, when nothing can
// be filled, or when the boundary has not shrunk for more than stuckLimit
// consecutive iterations.
func fillHoles(m *mesh.Mesh, rep *Report, progress Progress) {
	prev := int(^uint(0) >> 1) // max int; the first iteration never counts as stuck
	stuck := 0

	for iter := 0; iter < maxFillIterations; iter++ {
		boundary := topology.BoundaryEdges(m.Triangles)
		if len(boundary) == 0 {
			return
		}

		if iter > 0 && iter%progressEvery == 0 {
			progress.status(fmt.Sprintf("filling holes: %d done, %d remaining",
				rep.HolesFilled, len(boundary)))
		}

		if len(boundary) >= prev {
			stuck++
			if stuck > stuckLimit {
				return
			}
		} else {
			stuck = 0
		}
		prev = len(boundary)

		// Fill one loop per iteration, shortest first, so the boundary is
		// re-extracted between fills. A loop whose fill would only
		// duplicate existing triangles is skipped in favour of the next.
		existing := makeTriangleSet(m.Triangles)
		filled := false
		for _, loop := range topology.FindLoops(boundary) {
			if fillLoop(m, loop, existing) {
				filled = true
				break
			}
		}
		if !filled {
			filled = fillTJunction(m, boundary, existing)
		}
		if !filled {
			return
		}
		rep.HolesFilled++
	}
}
