package topology

import "sort"

// maxLoopPath bounds the DFS search path, in vertices, while tracing a
// single loop. Boundaries longer than this are left to the T-junction
// fallback in the repair driver.
const maxLoopPath = 300

// outEdge is one entry in the boundary adjacency map: the half-edge's target
// vertex plus its index into the input edge list.
type outEdge struct {
	to  uint32
	idx int
}

// FindLoops discovers simple directed cycles in a set of boundary
// half-edges. Each half-edge is consumed by at most one loop. The result is
// sorted shortest loop first; closing small pockets before disturbing larger
// boundaries converges faster.
//
// This is a heuristic, not a complete cycle decomposition: an edge taken on
// a branch that dead-ends stays consumed, so complex boundary graphs can
// strand half-edges. The repair driver compensates with its T-junction
// fallback and stuck detector.
func FindLoops(edges []HalfEdge) [][]uint32 {
	out := make(map[uint32][]outEdge, len(edges))
	for i, e := range edges {
		out[e.From] = append(out[e.From], outEdge{to: e.To, idx: i})
	}

	used := make([]bool, len(edges))
	var loops [][]uint32
	for i, e := range edges {
		if used[i] {
			continue
		}
		used[i] = true
		if loop := traceLoop(e, out, used); loop != nil {
			loops = append(loops, loop)
		}
	}

	sort.SliceStable(loops, func(a, b int) bool {
		return len(loops[a]) < len(loops[b])
	})
	return loops
}

// frame is one level of the explicit DFS stack: a vertex and the cursor into
// its outgoing edge list.
type frame struct {
	v    uint32
	next int
}

// traceLoop searches depth-first from the seed half-edge's target for a path
// back to its source. The first cycle of length >= 3 is returned as the
// ordered vertex sequence of the loop, or nil if none is reachable. Edges
// are marked used as they are taken and never unmarked.
func traceLoop(seed HalfEdge, out map[uint32][]outEdge, used []bool) []uint32 {
	start := seed.From
	path := []uint32{seed.From, seed.To}
	stack := []frame{{v: seed.To}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		outs := out[f.v]

		advanced := false
		for f.next < len(outs) {
			cand := outs[f.next]
			f.next++
			if used[cand.idx] {
				continue
			}
			used[cand.idx] = true

			if cand.to == start {
				// A 2-cycle (a->b, b->a) is not a fillable loop; its
				// edges stay consumed and the search continues.
				if len(path) < 3 {
					continue
				}
				loop := make([]uint32, len(path))
				copy(loop, path)
				return loop
			}
			if len(path) >= maxLoopPath {
				continue
			}
			path = append(path, cand.to)
			stack = append(stack, frame{v: cand.to})
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}
	return nil
}
