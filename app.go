package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hololocheck/MeshFixLib/pkg/container"
	"github.com/hololocheck/MeshFixLib/pkg/engine"
	"github.com/hololocheck/MeshFixLib/pkg/repair"
	"github.com/hololocheck/MeshFixLib/pkg/source"
	"github.com/hololocheck/MeshFixLib/pkg/source/sdfx"
)

// App wires the repair pipeline to its collaborators: the 3MF container
// adapters, the procedural source, and the scripting engine.
type App struct {
	gen    source.Generator
	engine *engine.Engine
	quiet  bool
}

// NewApp creates an App with the sdfx source backend.
func NewApp(quiet bool) *App {
	gen := sdfx.New()
	return &App{
		gen:    gen,
		engine: engine.NewEngine(gen),
		quiet:  quiet,
	}
}

// progress returns the progress sink for batch repairs: log lines, or nil
// when quiet. The repair driver behaves identically either way.
func (a *App) progress() repair.Progress {
	if a.quiet {
		return nil
	}
	return func(e repair.Event) {
		switch e.Kind {
		case repair.EventStart:
			log.Printf("[%d/%d] %s", e.Index+1, e.Total, e.Status)
		case repair.EventDone:
			log.Printf("[%d/%d] %s: %s", e.Index+1, e.Total, e.ObjectID, e.Diagnosis)
		default:
			log.Printf("[%d/%d] %s: %s", e.Index+1, e.Total, e.ObjectID, e.Status)
		}
	}
}

// RepairFile repairs every object in a 3MF container and writes the result,
// passing all non-geometry content through unchanged.
func (a *App) RepairFile(in, out string) error {
	objects, model, err := container.Load(in)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return fmt.Errorf("%s contains no mesh objects", in)
	}

	results, total := repair.RepairAll(objects, a.progress())
	if err := container.ApplyToModel(model, results); err != nil {
		return err
	}
	if err := container.Save(out, model); err != nil {
		return err
	}

	log.Printf("%s: %d merged, %d non-manifold removed, %d holes filled -> %s",
		in, total.Merged, total.NonManifoldFixed, total.HolesFilled, out)
	return nil
}

// DiagnoseFile prints a per-object health table for a 3MF container.
func (a *App) DiagnoseFile(in string) error {
	objects, _, err := container.Load(in)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return fmt.Errorf("%s contains no mesh objects", in)
	}

	for _, obj := range objects {
		fmt.Printf("%-24s %s\n", obj.ID, repair.Diagnose(obj.Mesh))
	}
	return nil
}

// Generate tessellates a primitive, optionally repairs the soup, and writes
// a fresh 3MF container.
func (a *App) Generate(shape string, dims []float64, fix bool, out string) error {
	var solid source.Solid
	switch shape {
	case "box":
		if len(dims) != 3 {
			return fmt.Errorf("box needs 3 dimensions, got %d", len(dims))
		}
		solid = a.gen.Box(dims[0], dims[1], dims[2])
	case "cylinder":
		if len(dims) != 2 {
			return fmt.Errorf("cylinder needs height and radius, got %d values", len(dims))
		}
		solid = a.gen.Cylinder(dims[0], dims[1])
	case "sphere":
		if len(dims) != 1 {
			return fmt.Errorf("sphere needs a radius, got %d values", len(dims))
		}
		solid = a.gen.Sphere(dims[0])
	default:
		return fmt.Errorf("unknown shape %q, expected box, cylinder, or sphere", shape)
	}

	m, err := a.gen.Soup(solid, shape)
	if err != nil {
		return err
	}
	log.Printf("tessellated %s: %d vertices, %d triangles (soup)",
		shape, m.VertexCount(), m.TriangleCount())

	if fix {
		fixed, rep, diag := repair.RepairMesh(m, nil)
		log.Printf("repaired: %d merged, %d holes filled; %s",
			rep.Merged, rep.HolesFilled, diag)
		m = fixed
	}

	model := container.NewModel([]repair.Object{{ID: shape, Mesh: m}})
	return container.Save(out, model)
}

// RunScript evaluates a repair script with the engine's timeout guard.
func (a *App) RunScript(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, evalErrs, err := a.engine.Evaluate(string(src))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, 0, len(evalErrs))
		for _, e := range evalErrs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("script errors:\n  %s", strings.Join(msgs, "\n  "))
	}
	if out != "" {
		fmt.Println(out)
	}
	return nil
}
