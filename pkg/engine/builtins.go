package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/hololocheck/MeshFixLib/pkg/container"
	"github.com/hololocheck/MeshFixLib/pkg/mesh"
	"github.com/hololocheck/MeshFixLib/pkg/repair"
	"github.com/hololocheck/MeshFixLib/pkg/source"
)

// ---------------------------------------------------------------------------
// Script preprocessing
// ---------------------------------------------------------------------------

// preprocessScript transforms repair script source before passing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal), so
//     builtins can take named arguments without registering keyword symbols
//     as globals.
//  2. ; line comments become // comments, which is what zygomys expects.
//
// Both transformations respect string literal boundaries.
func preprocessScript(src string) string {
	result := make([]byte, 0, len(src)+len(src)/4)
	b := []byte(src)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword", preserving := assignment.
		if b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpMesh wraps a *mesh.Mesh so it can be passed between builtins.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %q %d vertices %d triangles)",
		s.m.Name, s.m.VertexCount(), s.m.TriangleCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessScript.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp, rejecting preprocessed keywords.
func toString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || strings.HasPrefix(str.S, kwPrefix) {
		return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
	}
	return str.S, nil
}

// toMesh extracts the wrapped mesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// kwFloat reads a named numeric argument with a default.
func (a kwArgs) kwFloat(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the repair DSL into a zygomys environment.
// Scripts must be preprocessed with preprocessScript() first so that
// :keyword tokens are recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, gen source.Generator) {

	// soup tessellates a solid and wraps the result.
	soup := func(s source.Solid, name string) (zygo.Sexp, error) {
		m, err := gen.Soup(s, name)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMesh{m: m}, nil
	}

	// -----------------------------------------------------------------------
	// (box :x 40 :y 20 :z 10)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		x, err := pa.kwFloat("x", 10)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		y, err := pa.kwFloat("y", 10)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		z, err := pa.kwFloat("z", 10)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return soup(gen.Box(x, y, z), "box")
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 20 :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.kwFloat("height", 10)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		r, err := pa.kwFloat("radius", 5)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return soup(gen.Cylinder(h, r), "cylinder")
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.kwFloat("radius", 5)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return soup(gen.Sphere(r), "sphere")
	})

	// -----------------------------------------------------------------------
	// (load "broken.3mf") -> array of meshes
	// -----------------------------------------------------------------------
	env.AddFunction("load", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load requires a path")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load: path: %w", err)
		}
		objects, _, err := container.Load(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load: %w", err)
		}
		meshes := make([]zygo.Sexp, 0, len(objects))
		for _, obj := range objects {
			meshes = append(meshes, &sexpMesh{m: obj.Mesh})
		}
		return env.NewSexpArray(meshes), nil
	})

	// -----------------------------------------------------------------------
	// (repair m) -> repaired mesh
	// -----------------------------------------------------------------------
	env.AddFunction("repair", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("repair requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("repair: %w", err)
		}
		fixed, _ := repair.Repair(m, nil)
		return &sexpMesh{m: fixed}, nil
	})

	// -----------------------------------------------------------------------
	// (diagnose m) -> health summary string
	// -----------------------------------------------------------------------
	env.AddFunction("diagnose", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("diagnose requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("diagnose: %w", err)
		}
		return &zygo.SexpStr{S: repair.Diagnose(m).String()}, nil
	})

	// -----------------------------------------------------------------------
	// (save "fixed.3mf" m1 m2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("save", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("save requires a path and at least one mesh")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save: path: %w", err)
		}
		var objects []repair.Object
		for i, arg := range args[1:] {
			m, err := toMesh(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("save: mesh %d: %w", i+1, err)
			}
			id := m.Name
			if id == "" {
				id = fmt.Sprintf("mesh-%d", i+1)
			}
			objects = append(objects, repair.Object{ID: id, Mesh: m})
		}
		if err := container.Save(path, container.NewModel(objects)); err != nil {
			return zygo.SexpNull, fmt.Errorf("save: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
