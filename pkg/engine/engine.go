// Package engine provides the scripting surface for batch mesh repair.
// It wraps zygomys in a sandboxed environment with builtins for loading,
// generating, repairing, diagnosing, and saving meshes, so repair jobs can
// be described as small Lisp scripts.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/hololocheck/MeshFixLib/pkg/source"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in script code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for repair scripting. It is safe for
// concurrent use; each call to Evaluate creates a fresh sandboxed
// environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	gen        source.Generator
}

// NewEngine creates an Engine whose primitive builtins tessellate through
// the given generator.
func NewEngine(gen source.Generator) *Engine {
	return &Engine{gen: gen}
}

// Evaluate runs a repair script and returns the printed form of its final
// expression.
//
// Return semantics:
//   - On success: result string + nil errors + nil error
//   - On parse/eval failure: "" + eval errors + nil error
//   - On fatal failure (timeout, panic): "" + nil + error
func (e *Engine) Evaluate(script string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		out, evalErrs, err := e.evaluate(script)
		ch <- evalResult{out: out, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(script string) (string, []EvalError, error) {
	// An empty script is a valid program that does nothing.
	if strings.TrimSpace(script) == "" {
		return "", nil, nil
	}

	// Sandbox mode keeps script code away from the filesystem and syscalls;
	// only the registered builtins touch the outside world.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.gen)

	if err := env.LoadString(preprocessScript(script)); err != nil {
		return "", parseZygomysError(err), nil
	}

	result, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}
	if result == nil {
		return "", nil, nil
	}
	return result.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message when present.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
