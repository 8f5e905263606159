// meshfix repairs triangle-mesh geometry in 3MF containers so that
// procedurally generated models become watertight and safe to slice.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const usage = `usage: meshfix <command> [flags]

commands:
  repair   -in broken.3mf -out fixed.3mf    repair every object in a container
  diagnose -in model.3mf                    print per-object topological health
  gen      -shape box -dims 40x20x10 -out box.3mf [-fix]
                                            tessellate a primitive to a container
  script   job.zy                           run a repair script
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("meshfix: %v", err)
	}
}

func run(command string, args []string) error {
	switch command {
	case "repair":
		fs := flag.NewFlagSet("repair", flag.ExitOnError)
		in := fs.String("in", "", "input 3MF path")
		out := fs.String("out", "", "output 3MF path")
		quiet := fs.Bool("quiet", false, "suppress progress output")
		fs.Parse(args)
		if *in == "" || *out == "" {
			return fmt.Errorf("repair requires -in and -out")
		}
		return NewApp(*quiet).RepairFile(*in, *out)

	case "diagnose":
		fs := flag.NewFlagSet("diagnose", flag.ExitOnError)
		in := fs.String("in", "", "input 3MF path")
		fs.Parse(args)
		if *in == "" {
			return fmt.Errorf("diagnose requires -in")
		}
		return NewApp(true).DiagnoseFile(*in)

	case "gen":
		fs := flag.NewFlagSet("gen", flag.ExitOnError)
		shape := fs.String("shape", "box", "primitive: box, cylinder, or sphere")
		dims := fs.String("dims", "10x10x10", "dimensions in mm, x-separated")
		out := fs.String("out", "", "output 3MF path")
		fix := fs.Bool("fix", false, "repair the tessellated soup before writing")
		fs.Parse(args)
		if *out == "" {
			return fmt.Errorf("gen requires -out")
		}
		d, err := parseDims(*dims)
		if err != nil {
			return err
		}
		return NewApp(false).Generate(*shape, d, *fix, *out)

	case "script":
		if len(args) != 1 {
			return fmt.Errorf("script requires exactly one path")
		}
		return NewApp(false).RunScript(args[0])

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// parseDims parses "40x20x10" into []float64{40, 20, 10}.
func parseDims(s string) ([]float64, error) {
	parts := strings.Split(s, "x")
	dims := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad dimension %q in %q", p, s)
		}
		dims = append(dims, v)
	}
	return dims, nil
}
