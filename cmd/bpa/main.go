// Package main is the bpa CLI command: a thin wrapper gluing pointio's
// loaders and writer to bpa.Reconstruct. Argument parsing and file
// handling live here so the core library stays free of os.Exit calls and
// flag parsing.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bpalib/reconstruct/bpa"
	"github.com/bpalib/reconstruct/pointio"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "bpa",
		Usage: "reconstruct a triangle mesh from an oriented point cloud via ball-pivoting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Required: true,
				Usage:    "path to the input point cloud (.xyz or .ply)",
			},
			&cli.Float64Flag{
				Name:     "radius",
				Required: true,
				Usage:    "ball radius",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "path to write the output STL (default: input path with .stl extension)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "input format, one of ply or xyz; inferred from --input's extension if omitted",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging and progress milestones",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logger = golog.NewDebugLogger("bpa")
			} else {
				logger = golog.NewLogger("bpa")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return run(c, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		golog.Global().Error(err)
		os.Exit(exitCodeFor(err))
	}
}

func run(c *cli.Context, logger golog.Logger) error {
	input := c.String("input")
	radius := float32(c.Float64("radius"))
	output := c.String("output")
	if output == "" {
		output = deriveOutputPath(input)
	}

	cloud, err := loadCloud(input, c.String("format"))
	if err != nil {
		return errIO{err}
	}

	triangles, err := bpa.Reconstruct(cloud, radius,
		bpa.WithLogger(logger),
		bpa.WithProgress(func(count int) {
			if c.Bool("debug") && count%1000 == 0 {
				logger.Infow("progress", "triangles", count)
			}
		}),
	)
	if err != nil {
		if errors.Is(err, bpa.ErrNoMesh) {
			return errNoMesh{err}
		}
		return errIO{err}
	}

	if err := pointio.SaveSTL(output, triangles); err != nil {
		return errIO{err}
	}

	fmt.Fprintf(c.App.Writer, "wrote %d triangles to %s\n", len(triangles), output)
	return nil
}

func loadCloud(path, format string) ([]bpa.Point, error) {
	if format == "" {
		format = inferFormat(path)
	}
	switch format {
	case "ply":
		return pointio.LoadPLY(path)
	case "xyz":
		return pointio.LoadXYZ(path)
	default:
		return nil, errors.Errorf("unrecognized format %q (expected ply or xyz)", format)
	}
}

func inferFormat(path string) string {
	switch {
	case strings.HasSuffix(path, ".ply"):
		return "ply"
	default:
		return "xyz"
	}
}

func deriveOutputPath(input string) string {
	if dot := strings.LastIndex(input, "."); dot >= 0 {
		return input[:dot] + ".stl"
	}
	return input + ".stl"
}

// errIO and errNoMesh distinguish the two non-success exit codes the CLI
// surface promises: 1 for I/O or parse failures, 2 for a reconstruction
// that produced no mesh.
type errIO struct{ err error }

func (e errIO) Error() string { return e.err.Error() }
func (e errIO) Unwrap() error { return e.err }

type errNoMesh struct{ err error }

func (e errNoMesh) Error() string { return e.err.Error() }
func (e errNoMesh) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var noMesh errNoMesh
	if errors.As(err, &noMesh) {
		return 2
	}
	return 1
}
