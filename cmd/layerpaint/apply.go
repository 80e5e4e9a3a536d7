package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/render"
)

// applyCmd performs headless editing operations on a project file.
type applyCmd struct {
	file      string
	output    string
	colorSpec string
	size      int
	layer     int
	op        string
	coords    []int
	*root
	fs *flag.FlagSet
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	cmd := &applyCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "project file to edit")
	fs.StringVar(&cmd.output, "output", "", "output project file (defaults to input file)")
	fs.StringVar(&cmd.colorSpec, "color", "black", "stroke or fill color name or hex value")
	fs.IntVar(&cmd.size, "size", 4, "brush diameter in pixels")
	fs.IntVar(&cmd.layer, "layer", 0, "target layer index, 0 is the topmost")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.file == "" || fs.NArg() < 1 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.output == "" {
		cmd.output = cmd.file
	}
	cmd.op = strings.ToLower(fs.Arg(0))
	remaining := fs.Args()[1:]
	var err error
	switch cmd.op {
	case "stroke", "erase":
		cmd.coords, err = expectIntPairs(remaining, cmd.op)
	case "fill":
		cmd.coords, err = expectInts(remaining, 2, cmd.op)
	case "clear":
		if len(remaining) != 0 {
			return nil, fmt.Errorf("clear takes no arguments")
		}
	default:
		return nil, fmt.Errorf("unsupported operation %q", cmd.op)
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func (a *applyCmd) Run() error {
	col, err := render.ParseColor(a.colorSpec)
	if err != nil {
		return err
	}
	ed, _, err := loadProjectEditor(a.file)
	if err != nil {
		return err
	}
	layers := ed.Layers()
	if a.layer < 0 || a.layer >= len(layers) {
		return fmt.Errorf("layer index %d out of range (project has %d layers)", a.layer, len(layers))
	}
	if err := ed.SelectLayer(layers[a.layer].ID); err != nil {
		return err
	}

	switch a.op {
	case "stroke", "erase":
		tool := editor.ToolPen
		if a.op == "erase" {
			tool = editor.ToolEraser
		}
		if err := ed.DrawStart(a.coords[0], a.coords[1], tool, col, a.size, 1); err != nil {
			return fmt.Errorf("%s: %w", a.op, err)
		}
		for i := 2; i+1 < len(a.coords); i += 2 {
			if err := ed.DrawMove(a.coords[i], a.coords[i+1], 1); err != nil {
				ed.DrawEnd()
				return fmt.Errorf("%s: %w", a.op, err)
			}
		}
		ed.DrawEnd()
	case "fill":
		if err := ed.Fill(a.coords[0], a.coords[1], col); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	case "clear":
		if err := ed.ClearActiveLayer(); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	if err := saveProjectEditor(a.output, ed); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", a.output)
	a.root.notifySave(a.output)
	return nil
}

func expectInts(args []string, n int, op string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", op, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func expectIntPairs(args []string, op string) ([]int, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%s requires an even number of coordinates (at least one x y pair)", op)
	}
	vals := make([]int, len(args))
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}
