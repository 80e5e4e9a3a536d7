package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/layerpaint/internal/project"
)

// infoCmd prints a summary of a project file without decoding layer images.
type infoCmd struct {
	file string
	*root
	fs *flag.FlagSet
}

func (i *infoCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cmd := &infoCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "project file to inspect")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.file == "" || fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (i *infoCmd) Run() error {
	data, err := os.ReadFile(i.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", i.file, err)
	}
	doc, err := project.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", i.file, err)
	}

	fmt.Printf("%s\n", i.file)
	fmt.Printf("  version: %d\n", doc.Version)
	fmt.Printf("  size: %dx%d\n", doc.Width, doc.Height)
	fmt.Printf("  tool: %s, brush %dpx, color %s\n", doc.Tool, doc.BrushSize, doc.Color)
	if doc.Version == project.Version1 {
		fmt.Printf("  layers: 1 (flattened)\n")
		return nil
	}
	fmt.Printf("  layers: %d\n", len(doc.Layers))
	for _, l := range doc.Layers {
		marker := " "
		if l.ID == doc.ActiveLayerID {
			marker = "*"
		}
		vis := "visible"
		if !l.Visible {
			vis = "hidden"
		}
		fmt.Printf("  %s %s  opacity %.2f  %s\n", marker, l.Name, l.Opacity, vis)
	}
	return nil
}
