package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/layerpaint/internal/editor"
)

// newCmd writes a fresh single-layer project file.
type newCmd struct {
	output string
	width  int
	height int
	force  bool
	*root
	fs *flag.FlagSet
}

func (n *newCmd) FlagSet() *flag.FlagSet {
	return n.fs
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	cmd := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.output, "output", "", "path of the project file to create")
	fs.IntVar(&cmd.width, "width", 800, "canvas width in pixels")
	fs.IntVar(&cmd.height, "height", 600, "canvas height in pixels")
	fs.BoolVar(&cmd.force, "force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.output == "" || fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.width < 1 || cmd.height < 1 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", cmd.width, cmd.height)
	}
	return cmd, nil
}

func (n *newCmd) Run() error {
	if dir := n.root.config.SaveDir; dir != "" && !filepath.IsAbs(n.output) {
		n.output = filepath.Join(dir, n.output)
	}
	if !n.force {
		if _, err := os.Stat(n.output); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", n.output)
		}
	}
	ed, err := editor.New(n.width, n.height)
	if err != nil {
		return err
	}
	if err := saveProjectEditor(n.output, ed); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "created %s (%dx%d)\n", n.output, n.width, n.height)
	return nil
}
