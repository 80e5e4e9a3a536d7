package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/export"
)

// renderCmd flattens a project into a PNG file or the clipboard.
type renderCmd struct {
	file        string
	output      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cmd := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "project file to render")
	fs.StringVar(&cmd.output, "output", "", "PNG file to write (defaults to the project name)")
	fs.BoolVar(&cmd.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.BoolVar(&cmd.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.file == "" || fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.output == "" && !cmd.toClipboard {
		cmd.output = strings.TrimSuffix(cmd.file, filepath.Ext(cmd.file)) + ".png"
	}
	return cmd, nil
}

func (c *renderCmd) Run() error {
	ed, _, err := loadProjectEditor(c.file)
	if err != nil {
		return err
	}
	img := ed.CompositedImage()

	if c.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(c.file)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		c.root.notifyCopy(detail, img)
		return nil
	}

	if err := export.WritePNG(c.output, img); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s\n", c.output)
	c.root.notifyExport(c.output)
	return nil
}
