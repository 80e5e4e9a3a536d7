package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/layerpaint/internal/export"
)

// exportCmd flattens a project into a single-page PDF.
type exportCmd struct {
	file   string
	output string
	*root
	fs *flag.FlagSet
}

func (x *exportCmd) FlagSet() *flag.FlagSet {
	return x.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cmd := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "project file to export")
	fs.StringVar(&cmd.output, "output", "", "PDF file to write (defaults to the project name)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.file == "" || fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.output == "" {
		cmd.output = strings.TrimSuffix(cmd.file, filepath.Ext(cmd.file)) + ".pdf"
	}
	return cmd, nil
}

func (x *exportCmd) Run() error {
	ed, _, err := loadProjectEditor(x.file)
	if err != nil {
		return err
	}
	if err := export.WritePDF(x.output, ed.CompositedImage()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s\n", x.output)
	x.root.notifyExport(x.output)
	return nil
}
