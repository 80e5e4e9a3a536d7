package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/render"
	"github.com/example/layerpaint/internal/ui"
)

// editCmd opens the interactive editor window.
type editCmd struct {
	file   string
	width  int
	height int
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cmd := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "project file to open; created on first save if missing")
	fs.IntVar(&cmd.width, "width", 800, "canvas width for a new drawing")
	fs.IntVar(&cmd.height, "height", 600, "canvas height for a new drawing")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.width < 1 || cmd.height < 1 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", cmd.width, cmd.height)
	}
	return cmd, nil
}

func (e *editCmd) Run() error {
	var ed *editor.Editor
	if e.file != "" {
		if _, err := os.Stat(e.file); err == nil {
			loaded, _, err := loadProjectEditor(e.file)
			if err != nil {
				return err
			}
			ed = loaded
		}
	}
	if ed == nil {
		opts := e.defaultOptions()
		created, err := editor.New(e.width, e.height, opts...)
		if err != nil {
			return err
		}
		ed = created
	}

	u := ui.New(ed,
		ui.WithProjectPath(e.file),
		ui.WithNotifier(e.root.notifier),
		ui.WithPalette(e.root.palette()),
		ui.WithTheme(e.root.theme()),
	)
	u.Run()
	return nil
}

// defaultOptions maps the [defaults] config section onto editor options,
// tolerating unknown values.
func (e *editCmd) defaultOptions() []editor.Option {
	d := e.root.config.Defaults
	var opts []editor.Option
	switch editor.Tool(d.Tool) {
	case editor.ToolPen, editor.ToolEraser, editor.ToolFill:
		opts = append(opts, editor.WithTool(editor.Tool(d.Tool)))
	}
	if d.BrushSize > 0 {
		opts = append(opts, editor.WithBrushSize(d.BrushSize))
	}
	if c, err := render.ParseColor(d.Color); err == nil {
		opts = append(opts, editor.WithColor(c))
	}
	opts = append(opts, editor.WithPressureEnabled(d.Pressure))
	return opts
}
