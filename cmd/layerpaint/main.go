package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/example/layerpaint/internal/config"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	saveAlerts   bool
	exportAlerts bool
	copyAlerts   bool
	paletteName  string
	themeName    string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:      program,
		notifier:     r.notifier,
		config:       r.config,
		saveAlerts:   r.saveAlerts,
		exportAlerts: r.exportAlerts,
		copyAlerts:   r.copyAlerts,
		paletteName:  r.paletteName,
		themeName:    r.themeName,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("layerpaint", flag.ExitOnError),
		program:  "layerpaint",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a project")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image or PDF")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.paletteName, "palette", "", "named palette from the config file to show in the toolbar")
	r.fs.StringVar(&r.themeName, "theme", "", "UI theme name or .theme file path")
	r.fs.Usage = usageFunc(r)
	return r
}

// palette resolves the toolbar swatches from the selected named palette, or
// nil for the built-in defaults.
func (r *root) palette() []color.RGBA {
	name := r.paletteName
	if name == "" {
		name = os.Getenv("LAYERPAINT_PALETTE")
	}
	if name == "" {
		name = r.config.Palette
	}
	if name == "" {
		return nil
	}
	p, ok := r.config.Palettes[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "warning: palette %q not found in config\n", name)
		return nil
	}
	return p.Colors
}

// theme resolves the UI theme from the flag, environment or config, falling
// back to the built-in default on any failure.
func (r *root) theme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("LAYERPAINT_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	th, err := theme.NewLoader().Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return theme.Default()
	}
	return th
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r.subcommand("edit"))
	case "new":
		cmd, err = parseNewCmd(subArgs, r.subcommand("new"))
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r.subcommand("apply"))
	case "render":
		cmd, err = parseRenderCmd(subArgs, r.subcommand("render"))
	case "export":
		cmd, err = parseExportCmd(subArgs, r.subcommand("export"))
	case "info":
		cmd, err = parseInfoCmd(subArgs, r.subcommand("info"))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	if runErr := cmd.Run(); runErr != nil {
		return runErr
	}
	return nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}

func (r *root) notifyCopy(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, img)
}
