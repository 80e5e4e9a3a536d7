package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Defaults holds the tool settings applied to a freshly opened editor.
type Defaults struct {
	Tool      string
	BrushSize int
	Color     string
	Pressure  bool
}

// Palette is a named, ordered list of swatch colors.
type Palette struct {
	Name   string
	Colors []color.RGBA
}

// Config holds the application configuration.
type Config struct {
	SaveDir  string
	Palette  string // name of the palette shown in the toolbar
	Theme    string // name or path of the UI theme
	Defaults Defaults
	Notify   Notify
	Palettes map[string]*Palette
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Defaults: Defaults{
			Tool:      "pen",
			BrushSize: 4,
			Color:     "#000000",
		},
		Palettes: make(map[string]*Palette),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Palette != "" {
		fmt.Fprintf(&sb, "palette = %s\n", c.Palette)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[defaults]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Defaults.Tool)
	fmt.Fprintf(&sb, "brush_size = %d\n", c.Defaults.BrushSize)
	fmt.Fprintf(&sb, "color = %s\n", c.Defaults.Color)
	fmt.Fprintf(&sb, "pressure = %v\n", c.Defaults.Pressure)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var names []string
	for name := range c.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := c.Palettes[name]
		fmt.Fprintf(&sb, "[palette.%s]\n", name)
		for _, col := range p.Colors {
			fmt.Fprintf(&sb, "color = %s\n", toHex(col))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
