package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves a color name from the SVG 1.1 set or a #RRGGBB /
// #RRGGBBAA hex value.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		r, err := strconv.ParseUint(spec[1:3], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		g, err := strconv.ParseUint(spec[3:5], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		b, err := strconv.ParseUint(spec[5:7], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		a := uint64(255)
		if len(spec) == 9 {
			val, err := strconv.ParseUint(spec[7:9], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			a = val
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// FormatColor renders a color as #RRGGBB, or #RRGGBBAA when not fully opaque.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
