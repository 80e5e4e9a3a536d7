package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentPalette *Palette

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentPalette = nil

			if strings.HasPrefix(currentSection, "palette.") {
				name := strings.TrimPrefix(currentSection, "palette.")
				currentPalette = &Palette{Name: name}
				cfg.Palettes[name] = currentPalette
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentPalette != nil:
			err = setPaletteField(currentPalette, key, value)
		case currentSection == "defaults":
			err = setDefaultsField(&cfg.Defaults, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "save_dir":
		cfg.SaveDir = value
	case "palette":
		cfg.Palette = value
	case "theme":
		cfg.Theme = value
	}
	return nil
}

func setDefaultsField(d *Defaults, key, value string) error {
	switch strings.ToLower(key) {
	case "tool":
		d.Tool = value
	case "brush_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		d.BrushSize = n
	case "color":
		if _, err := parseColor(value); err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		d.Color = value
	case "pressure":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		d.Pressure = b
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// setPaletteField appends swatches in file order. Repeated color keys build
// the palette; unknown keys are ignored.
func setPaletteField(p *Palette, key, value string) error {
	if !strings.EqualFold(key, "color") {
		return nil
	}
	col, err := parseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	p.Colors = append(p.Colors, col)
	return nil
}

// parseColor parses a hex color string.
func parseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
