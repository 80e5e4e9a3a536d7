package theme

import (
	"image/color"
)

// Theme defines the color palette for the editor chrome: the layer bar,
// toolbar, bottom shortcut bar and canvas backdrop.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Bar and toolbar background
	Foreground color.RGBA // Main text color
	MutedText  color.RGBA // Hidden-layer labels

	// Buttons (layer entries, tool buttons, shortcut chips)
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonBorder          color.RGBA

	// Canvas backdrop
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Transient message overlay
	MessageBackground color.RGBA
	MessageBorder     color.RGBA
}

// Default returns the hardcoded light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		MutedText:             color.RGBA{120, 120, 120, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		MessageBackground:     color.RGBA{255, 255, 255, 230},
		MessageBorder:         color.RGBA{0, 0, 0, 255},
	}
}
