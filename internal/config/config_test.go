package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
save_dir = /tmp/drawings
palette = warm
theme = dark

[defaults]
tool = eraser
brush_size = 12
color = #FF0000
pressure = true

[notify]
save = true
export = false
copy = true

[palette.warm]
color = #FF0000
color = #FF8800
color = #FFFF00
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Palette != "warm" {
		t.Errorf("Expected palette 'warm', got '%s'", cfg.Palette)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected theme 'dark', got '%s'", cfg.Theme)
	}

	if cfg.Defaults.Tool != "eraser" {
		t.Errorf("Expected tool 'eraser', got '%s'", cfg.Defaults.Tool)
	}
	if cfg.Defaults.BrushSize != 12 {
		t.Errorf("Expected brush_size 12, got %d", cfg.Defaults.BrushSize)
	}
	if cfg.Defaults.Color != "#FF0000" {
		t.Errorf("Expected color '#FF0000', got '%s'", cfg.Defaults.Color)
	}
	if !cfg.Defaults.Pressure {
		t.Error("Expected defaults.pressure to be true")
	}

	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Export {
		t.Error("Expected notify.export to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	p, ok := cfg.Palettes["warm"]
	if !ok {
		t.Fatal("Expected palette 'warm' to be loaded")
	}
	if len(p.Colors) != 3 {
		t.Fatalf("Expected 3 palette colors, got %d", len(p.Colors))
	}
	if p.Colors[0].R != 0xFF || p.Colors[0].G != 0 || p.Colors[0].B != 0 {
		t.Errorf("Unexpected first palette color: %+v", p.Colors[0])
	}
	if p.Colors[1].G != 0x88 {
		t.Errorf("Palette order not preserved: %+v", p.Colors[1])
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []string{
		"[defaults]\nbrush_size = wide\n",
		"[defaults]\ncolor = red\n",
		"[notify]\nsave = maybe\n",
		"[palette.p]\ncolor = #GG0000\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/drawings
palette = grays
theme = light

[defaults]
tool = pen
brush_size = 8
color = #336699
pressure = false

[notify]
save = true
export = true
copy = false

[palette.grays]
color = #000000
color = #808080
color = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Palette != cfg2.Palette {
		t.Errorf("Palette mismatch: %q vs %q", cfg.Palette, cfg2.Palette)
	}
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Defaults != cfg2.Defaults {
		t.Errorf("Defaults mismatch: %+v vs %+v", cfg.Defaults, cfg2.Defaults)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	p1 := cfg.Palettes["grays"]
	p2 := cfg2.Palettes["grays"]
	if p1 == nil || p2 == nil {
		t.Fatalf("Palette 'grays' missing in one config")
	}
	if len(p1.Colors) != len(p2.Colors) {
		t.Fatalf("Palette length mismatch: %d vs %d", len(p1.Colors), len(p2.Colors))
	}
	for i := range p1.Colors {
		if p1.Colors[i] != p2.Colors[i] {
			t.Errorf("Palette color %d mismatch: %v vs %v", i, p1.Colors[i], p2.Colors[i])
		}
	}
}
