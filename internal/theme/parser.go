package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/layerpaint/internal/render"
)

// Parse reads a theme definition from an io.Reader.
// The format is a key-value pair per line: Key: <color>, where the value is
// anything render.ParseColor accepts (SVG names or #RRGGBB / #RRGGBBAA hex).
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	val := reflect.ValueOf(t).Elem()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "Name" {
			t.Name = value
			continue
		}

		field := val.FieldByName(key)
		if !field.IsValid() {
			continue // Unknown field, ignore for forward compatibility
		}

		if field.Type() == reflect.TypeOf(color.RGBA{}) {
			col, err := render.ParseColor(value)
			if err != nil {
				return nil, fmt.Errorf("invalid color for key %s: %w", key, err)
			}
			field.Set(reflect.ValueOf(col))
		}
	}

	return t, scanner.Err()
}
