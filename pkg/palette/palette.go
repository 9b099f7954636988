package palette

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"strconv"
	"strings"
)

// Default is the stock swatch palette
var Default = []string{"#6EC6FF", "#81C784", "#FFF176", "#F48FB1", "#CE93D8", "#FFCC80"}

// Palette picks display colors for employees.
// The same name always maps to the same color.
type Palette struct {
	colors []string
}

// New creates a palette from hex colors. Invalid entries are rejected.
func New(colors []string) (*Palette, error) {
	if len(colors) == 0 {
		colors = Default
	}

	normalized := make([]string, 0, len(colors))
	for _, c := range colors {
		hex, err := Normalize(c)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, hex)
	}

	return &Palette{colors: normalized}, nil
}

// Colors returns a copy of the palette entries
func (p *Palette) Colors() []string {
	out := make([]string, len(p.colors))
	copy(out, p.colors)
	return out
}

// ForName returns the palette color assigned to a name.
// Case and surrounding spaces are ignored.
func (p *Palette) ForName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return p.colors[int(h.Sum32()%uint32(len(p.colors)))]
}

// Pick resolves the color for a booking.
// Precedence: explicit override, previously used color, hash of the name.
func (p *Palette) Pick(name, override, previous string) string {
	if hex, err := Normalize(override); err == nil {
		return hex
	}
	if hex, err := Normalize(previous); err == nil {
		return hex
	}
	return p.ForName(name)
}

// Normalize validates a #RRGGBB (or #RGB) color and returns it upper-cased in long form
func Normalize(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		return "", fmt.Errorf("color %q must start with #", hex)
	}

	digits := strings.ToUpper(hex[1:])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return "", fmt.Errorf("color %q must have 3 or 6 hex digits", hex)
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", fmt.Errorf("color %q is not hexadecimal", hex)
	}

	return "#" + digits, nil
}

// RGBA converts a hex color to an opaque color.RGBA.
// Unparseable input yields fallback.
func RGBA(hex string, fallback color.RGBA) color.RGBA {
	norm, err := Normalize(hex)
	if err != nil {
		return fallback
	}

	v, _ := strconv.ParseUint(norm[1:], 16, 32)
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}
