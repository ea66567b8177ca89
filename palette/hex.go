package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a string is not a 3 or 6 digit hex color.
var ErrInvalidHex = errors.New("palette: invalid hex color")

// ParseHex parses a color in #RGB or #RRGGBB form. The leading '#' is
// optional and case is ignored. The alpha channel is always fully opaque.
// On failure the zero Color is returned along with ErrInvalidHex.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	var rgb [3]uint8
	switch len(s) {
	case 3:
		for i := range rgb {
			v, err := strconv.ParseUint(s[i:i+1], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			rgb[i] = uint8(v<<4 | v)
		}
	case 6:
		for i := range rgb {
			v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			rgb[i] = uint8(v)
		}
	default:
		return Color{}, fmt.Errorf("%w: %q (expected 3 or 6 hex digits)", ErrInvalidHex, s)
	}

	return Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
}

// Hex returns the color as six lowercase hex digits with no prefix, the form
// used in palette files.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the color as #RRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
