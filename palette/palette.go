/*
Package palette implements the fixed 16 entry color table shared by every
level image.

Each entry is stored as four bytes in blue, green, red, alpha order which is
the same order used by the bitmap color table, so a palette can be copied to
and from disk without any channel shuffling.
*/
package palette

import (
	"errors"
	"image/color"
)

const (
	// Size is the number of entries in every palette, one per 4-bit index
	Size = 16
	// Channels is the number of bytes used to store each entry
	Channels = 4
	// Bytes is the size of a palette in its raw BGRA form
	Bytes = Size * Channels
)

// ErrInvalidPalette is returned when palette data does not describe exactly
// Size entries of Channels bytes each.
var ErrInvalidPalette = errors.New("palette: invalid palette data")

// Color is a single palette entry.
type Color struct {
	B, G, R, A uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Palette is an ordered set of exactly Size colors.
type Palette [Size]Color

var defaultPalette = Palette{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// Default returns the built-in palette used for new images.
func Default() Palette {
	return defaultPalette
}

// FromBytes builds a palette from raw BGRA bytes as found in a bitmap color
// table.
func FromBytes(b []byte) (Palette, error) {
	var p Palette
	if len(b) != Bytes {
		return p, ErrInvalidPalette
	}
	for i := range p {
		p[i] = Color{b[i*Channels], b[i*Channels+1], b[i*Channels+2], b[i*Channels+3]}
	}
	return p, nil
}

// FromColors builds a palette from exactly Size colors.
func FromColors(colors []color.Color) (Palette, error) {
	var p Palette
	if len(colors) != Size {
		return p, ErrInvalidPalette
	}
	for i, c := range colors {
		if c == nil {
			return Palette{}, ErrInvalidPalette
		}
		p[i] = Convert(c)
	}
	return p, nil
}

// Convert returns the palette entry closest to the given color. No
// quantization takes place, the color is simply converted to 8 bits per
// channel.
func Convert(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{B: n.B, G: n.G, R: n.R, A: n.A}
}

// Bytes returns the palette in raw BGRA form.
func (p Palette) Bytes() []byte {
	b := make([]byte, 0, Bytes)
	for _, c := range p {
		b = append(b, c.B, c.G, c.R, c.A)
	}
	return b
}

// ColorPalette returns the palette as a color.Palette suitable for use with
// image.Paletted.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, Size)
	for i, c := range p {
		cp[i] = c
	}
	return cp
}
