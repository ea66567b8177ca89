/*
Package canvas implements the in-memory indexed bitmap edited by the editor.

A canvas is between 8 and 256 pixels in each dimension. Every pixel is a
4-bit index into a fixed 16 color palette and is stored one per byte in a
flat row-major buffer with the origin at the top-left corner.

Line, rectangle and ellipse drawing is split into strokes: the first call
takes a snapshot of the buffer and every following call restores from that
snapshot before rasterizing again, so an interactive preview never leaves
stray pixels behind. Passing finalize ends the stroke and keeps the result.
*/
package canvas

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/dotedit/palette"
)

const (
	// MinSize is the smallest permitted width or height
	MinSize = 8
	// MaxSize is the largest permitted width or height
	MaxSize = 256
	// Background is the index every new canvas is filled with
	Background = 1
)

// ErrInvalidDimensions is returned when a width or height lies outside
// [MinSize, MaxSize].
var ErrInvalidDimensions = errors.New("canvas: invalid dimensions")

// Canvas is an indexed bitmap with its palette.
type Canvas struct {
	// Palette holds the colors referenced by the pixel indices.
	Palette palette.Palette
	// Pix holds width*height palette indices in row-major order.
	Pix []uint8

	width, height int

	// stroke is the buffer as it was before the current stroke began, nil
	// when no stroke is open.
	stroke []uint8
}

// ValidDimensions reports whether width and height are both within
// [MinSize, MaxSize].
func ValidDimensions(width, height int) bool {
	return width >= MinSize && width <= MaxSize && height >= MinSize && height <= MaxSize
}

// New returns a canvas using the default palette, filled with the
// Background index.
func New(width, height int) (*Canvas, error) {
	return NewWithPalette(width, height, palette.Default())
}

// NewWithPalette returns a canvas using the given palette, filled with the
// Background index.
func NewWithPalette(width, height int, p palette.Palette) (*Canvas, error) {
	c, err := newBlank(width, height, p)
	if err != nil {
		return nil, err
	}
	for i := range c.Pix {
		c.Pix[i] = Background
	}
	return c, nil
}

// FromPixels returns a canvas wrapping a copy of an existing buffer, which
// must hold exactly width*height indices.
func FromPixels(width, height int, p palette.Palette, pix []uint8) (*Canvas, error) {
	c, err := newBlank(width, height, p)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(c.Pix) {
		return nil, errors.New("canvas: pixel buffer is wrong size")
	}
	copy(c.Pix, pix)
	return c, nil
}

func newBlank(width, height int, p palette.Palette) (*Canvas, error) {
	if !ValidDimensions(width, height) {
		return nil, ErrInvalidDimensions
	}
	return &Canvas{
		Palette: p,
		Pix:     make([]uint8, width*height),
		width:   width,
		height:  height,
	}, nil
}

// Width returns the width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// InBounds reports whether (x, y) addresses a pixel.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// SetPixel sets the pixel at (x, y) to index. Coordinates outside the canvas
// are ignored. The index is not checked against the palette size.
func (c *Canvas) SetPixel(x, y int, index uint8) {
	if !c.InBounds(x, y) {
		return
	}
	c.Pix[y*c.width+x] = index
}

// UsedIndices returns each distinct index present in the buffer in the order
// it is first seen.
func (c *Canvas) UsedIndices() []uint8 {
	var seen [256]bool
	var used []uint8
	for _, p := range c.Pix {
		if !seen[p] {
			seen[p] = true
			used = append(used, p)
		}
	}
	return used
}

// Clone returns a deep copy of the canvas. Any open stroke is not copied.
func (c *Canvas) Clone() *Canvas {
	dup := &Canvas{
		Palette: c.Palette,
		Pix:     make([]uint8, len(c.Pix)),
		width:   c.width,
		height:  c.height,
	}
	copy(dup.Pix, c.Pix)
	return dup
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return c.Palette.ColorPalette()
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	if !c.InBounds(x, y) {
		return color.RGBA{}
	}
	return c.Palette[c.Pix[y*c.width+x]&0x0f]
}

// ColorIndexAt implements the image.PalettedImage interface.
func (c *Canvas) ColorIndexAt(x, y int) uint8 {
	if !c.InBounds(x, y) {
		return 0
	}
	return c.Pix[y*c.width+x]
}

// Paletted returns a copy of the canvas as an *image.Paletted, suitable for
// the standard library encoders.
func (c *Canvas) Paletted() *image.Paletted {
	m := image.NewPaletted(c.Bounds(), c.Palette.ColorPalette())
	copy(m.Pix, c.Pix)
	return m
}
