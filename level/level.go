/*
Package level implements the level data block appended to the end of every
saved image.

The block is not length prefixed; a reader finds it directly after the
bitmap pixel data. It is written as a 4 byte format tag, one byte each for
width, height and the number of distinct palette indices in use, the full
16 entry palette as 64 bytes of BGRA and finally one byte per pixel in
top-down row-major order. A width or height of 256 does not fit in a byte
and is stored as 0.

The format tag is DLV1 for images no larger than 64 by 64 that use at most 8
colors, DLV2 otherwise. The layout is the same for both; the tag only
describes the image to consumers of the file.
*/
package level

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/palette"
)

// Format identifies the class of level stored in a file.
type Format [4]byte

var (
	// DLV1 is a small level, at most 64 by 64 using at most 8 colors
	DLV1 = Format{'D', 'L', 'V', '1'}
	// DLV2 is any other level
	DLV2 = Format{'D', 'L', 'V', '2'}
)

const (
	// HeaderSize is the number of bytes before the pixel data
	HeaderSize = 4 + 3 + palette.Bytes

	dlv1MaxSize   = 64
	dlv1MaxColors = 8
)

// ErrInvalidData is returned when a level data block cannot be parsed.
var ErrInvalidData = errors.New("level: invalid level data")

func (f Format) String() string {
	return string(f[:])
}

// Extension returns the conventional file extension for images carrying
// the given format.
func Extension(f Format) string {
	if f == DLV1 {
		return ".dlv.bmp"
	}
	return ".dlvx.bmp"
}

// FormatFor returns the format tag for an image of the given size using
// the given number of distinct colors.
func FormatFor(width, height, colors int) Format {
	if colors <= dlv1MaxColors && width <= dlv1MaxSize && height <= dlv1MaxSize {
		return DLV1
	}
	return DLV2
}

// Data is a decoded level data block. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Data struct {
	Format  Format
	Width   int
	Height  int
	Colors  int
	Palette palette.Palette
	Pix     []uint8
}

// FromCanvas builds the level data describing c.
func FromCanvas(c *canvas.Canvas) *Data {
	colors := len(c.UsedIndices())
	d := &Data{
		Format:  FormatFor(c.Width(), c.Height(), colors),
		Width:   c.Width(),
		Height:  c.Height(),
		Colors:  colors,
		Palette: c.Palette,
		Pix:     make([]uint8, len(c.Pix)),
	}
	copy(d.Pix, c.Pix)
	return d
}

// Canvas returns a canvas built from the level data.
func (d *Data) Canvas() (*canvas.Canvas, error) {
	return canvas.FromPixels(d.Width, d.Height, d.Palette, d.Pix)
}

// Size returns the encoded length of the level data in bytes.
func (d *Data) Size() int {
	return HeaderSize + d.Width*d.Height
}

// MarshalBinary encodes the level data into binary form and returns the
// result
func (d *Data) MarshalBinary() ([]byte, error) {
	if len(d.Pix) != d.Width*d.Height {
		return nil, fmt.Errorf("level: have %d pixels, expected %d", len(d.Pix), d.Width*d.Height)
	}

	b := new(bytes.Buffer)
	b.Grow(d.Size())

	// Tag, dimensions and color count
	b.Write(d.Format[:])
	b.Write([]byte{byte(d.Width), byte(d.Height), byte(d.Colors)})

	// Every palette entry regardless of how many are used
	b.Write(d.Palette.Bytes())

	// Unpacked pixels
	b.Write(d.Pix)

	return b.Bytes(), nil
}

func dimension(b byte) int {
	if b == 0 {
		return canvas.MaxSize
	}
	return int(b)
}

// UnmarshalBinary decodes the level data from binary form. Any bytes
// following the pixel data are ignored.
func (d *Data) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrInvalidData
	}

	var f Format
	copy(f[:], b)
	if f != DLV1 && f != DLV2 {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidData, f.String())
	}

	width, height := dimension(b[4]), dimension(b[5])
	if !canvas.ValidDimensions(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidData, width, height)
	}

	p, err := palette.FromBytes(b[7:HeaderSize])
	if err != nil {
		return err
	}

	if len(b) < HeaderSize+width*height {
		return fmt.Errorf("%w: not enough pixel data", ErrInvalidData)
	}

	d.Format = f
	d.Width = width
	d.Height = height
	d.Colors = int(b[6])
	d.Palette = p
	d.Pix = make([]uint8, width*height)
	copy(d.Pix, b[HeaderSize:])

	return nil
}
