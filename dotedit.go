/*
Package dotedit is a library for editing small indexed 16 color pixel art
images, such as tiles and level maps, and maintaining a catalog of them.

An image is at most 256 x 256 pixels with each pixel holding an index into a
16 entry palette. Images are stored as standard 4 bits per pixel bitmap files
with an optional trailer of level data appended after the pixel rows:

	Offset  Size  Description
	0       4     Format tag, "DLV1" or "DLV2"
	4       1     Width, 0 means 256
	5       1     Height, 0 means 256
	6       1     Number of distinct colors used
	7       64    Palette, 16 BGRA entries
	71      w*h   One byte palette index per pixel, row-major, top row first

The Editor type holds an editing session: the current canvas, the selected
tool and colors, an undo history and the file path. The Catalog type keeps a
sqlite database of levels and palettes in sync with a directory.
*/
package dotedit

import (
	"github.com/bodgit/dotedit/bitmap"
	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/palette"
)

var (
	// ErrInvalidDimensions is returned when a width or height lies outside
	// the supported range.
	ErrInvalidDimensions = canvas.ErrInvalidDimensions
	// ErrInvalidPalette is returned when palette data is malformed.
	ErrInvalidPalette = palette.ErrInvalidPalette
	// ErrInvalidFormat is returned when a file is not a supported bitmap.
	ErrInvalidFormat = bitmap.ErrInvalidFormat
)

// IOError records a failure reading or writing a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
