/*
Package bitmap implements a decoder and encoder for level image files.

A level image is an uncompressed Windows bitmap using 4 bits per pixel: a 14
byte file header, a 40 byte BITMAPINFOHEADER, a color table of 16 BGRA
entries and the pixel rows stored bottom to top. Each byte holds two pixels
with the left one in the high nibble and each row is padded to a multiple of
4 bytes.

Directly after the pixel data, with no separator, the encoder appends the
level data block described by package level. The decoder only needs the
bitmap itself; the level data is located by deriving the end of the pixel
data from the header.
*/
package bitmap

import (
	"errors"
	"fmt"

	"github.com/bodgit/dotedit/palette"
)

const (
	fileHeaderLen   = 14
	infoHeaderLen   = 40
	colorTableLen   = palette.Bytes
	pixelDataOffset = fileHeaderLen + infoHeaderLen + colorTableLen

	bitsPerPixel    = 4
	compressionNone = 0

	// 300 DPI
	pixelsPerMetre = 11811
)

var magic = [2]byte{'B', 'M'}

var (
	// ErrInvalidFormat is returned when the input is not a supported level
	// image.
	ErrInvalidFormat = errors.New("bitmap: invalid format")

	errNotEnough = fmt.Errorf("%w: not enough image data", ErrInvalidFormat)
)

type fileHeader struct {
	Magic   [2]byte
	Size    uint32
	_       uint16
	_       uint16
	OffBits uint32
}

type infoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// rowStride returns the number of bytes used to store one row of pixels,
// including padding.
func rowStride(width int) int {
	return (width*bitsPerPixel + 31) / 32 * 4
}
