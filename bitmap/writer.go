package bitmap

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/level"
	"github.com/bodgit/dotedit/palette"
)

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writeHeader(c *canvas.Canvas) error {
	imageSize := rowStride(c.Width()) * c.Height()

	fh := fileHeader{
		Magic:   magic,
		Size:    uint32(pixelDataOffset + imageSize),
		OffBits: pixelDataOffset,
	}
	if err := binary.Write(e.w, binary.LittleEndian, &fh); err != nil {
		return err
	}

	ih := infoHeader{
		Size:          infoHeaderLen,
		Width:         int32(c.Width()),
		Height:        int32(c.Height()),
		Planes:        1,
		BitCount:      bitsPerPixel,
		Compression:   compressionNone,
		SizeImage:     uint32(imageSize),
		XPelsPerMeter: pixelsPerMetre,
		YPelsPerMeter: pixelsPerMetre,
		ClrUsed:       palette.Size,
		ClrImportant:  palette.Size,
	}
	return binary.Write(e.w, binary.LittleEndian, &ih)
}

func (e *encoder) writePixels(c *canvas.Canvas) error {
	row := make([]byte, rowStride(c.Width()))

	// Bottom row first
	for y := c.Height() - 1; y >= 0; y-- {
		for i := range row {
			row[i] = 0
		}
		pix := c.Pix[y*c.Width() : (y+1)*c.Width()]
		for x, p := range pix {
			// This is masking off any bits leaving a 0-15 value
			if x&1 == 0 {
				row[x>>1] |= p & 0x0f << 4
			} else {
				row[x>>1] |= p & 0x0f
			}
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encode(c *canvas.Canvas) error {
	if err := e.writeHeader(c); err != nil {
		return err
	}

	if _, err := e.w.Write(c.Palette.Bytes()); err != nil {
		return err
	}

	if err := e.writePixels(c); err != nil {
		return err
	}

	b, err := level.FromCanvas(c).MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes the canvas c to w as a level image followed by its level
// data.
func Encode(w io.Writer, c *canvas.Canvas) error {
	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(c)
}
