package bitmap

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/level"
	"github.com/bodgit/dotedit/palette"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

type decoder struct {
	r io.Reader

	fh fileHeader
	ih infoHeader

	width, height int

	palette palette.Palette
	canvas  *canvas.Canvas
}

func (d *decoder) readHeader() error {
	if err := binary.Read(d.r, binary.LittleEndian, &d.fh); err != nil {
		return err
	}
	if err := binary.Read(d.r, binary.LittleEndian, &d.ih); err != nil {
		return err
	}

	switch {
	case d.fh.Magic != magic:
		return fmt.Errorf("%w: not a bitmap", ErrInvalidFormat)
	case d.ih.Size != infoHeaderLen:
		return fmt.Errorf("%w: unsupported info header size %d", ErrInvalidFormat, d.ih.Size)
	case d.ih.BitCount != bitsPerPixel:
		return fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidFormat, d.ih.BitCount)
	case d.ih.Compression != compressionNone:
		return fmt.Errorf("%w: unsupported compression %d", ErrInvalidFormat, d.ih.Compression)
	case !canvas.ValidDimensions(int(d.ih.Width), int(d.ih.Height)):
		return fmt.Errorf("%w: unsupported size %dx%d", ErrInvalidFormat, d.ih.Width, d.ih.Height)
	case d.fh.OffBits < pixelDataOffset:
		return fmt.Errorf("%w: pixel data overlaps color table", ErrInvalidFormat)
	}

	d.width, d.height = int(d.ih.Width), int(d.ih.Height)

	return nil
}

func (d *decoder) readPalette() error {
	var tmp [colorTableLen]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}

	var err error
	d.palette, err = palette.FromBytes(tmp[:])
	return err
}

func (d *decoder) readPixels() error {
	// Skip any gap between the color table and the pixel data
	if gap := int64(d.fh.OffBits) - pixelDataOffset; gap > 0 {
		if _, err := io.CopyN(ioutil.Discard, d.r, gap); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}

	stride := rowStride(d.width)
	tmp := make([]byte, stride*d.height)
	if err := readFull(d.r, tmp); err != nil {
		return err
	}

	var err error
	if d.canvas, err = canvas.NewWithPalette(d.width, d.height, d.palette); err != nil {
		return err
	}

	// Rows are stored bottom to top
	for y := 0; y < d.height; y++ {
		row := tmp[(d.height-1-y)*stride:]
		for x := 0; x < d.width; x++ {
			b := row[x>>1]
			if x&1 == 0 {
				d.canvas.Pix[y*d.width+x] = upperNibble(b) >> 4
			} else {
				d.canvas.Pix[y*d.width+x] = lowerNibble(b)
			}
		}
	}

	return nil
}

func (d *decoder) readLevel() (*level.Data, error) {
	b, err := ioutil.ReadAll(d.r)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}

	l := new(level.Data)
	if err := l.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return l, nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	if err := d.readPixels(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	return nil
}

// Decode reads a level image from r and returns it as a canvas. Any level
// data following the bitmap is not read.
func Decode(r io.Reader) (*canvas.Canvas, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.canvas, nil
}

// DecodeLevel reads a level image from r along with the level data that
// follows it. The level data is nil if the file ends after the bitmap.
func DecodeLevel(r io.Reader) (*canvas.Canvas, *level.Data, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, nil, err
	}
	l, err := d.readLevel()
	if err != nil {
		return nil, nil, err
	}
	return d.canvas, l, nil
}

// DecodeConfig returns the color model and dimensions of a level image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette.ColorPalette(),
		Width:      d.width,
		Height:     d.height,
	}, nil
}
