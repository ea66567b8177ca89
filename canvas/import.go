package canvas

import (
	"image"

	"github.com/bodgit/dotedit/palette"
	"golang.org/x/image/draw"
)

// FromImage converts an arbitrary image into a canvas. The image must
// already be a permitted size. If it is not paletted with at most 16 colors
// a palette is chosen with median cut quantization and the pixels are
// mapped onto it, optionally with Floyd-Steinberg dithering.
func FromImage(m image.Image, dither bool) (*Canvas, error) {
	b := m.Bounds()
	if !ValidDimensions(b.Dx(), b.Dy()) {
		return nil, ErrInvalidDimensions
	}

	// Already a small enough palette, copy the indices across untouched
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= palette.Size {
		p := palette.Default()
		for i, col := range pm.Palette {
			p[i] = palette.Convert(col)
		}
		c, _ := newBlank(b.Dx(), b.Dy(), p)
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c.Pix[y*c.width+x] = pm.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
			}
		}
		return c, nil
	}

	p := palette.Quantize(m)
	dr := image.Rect(0, 0, b.Dx(), b.Dy())
	dst := image.NewPaletted(dr, p.ColorPalette())
	if dither {
		draw.FloydSteinberg.Draw(dst, dr, m, b.Min)
	} else {
		draw.Draw(dst, dr, m, b.Min, draw.Src)
	}

	c, _ := newBlank(b.Dx(), b.Dy(), p)
	copy(c.Pix, dst.Pix)
	return c, nil
}
