package palette

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// Quantize picks up to Size representative colors from m using median cut.
// If the image has fewer distinct colors the remaining entries are taken
// from the default palette.
func Quantize(m image.Image) Palette {
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, Size), m)

	p := Default()
	for i, c := range cp {
		if i >= Size {
			break
		}
		p[i] = Convert(c)
	}
	return p
}
