package canvas

import "github.com/bodgit/dotedit/palette"

// RGBA expands every pixel through the palette and returns width*height*4
// bytes in red, green, blue, alpha order.
func (c *Canvas) RGBA() []byte {
	return c.render(func(dst []byte, p palette.Color) {
		dst[0], dst[1], dst[2], dst[3] = p.R, p.G, p.B, p.A
	})
}

// BGRA is like RGBA but returns the channels in blue, green, red, alpha
// order.
func (c *Canvas) BGRA() []byte {
	return c.render(func(dst []byte, p palette.Color) {
		dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, p.A
	})
}

func (c *Canvas) render(put func([]byte, palette.Color)) []byte {
	b := make([]byte, len(c.Pix)*palette.Channels)
	for i, p := range c.Pix {
		put(b[i*palette.Channels:], c.Palette[p&0x0f])
	}
	return b
}
