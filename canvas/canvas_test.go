package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/dotedit/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count(c *Canvas, index uint8) (n int) {
	for _, p := range c.Pix {
		if p == index {
			n++
		}
	}
	return
}

func TestNew(t *testing.T) {
	for _, size := range [][2]int{{8, 8}, {8, 256}, {256, 8}, {17, 33}, {256, 256}} {
		c, err := New(size[0], size[1])
		require.NoError(t, err)
		assert.Equal(t, size[0], c.Width())
		assert.Equal(t, size[1], c.Height())
		assert.Len(t, c.Pix, size[0]*size[1])
		assert.Equal(t, len(c.Pix), count(c, Background))
		assert.Equal(t, palette.Default(), c.Palette)
		assert.False(t, c.Stroking())
	}
}

func TestNewInvalid(t *testing.T) {
	for _, size := range [][2]int{{7, 8}, {8, 7}, {257, 8}, {8, 257}, {0, 0}, {-8, 8}} {
		c, err := New(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidDimensions)
		assert.Nil(t, c)
	}
}

func TestNewWithPalette(t *testing.T) {
	var p palette.Palette
	p[5] = palette.Color{R: 1, G: 2, B: 3, A: 4}
	c, err := NewWithPalette(8, 8, p)
	require.NoError(t, err)
	assert.Equal(t, p, c.Palette)
}

func TestFromPixels(t *testing.T) {
	pix := make([]uint8, 64)
	pix[10] = 7

	c, err := FromPixels(8, 8, palette.Default(), pix)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), c.ColorIndexAt(2, 1))

	pix[10] = 3
	assert.Equal(t, uint8(7), c.ColorIndexAt(2, 1), "buffer should be copied")

	_, err = FromPixels(8, 8, palette.Default(), pix[:63])
	assert.Error(t, err)
}

func TestSetPixel(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)

	c.SetPixel(3, 2, 5)
	assert.Equal(t, uint8(5), c.Pix[2*8+3])

	before := append([]uint8(nil), c.Pix...)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {8, 8}, {-1, -1}, {100, 3}} {
		c.SetPixel(p[0], p[1], 9)
	}
	assert.Equal(t, before, c.Pix)
}

func TestUsedIndices(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1}, c.UsedIndices())

	// Background comes first when it is seen first
	c.SetPixel(5, 0, 6)
	assert.Equal(t, []uint8{1, 6}, c.UsedIndices())

	c.SetPixel(7, 7, 3)
	c.SetPixel(0, 0, 4)
	c.SetPixel(1, 0, 3)
	assert.Equal(t, []uint8{4, 3, 1, 6}, c.UsedIndices())
}

func TestClone(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)
	c.DrawLine(0, 0, 3, 3, 2, false)

	dup := c.Clone()
	assert.False(t, dup.Stroking())
	assert.Equal(t, c.Pix, dup.Pix)

	dup.SetPixel(7, 7, 9)
	assert.NotEqual(t, c.Pix, dup.Pix)
}

func TestImageInterface(t *testing.T) {
	c, err := New(16, 8)
	require.NoError(t, err)
	c.SetPixel(2, 3, 2)

	var m image.PalettedImage = c
	assert.Equal(t, image.Rect(0, 0, 16, 8), m.Bounds())
	assert.Equal(t, uint8(2), m.ColorIndexAt(2, 3))
	assert.Equal(t, palette.Color{R: 0xff, A: 0xff}, m.At(2, 3))
	assert.Equal(t, color.RGBA{}, m.At(-1, 3))

	pm := c.Paletted()
	assert.Equal(t, c.Pix, pm.Pix)
	assert.Len(t, pm.Palette, palette.Size)
}

func TestRender(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)
	c.Palette[3] = palette.Color{B: 0x10, G: 0x20, R: 0x30, A: 0x40}
	c.SetPixel(1, 0, 3)

	rgba := c.RGBA()
	require.Len(t, rgba, 8*8*4)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, rgba[0:4])
	assert.Equal(t, []byte{0x30, 0x20, 0x10, 0x40}, rgba[4:8])

	bgra := c.BGRA()
	assert.Equal(t, []byte{0x10, 0x20, 0x30, 0x40}, bgra[4:8])
}

func TestSnapshotRestore(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)

	s := c.Snapshot()
	require.Len(t, s, 64)
	c.FloodFill(0, 0, 4)
	assert.Equal(t, 64, count(c, 4))

	c.Restore(s)
	Release(s)
	assert.Equal(t, 64, count(c, Background))
}

func TestFromImagePaletted(t *testing.T) {
	pm := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{
		color.RGBA{0, 0, 0, 0xff},
		color.RGBA{0x11, 0x22, 0x33, 0xff},
	})
	pm.SetColorIndex(4, 4, 1)

	c, err := FromImage(pm, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), c.ColorIndexAt(4, 4))
	assert.Equal(t, uint8(0), c.ColorIndexAt(0, 0))
	assert.Equal(t, palette.Color{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, c.Palette[1])
}

func TestFromImageQuantized(t *testing.T) {
	m := image.NewRGBA(image.Rect(10, 10, 26, 26))
	for y := 10; y < 26; y++ {
		for x := 10; x < 26; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 0x80, 0xff})
		}
	}

	for _, dither := range []bool{false, true} {
		c, err := FromImage(m, dither)
		require.NoError(t, err)
		assert.Equal(t, 16, c.Width())
		assert.Equal(t, 16, c.Height())
		for _, p := range c.Pix {
			assert.Less(t, p, uint8(palette.Size))
		}
	}
}

func TestFromImageInvalid(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), false)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
