package dotedit

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/level"
	"github.com/bodgit/dotedit/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func newEditor(t *testing.T, width, height int) *Editor {
	t.Helper()
	e := New(nil, discard())
	require.NoError(t, e.NewImage(width, height))
	return e
}

func blank(c *canvas.Canvas) bool {
	for _, p := range c.Pix {
		if p != canvas.Background {
			return false
		}
	}
	return true
}

func TestNewImage(t *testing.T) {
	e := newEditor(t, 0, 0)

	c := e.Canvas()
	require.NotNil(t, c)
	assert.Equal(t, 16, c.Width())
	assert.Equal(t, 16, c.Height())
	assert.True(t, blank(c))
	assert.Equal(t, palette.Default(), c.Palette)
	assert.False(t, e.Dirty())
	assert.Equal(t, "", e.Path())
	assert.Equal(t, level.DLV1, e.Format())

	err := e.NewImage(7, 8)
	assert.True(t, errors.Is(err, ErrInvalidDimensions))
	assert.Same(t, c, e.Canvas())
}

func TestNewImageUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	cfg.Palette = make([]string, palette.Size)
	for i := range cfg.Palette {
		cfg.Palette[i] = "#102030"
	}
	require.NoError(t, cfg.validate())

	e := New(cfg, discard())
	require.NoError(t, e.NewImage(0, 0))
	assert.Equal(t, 32, e.Canvas().Width())
	assert.Equal(t, 24, e.Canvas().Height())
	assert.Equal(t, palette.Color{B: 0x30, G: 0x20, R: 0x10, A: 0xff}, e.Canvas().Palette[5])
}

func TestPencil(t *testing.T) {
	e := newEditor(t, 8, 8)

	e.Press(Primary, 1, 1)
	assert.True(t, e.Gesture())
	e.Drag(2, 1)
	e.Release(3, 1)
	assert.False(t, e.Gesture())
	assert.True(t, e.Dirty())

	c := e.Canvas()
	for x := 1; x <= 3; x++ {
		assert.Equal(t, uint8(0), c.ColorIndexAt(x, 1))
	}
	assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(0, 1))

	require.True(t, e.Undo())
	assert.True(t, blank(c))
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	assert.Equal(t, uint8(0), c.ColorIndexAt(2, 1))
}

func TestLinePreview(t *testing.T) {
	e := newEditor(t, 8, 8)
	e.SetTool(Line)
	c := e.Canvas()

	e.Press(Primary, 0, 0)
	e.Drag(5, 0)
	for x := 0; x <= 5; x++ {
		assert.Equal(t, uint8(0), c.ColorIndexAt(x, 0))
	}

	// Shrinking the line must restore the pixels it no longer covers
	e.Drag(2, 0)
	for x := 3; x <= 5; x++ {
		assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(x, 0))
	}

	e.Release(2, 0)
	assert.False(t, c.Stroking())
	for x := 0; x <= 2; x++ {
		assert.Equal(t, uint8(0), c.ColorIndexAt(x, 0))
	}
	assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(3, 0))

	// One gesture is one undo step
	require.True(t, e.Undo())
	assert.True(t, blank(c))
	assert.False(t, e.Undo())
}

func TestRect(t *testing.T) {
	e := newEditor(t, 8, 8)
	e.SetTool(Rect)
	e.SetColorIndex(Secondary, 4)
	c := e.Canvas()

	e.Press(Secondary, 1, 1)
	e.Drag(6, 6)
	e.Release(4, 3)

	for _, p := range []image.Point{{1, 1}, {4, 1}, {1, 3}, {4, 3}, {2, 1}, {1, 2}} {
		assert.Equal(t, uint8(4), c.ColorIndexAt(p.X, p.Y), p)
	}
	assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(2, 2))
	assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(6, 6))
}

func TestEllipse(t *testing.T) {
	e := newEditor(t, 32, 32)
	e.SetTool(Ellipse)
	c := e.Canvas()

	e.Press(Primary, 16, 16)
	assert.True(t, c.Stroking())
	e.Release(22, 20)

	for _, p := range []image.Point{{16, 12}, {16, 20}, {10, 16}, {22, 16}} {
		assert.Equal(t, uint8(0), c.ColorIndexAt(p.X, p.Y), p)
	}
	assert.Equal(t, uint8(canvas.Background), c.ColorIndexAt(16, 16))

	// Dragging to the other side of the centre gives the same radii
	require.True(t, e.Undo())
	e.Press(Primary, 16, 16)
	e.Release(10, 12)
	for _, p := range []image.Point{{16, 12}, {16, 20}, {10, 16}, {22, 16}} {
		assert.Equal(t, uint8(0), c.ColorIndexAt(p.X, p.Y), p)
	}
}

func TestFill(t *testing.T) {
	e := newEditor(t, 8, 8)
	e.SetTool(Fill)
	e.SetColorIndex(Primary, 6)

	e.Press(Primary, 3, 3)
	e.Drag(0, 0)
	e.Release(0, 0)

	for _, p := range e.Canvas().Pix {
		assert.Equal(t, uint8(6), p)
	}
}

func TestUndoRefusedDuringGesture(t *testing.T) {
	e := newEditor(t, 8, 8)

	e.Press(Primary, 0, 0)
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.Equal(t, ErrGesture, e.SetPaletteColor(0, palette.Color{}))

	// A second press while the first is held is ignored
	e.SetTool(Line)
	assert.Equal(t, Pencil, e.Tool())
	e.Press(Secondary, 5, 5)
	assert.Equal(t, uint8(canvas.Background), e.Canvas().ColorIndexAt(5, 5))

	e.Release(0, 0)
	assert.True(t, e.Undo())
	assert.True(t, blank(e.Canvas()))
}

func TestNoImage(t *testing.T) {
	e := New(nil, nil)

	e.Press(Primary, 0, 0)
	e.Drag(1, 1)
	e.Release(1, 1)
	assert.False(t, e.Gesture())
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.Equal(t, ErrNoImage, e.Save("x.bmp"))
	assert.Equal(t, ErrNoImage, e.SetPaletteColor(0, palette.Color{}))

	_, ok := <-e.Render()
	assert.False(t, ok)
}

func TestColorIndex(t *testing.T) {
	e := New(nil, nil)

	assert.Equal(t, uint8(0), e.ColorIndex(Primary))
	assert.Equal(t, uint8(1), e.ColorIndex(Secondary))

	e.SetColorIndex(Primary, 200)
	assert.Equal(t, uint8(palette.Size-1), e.ColorIndex(Primary))

	e.SetColorIndex(NoButton, 3)
	assert.Equal(t, uint8(0), e.ColorIndex(NoButton))
}

func TestSetPaletteColor(t *testing.T) {
	e := newEditor(t, 8, 8)
	red := palette.Color{R: 0xff, A: 0xff}

	require.NoError(t, e.SetPaletteColor(3, red))
	assert.Equal(t, red, e.Canvas().Palette[3])
	assert.True(t, e.Dirty())

	assert.True(t, errors.Is(e.SetPaletteColor(16, red), ErrInvalidPalette))

	require.True(t, e.Undo())
	assert.Equal(t, palette.Default(), e.Canvas().Palette)

	require.True(t, e.Redo())
	assert.Equal(t, red, e.Canvas().Palette[3])
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.dlv.bmp")

	e := newEditor(t, 12, 9)
	e.SetTool(Line)
	e.SetColorIndex(Primary, 5)
	e.Press(Primary, 0, 0)
	e.Release(11, 8)
	require.NoError(t, e.SetPaletteColor(5, palette.Color{B: 0x10, G: 0x20, R: 0x30, A: 0xff}))

	assert.Equal(t, ErrNoPath, e.Save(""))
	require.NoError(t, e.Save(file))
	assert.False(t, e.Dirty())
	assert.Equal(t, file, e.Path())

	// No temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	o := New(nil, discard())
	require.NoError(t, o.Open(file))
	assert.Equal(t, file, o.Path())
	assert.False(t, o.Dirty())
	assert.Equal(t, e.Canvas().Pix, o.Canvas().Pix)
	assert.Equal(t, e.Canvas().Palette, o.Canvas().Palette)
	assert.False(t, o.Undo())

	// Saving again with no path reuses the file
	o.Press(Primary, 3, 3)
	o.Release(3, 3)
	require.NoError(t, o.Save(""))
	assert.False(t, o.Dirty())
}

func TestOpenFailure(t *testing.T) {
	dir := t.TempDir()
	e := newEditor(t, 8, 8)
	e.Press(Primary, 0, 0)
	e.Release(0, 0)
	c := e.Canvas()

	err := e.Open(filepath.Join(dir, "missing.bmp"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	junk := filepath.Join(dir, "junk.bmp")
	require.NoError(t, ioutil.WriteFile(junk, []byte("this is not a bitmap at all, not even close to one"), 0o644))
	err = e.Open(junk)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	assert.Same(t, c, e.Canvas())
	assert.True(t, e.Dirty())
	assert.True(t, e.Undo())
}

func TestSaveFailure(t *testing.T) {
	e := newEditor(t, 8, 8)
	e.Press(Primary, 0, 0)
	e.Release(0, 0)

	err := e.Save(filepath.Join(t.TempDir(), "missing", "test.bmp"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.True(t, e.Dirty())
	assert.Equal(t, "", e.Path())
}

func TestPaletteImportExport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.hex")
	e := newEditor(t, 8, 8)

	require.NoError(t, e.ExportPalette(file))
	require.NoError(t, e.SetPaletteColor(0, palette.Color{R: 0x12, G: 0x34, B: 0x56, A: 0xff}))
	changed := e.Canvas().Palette

	require.NoError(t, e.ImportPalette(file))
	assert.Equal(t, palette.Default(), e.Canvas().Palette)

	require.True(t, e.Undo())
	assert.Equal(t, changed, e.Canvas().Palette)

	err := e.ImportPalette(file + ".missing")
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.Equal(t, changed, e.Canvas().Palette)
}

func TestImport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.png")

	m := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			switch {
			case x < 5:
				m.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
			case x < 12:
				m.Set(x, y, color.RGBA{G: 0xff, A: 0xff})
			default:
				m.Set(x, y, color.RGBA{B: 0xff, A: 0xff})
			}
		}
	}
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())

	e := New(nil, discard())
	require.NoError(t, e.Import(file))
	c := e.Canvas()
	assert.Equal(t, 20, c.Width())
	assert.Equal(t, 10, c.Height())
	assert.True(t, e.Dirty())
	assert.Equal(t, "", e.Path())

	r, g, b, _ := c.At(0, 0).RGBA()
	assert.True(t, r > 0xf000 && g < 0x1000 && b < 0x1000)
	assert.NotEqual(t, c.ColorIndexAt(0, 0), c.ColorIndexAt(19, 0))
}

func TestRender(t *testing.T) {
	e := newEditor(t, 8, 9)
	e.SetColorIndex(Primary, 2)
	e.Press(Primary, 1, 1)
	e.Release(1, 1)

	frame, ok := <-e.Render()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 8, 9), frame.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, frame.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, frame.RGBAAt(0, 0))

	// The frame is a snapshot
	e.Press(Primary, 0, 0)
	e.Release(0, 0)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, frame.RGBAAt(0, 0))
}

func TestTool(t *testing.T) {
	for _, tool := range []Tool{Pencil, Fill, Line, Rect, Ellipse} {
		parsed, ok := ParseTool(tool.String())
		assert.True(t, ok)
		assert.Equal(t, tool, parsed)
	}
	_, ok := ParseTool("spray")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Tool(42).String())
}
