package dotedit

import (
	"errors"
	"image"
	"io"
	"log"
	"os"

	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/history"
	"github.com/bodgit/dotedit/level"
	"github.com/bodgit/dotedit/palette"
)

var (
	// ErrNoImage is returned by operations that need an open image.
	ErrNoImage = errors.New("dotedit: no image open")
	// ErrNoPath is returned when saving an image that has never been saved
	// without giving a path.
	ErrNoPath = errors.New("dotedit: no file path")
	// ErrGesture is returned by operations that cannot run while a gesture
	// is in progress.
	ErrGesture = errors.New("dotedit: gesture in progress")
)

// Editor is an editing session for a single image.
type Editor struct {
	config  *Config
	logger  *log.Logger
	canvas  *canvas.Canvas
	history *history.History
	tool    Tool
	colors  [2]uint8
	button  Button
	start   image.Point
	path    string
	dirty   bool
}

// New returns an Editor with no image open. A nil config uses
// DefaultConfig.
func New(config *Config, logger *log.Logger) *Editor {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Editor{
		config:  config,
		logger:  logger,
		history: history.New(config.HistoryLimit),
		colors:  [2]uint8{0, 1},
		button:  NoButton,
	}
}

// Canvas returns the open image, or nil.
func (e *Editor) Canvas() *canvas.Canvas {
	return e.canvas
}

// Path returns the file the image was last loaded from or saved to.
func (e *Editor) Path() string {
	return e.path
}

// Dirty reports whether the image has changed since it was last loaded or
// saved.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Format returns the level format the image would currently be saved as.
func (e *Editor) Format() level.Format {
	if e.canvas == nil {
		return level.DLV1
	}
	return level.FormatFor(e.canvas.Width(), e.canvas.Height(), len(e.canvas.UsedIndices()))
}

// Gesture reports whether a gesture is in progress.
func (e *Editor) Gesture() bool {
	return e.button != NoButton
}

func (e *Editor) replace(c *canvas.Canvas, path string) {
	e.canvas = c
	e.path = path
	e.dirty = false
	e.button = NoButton
	e.history.Reset()
}

// NewImage replaces the open image with a blank one. A width or height of
// 0 uses the configured default.
func (e *Editor) NewImage(width, height int) error {
	if width == 0 {
		width = e.config.Width
	}
	if height == 0 {
		height = e.config.Height
	}

	c, err := canvas.NewWithPalette(width, height, e.config.DefaultPalette())
	if err != nil {
		return err
	}

	e.replace(c, "")
	e.logger.Printf("New %dx%d image\n", width, height)

	return nil
}

// Open loads an image file, replacing the open image. On failure the open
// image is left untouched.
func (e *Editor) Open(path string) error {
	if e.Gesture() {
		return ErrGesture
	}

	c, err := Load(path)
	if err != nil {
		return err
	}

	e.replace(c, path)
	e.logger.Printf("Opened \"%s\", %dx%d\n", path, c.Width(), c.Height())

	return nil
}

// Import reduces an arbitrary image to 16 colors and opens it as a new
// unsaved image.
func (e *Editor) Import(path string) error {
	if e.Gesture() {
		return ErrGesture
	}

	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return &IOError{Op: "decode", Path: path, Err: err}
	}

	c, err := canvas.FromImage(m, e.config.Dither)
	if err != nil {
		return err
	}

	e.replace(c, "")
	e.dirty = true
	e.logger.Printf("Imported \"%s\", %dx%d\n", path, c.Width(), c.Height())

	return nil
}

// Save writes the image to path, or to the path it was loaded from when
// path is empty.
func (e *Editor) Save(path string) error {
	if e.canvas == nil {
		return ErrNoImage
	}
	if e.Gesture() {
		return ErrGesture
	}
	if path == "" {
		path = e.path
	}
	if path == "" {
		return ErrNoPath
	}

	if err := Save(path, e.canvas); err != nil {
		return err
	}

	e.path = path
	e.dirty = false
	e.logger.Printf("Saved \"%s\" as %s\n", path, e.Format())

	return nil
}

// Tool returns the selected tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool selects the tool used by the next gesture. It is ignored during
// a gesture.
func (e *Editor) SetTool(t Tool) {
	if e.Gesture() {
		return
	}
	e.tool = t
}

// ColorIndex returns the palette index selected for b.
func (e *Editor) ColorIndex(b Button) uint8 {
	if b != Primary && b != Secondary {
		return 0
	}
	return e.colors[b]
}

// SetColorIndex selects the palette index used when drawing with b.
// Indices beyond the palette are clamped to the last entry.
func (e *Editor) SetColorIndex(b Button, index uint8) {
	if b != Primary && b != Secondary {
		return
	}
	if index >= palette.Size {
		index = palette.Size - 1
	}
	e.colors[b] = index
}

// Press starts a gesture at x, y with the selected tool. The state before
// the gesture is recorded so it can be undone.
func (e *Editor) Press(b Button, x, y int) {
	if e.canvas == nil || e.Gesture() || (b != Primary && b != Secondary) {
		return
	}

	e.history.Push(history.NewDrawCommand(e.canvas))
	e.button = b
	e.start = image.Pt(x, y)
	e.dirty = true

	index := e.colors[b]
	switch e.tool {
	case Pencil:
		e.canvas.SetPixel(x, y, index)
	case Fill:
		e.canvas.FloodFill(x, y, index)
	case Line:
		e.canvas.DrawLine(x, y, x, y, index, false)
	case Rect:
		e.canvas.DrawRect(x, y, x, y, index, false)
	case Ellipse:
		e.canvas.DrawEllipse(1, 1, x, y, index, false)
	}
}

// Drag continues the gesture to x, y.
func (e *Editor) Drag(x, y int) {
	e.stroke(x, y, false)
}

// Release ends the gesture at x, y.
func (e *Editor) Release(x, y int) {
	if !e.Gesture() {
		return
	}
	e.stroke(x, y, true)
	e.button = NoButton
}

func (e *Editor) stroke(x, y int, finalize bool) {
	if !e.Gesture() {
		return
	}

	index := e.colors[e.button]
	switch e.tool {
	case Pencil:
		e.canvas.SetPixel(x, y, index)
	case Line:
		e.canvas.DrawLine(e.start.X, e.start.Y, x, y, index, finalize)
	case Rect:
		e.canvas.DrawRect(e.start.X, e.start.Y, x, y, index, finalize)
	case Ellipse:
		e.canvas.DrawEllipse(abs(x-e.start.X), abs(y-e.start.Y), e.start.X, e.start.Y, index, finalize)
	}
}

// Undo reverts the most recent change. It does nothing and returns false
// during a gesture or when there is nothing to undo.
func (e *Editor) Undo() bool {
	if e.canvas == nil || e.Gesture() {
		return false
	}
	if !e.history.Undo() {
		return false
	}
	e.dirty = true
	return true
}

// Redo reapplies the most recently undone change.
func (e *Editor) Redo() bool {
	if e.canvas == nil || e.Gesture() {
		return false
	}
	if !e.history.Redo() {
		return false
	}
	e.dirty = true
	return true
}

// SetPaletteColor changes one palette entry.
func (e *Editor) SetPaletteColor(index uint8, c palette.Color) error {
	if e.canvas == nil {
		return ErrNoImage
	}
	if e.Gesture() {
		return ErrGesture
	}
	if index >= palette.Size {
		return ErrInvalidPalette
	}

	e.history.Push(history.NewPaletteCommand(e.canvas))
	e.canvas.Palette[index] = c
	e.dirty = true

	return nil
}

// ImportPalette replaces the palette with one read from a palette text
// file. Entries missing from the file are unchanged.
func (e *Editor) ImportPalette(path string) error {
	if e.canvas == nil {
		return ErrNoImage
	}
	if e.Gesture() {
		return ErrGesture
	}

	p, err := ReadPalette(path, e.canvas.Palette)
	if err != nil {
		return err
	}

	e.history.Push(history.NewPaletteCommand(e.canvas))
	e.canvas.Palette = p
	e.dirty = true
	e.logger.Printf("Imported palette \"%s\"\n", path)

	return nil
}

// ExportPalette writes the palette to a palette text file.
func (e *Editor) ExportPalette(path string) error {
	if e.canvas == nil {
		return ErrNoImage
	}
	return WritePalette(path, e.canvas.Palette)
}

// Render converts a snapshot of the image to RGBA on a separate goroutine.
// The channel delivers one frame and is then closed; it is closed without
// a frame when no image is open.
func (e *Editor) Render() <-chan *image.RGBA {
	out := make(chan *image.RGBA, 1)
	if e.canvas == nil {
		close(out)
		return out
	}

	c := e.canvas.Clone()
	go func() {
		defer close(out)
		out <- &image.RGBA{
			Pix:    c.RGBA(),
			Stride: c.Width() * 4,
			Rect:   c.Bounds(),
		}
	}()

	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
