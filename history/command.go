/*
Package history implements undo and redo for a canvas.

Every command holds a full copy of the state it will restore rather than a
description of the change. Executing a command first captures the current
state into a new command, then restores its own copy and returns the new
command, so undoing produces the redo step and vice versa.
*/
package history

import (
	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/palette"
)

// Command restores a canvas to an earlier state.
type Command interface {
	// Execute restores the captured state and returns the command that
	// reverts it. A command must only be executed once.
	Execute() Command
}

// releaser is implemented by commands holding pooled buffers.
type releaser interface {
	Release()
}

type drawCommand struct {
	c   *canvas.Canvas
	pix []uint8
}

// NewDrawCommand captures the pixel buffer of c. It is pushed before
// anything is drawn.
func NewDrawCommand(c *canvas.Canvas) Command {
	return &drawCommand{c: c, pix: c.Snapshot()}
}

func (d *drawCommand) Execute() Command {
	inverse := NewCanvasCommand(d.c)
	d.c.Restore(d.pix)
	d.Release()
	return inverse
}

func (d *drawCommand) Release() {
	if d.pix != nil {
		canvas.Release(d.pix)
		d.pix = nil
	}
}

type paletteCommand struct {
	c       *canvas.Canvas
	palette palette.Palette
}

// NewPaletteCommand captures the palette of c. It is pushed before any
// palette entry is changed.
func NewPaletteCommand(c *canvas.Canvas) Command {
	return &paletteCommand{c: c, palette: c.Palette}
}

func (p *paletteCommand) Execute() Command {
	inverse := NewPaletteCommand(p.c)
	p.c.Palette = p.palette
	return inverse
}

type canvasCommand struct {
	c       *canvas.Canvas
	pix     []uint8
	palette palette.Palette
}

// NewCanvasCommand captures both the pixel buffer and the palette of c.
func NewCanvasCommand(c *canvas.Canvas) Command {
	return &canvasCommand{c: c, pix: c.Snapshot(), palette: c.Palette}
}

func (cc *canvasCommand) Execute() Command {
	inverse := NewCanvasCommand(cc.c)
	cc.c.Restore(cc.pix)
	cc.c.Palette = cc.palette
	cc.Release()
	return inverse
}

func (cc *canvasCommand) Release() {
	if cc.pix != nil {
		canvas.Release(cc.pix)
		cc.pix = nil
	}
}
