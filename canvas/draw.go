package canvas

import "image"

func (c *Canvas) beginStroke() {
	if c.stroke != nil {
		c.Restore(c.stroke)
		return
	}
	c.stroke = c.Snapshot()
}

func (c *Canvas) endStroke(finalize bool) {
	if finalize && c.stroke != nil {
		Release(c.stroke)
		c.stroke = nil
	}
}

// Stroking reports whether a stroke is open.
func (c *Canvas) Stroking() bool {
	return c.stroke != nil
}

// CancelStroke restores the buffer to how it was before the open stroke
// began and closes the stroke. It does nothing if no stroke is open.
func (c *Canvas) CancelStroke() {
	if c.stroke == nil {
		return
	}
	c.Restore(c.stroke)
	Release(c.stroke)
	c.stroke = nil
}

// DrawLine draws a line from (x1, y1) to (x2, y2) as part of a stroke.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, index uint8, finalize bool) {
	c.beginStroke()
	c.line(x1, y1, x2, y2, index)
	c.endStroke(finalize)
}

// DrawRect draws the outline of the rectangle with opposite corners
// (x1, y1) and (x2, y2) as part of a stroke.
func (c *Canvas) DrawRect(x1, y1, x2, y2 int, index uint8, finalize bool) {
	c.beginStroke()
	c.rect(x1, y1, x2, y2, index)
	c.endStroke(finalize)
}

// DrawEllipse draws the outline of the ellipse centred on (cx, cy) with
// radii rx and ry as part of a stroke. When either radius is 0 the ellipse
// is flat and the line from (cx-rx, cy-ry) to (cx+rx, cy+ry) is drawn, so
// a zero ry gives a horizontal line rather than a single point.
func (c *Canvas) DrawEllipse(rx, ry, cx, cy int, index uint8, finalize bool) {
	c.beginStroke()
	c.ellipse(rx, ry, cx, cy, index)
	c.endStroke(finalize)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(a, b int) int {
	if a < b {
		return 1
	}
	return -1
}

// Bresenham's line algorithm, valid in all octants
func (c *Canvas) line(x1, y1, x2, y2 int, index uint8) {
	dx, sx := abs(x2-x1), sign(x1, x2)
	dy, sy := -abs(y2-y1), sign(y1, y2)
	err := dx + dy

	for {
		c.SetPixel(x1, y1, index)
		if x1 == x2 && y1 == y2 {
			return
		}

		e2 := err << 1
		if e2 >= dy {
			if x1 == x2 {
				return
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				return
			}
			err += dx
			y1 += sy
		}
	}
}

func (c *Canvas) rect(x1, y1, x2, y2 int, index uint8) {
	r := image.Rect(x1, y1, x2, y2)
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			if x == x1 || x == x2 || y == y1 || y == y2 {
				c.SetPixel(x, y, index)
			}
		}
	}
}

func (c *Canvas) plot4(x, y float64, cx, cy int, index uint8) {
	c.SetPixel(int(x)+cx, int(y)+cy, index)
	c.SetPixel(int(-x)+cx, int(y)+cy, index)
	c.SetPixel(int(x)+cx, int(-y)+cy, index)
	c.SetPixel(int(-x)+cx, int(-y)+cy, index)
}

// Midpoint ellipse algorithm. Region 1 steps along x while the slope is
// shallower than -1, region 2 steps along y for the remainder of the
// quadrant.
func (c *Canvas) ellipse(rx, ry, cx, cy int, index uint8) {
	rx, ry = abs(rx), abs(ry)

	// The decision parameters do not converge on a flat ellipse
	if rx == 0 || ry == 0 {
		c.line(cx-rx, cy-ry, cx+rx, cy+ry, index)
		return
	}

	rx2, ry2 := float64(rx*rx), float64(ry*ry)

	x, y := 0.0, float64(ry)
	dx, dy := 2*ry2*x, 2*rx2*y

	d1 := ry2 - rx2*float64(ry) + 0.25*rx2
	for dx < dy {
		c.plot4(x, y, cx, cy, index)
		x++
		dx += 2 * ry2
		if d1 < 0 {
			d1 += dx + ry2
		} else {
			y--
			dy -= 2 * rx2
			d1 += dx - dy + ry2
		}
	}

	d2 := ry2*(x+0.5)*(x+0.5) + rx2*(y-1)*(y-1) - rx2*ry2
	for y >= 0 {
		c.plot4(x, y, cx, cy, index)
		y--
		dy -= 2 * rx2
		if d2 > 0 {
			d2 += rx2 - dy
		} else {
			x++
			dx += 2 * ry2
			d2 += dx - dy + rx2
		}
	}
}

// FloodFill replaces the 4-connected region of the color found at (x, y)
// with index. A start point outside the canvas does nothing.
func (c *Canvas) FloodFill(x, y int, index uint8) {
	queue := []image.Point{{x, y}}
	target := -1

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if !c.InBounds(p.X, p.Y) {
			continue
		}

		i := p.Y*c.width + p.X
		if target < 0 {
			target = int(c.Pix[i])
		}

		switch int(c.Pix[i]) {
		case int(index):
			// Already filled
		case target:
			c.Pix[i] = index
			queue = append(queue,
				image.Point{p.X, p.Y - 1},
				image.Point{p.X - 1, p.Y},
				image.Point{p.X + 1, p.Y},
				image.Point{p.X, p.Y + 1},
			)
		}
	}
}
