package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncesim/internal/paint"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const blank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Ink values stored per cell. Balls use InkBall+ColorIndex.
const (
	InkNone = iota
	InkWall
	InkText
	InkBall
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int

	pen  int
	view viewport
}

// viewport maps arena coordinates onto sub-pixels.
type viewport struct {
	ox, oy, scale float64
}

func (v viewport) project(p paint.Point) (int, int) {
	return int(math.Round((p.X - v.ox) * v.scale)), int(math.Round((p.Y - v.oy) * v.scale))
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.alloc()
	return c
}

func (c *Canvas) alloc() {
	c.Grid = make([][]rune, c.Height)
	c.Ink = make([][]int, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
		c.Ink[i] = make([]int, c.Width)
	}
	c.Clear()
}

// Resize reallocates the canvas; contents are lost.
func (c *Canvas) Resize(w, h int) {
	if w == c.Width && h == c.Height {
		return
	}
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.alloc()
}

// Set lights the sub-pixel (x, y) with the current pen. The canvas is
// Width*2 by Height*4 sub-pixels. Cells holding text are left alone.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	if c.Ink[row][col] == InkText {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.pen != InkNone {
		c.Ink[row][col] = c.pen
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = InkNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws an outline with the midpoint algorithm. Radii under one
// sub-pixel collapse to a dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// DrawText writes s at character cell (col, row), clipped to the canvas.
func (c *Canvas) DrawText(col, row int, s string) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 || x >= c.Width {
			continue
		}
		c.Grid[row][x] = r
		c.Ink[row][x] = InkText
	}
}

// DrawShapes scales the arena of list to fit the canvas, keeping its
// aspect ratio, and draws every primitive.
func (c *Canvas) DrawShapes(list paint.ShapeList) {
	if list.Empty() {
		return
	}
	sw, sh := float64(c.Width*2-1), float64(c.Height*4-1)
	c.view = viewport{
		ox:    list.UpperLeft.X,
		oy:    list.UpperLeft.Y,
		scale: math.Min(sw/list.Width(), sh/list.Height()),
	}

	// text first so the drawing never overwrites it
	for _, item := range list.Items {
		if t, ok := item.(paint.Text); ok {
			x, y := c.view.project(t.Position)
			c.DrawText(x/2, y/4, t.Text)
		}
	}
	for _, item := range list.Items {
		switch s := item.(type) {
		case paint.Line:
			c.pen = InkWall
			x0, y0 := c.view.project(s.Start)
			x1, y1 := c.view.project(s.End)
			c.DrawLine(x0, y0, x1, y1)
		case paint.Circle:
			c.pen = InkBall + s.ColorIndex
			x, y := c.view.project(s.Center)
			c.DrawCircle(x, y, int(math.Round(s.Radius*c.view.scale)))
		}
	}
	c.pen = InkNone
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors the canvas with theme, styling runs of equal ink together.
func (c *Canvas) Render(theme Theme) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Ink[i][j] == c.Ink[i][start] {
				continue
			}
			run := string(row[start:j])
			if ink := c.Ink[i][start]; ink == InkNone {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.InkColor(ink)).Render(run))
			}
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
