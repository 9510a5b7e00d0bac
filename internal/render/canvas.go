package render

// RGB is an 8-bit color. The zero value is black, which doubles as the
// background.
type RGB struct {
	R, G, B uint8
}

// Canvas is an RGB raster the renderer draws into. It is blitted to the
// terminal once per frame; all drawing operations clip silently at the
// edges.
type Canvas struct {
	W, H int
	Pix  []RGB
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{W: w, H: h, Pix: make([]RGB, w*h)}
}

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col RGB) {
	for i := range c.Pix {
		c.Pix[i] = col
	}
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

func (c *Canvas) Set(x, y int, col RGB) {
	if c.in(x, y) {
		c.Pix[y*c.W+x] = col
	}
}

func (c *Canvas) At(x, y int) RGB {
	if c.in(x, y) {
		return c.Pix[y*c.W+x]
	}
	return RGB{}
}

// Line draws a 1px segment with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int, col RGB) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDisc paints a filled disc of radius r centered at (cx, cy).
func (c *Canvas) FillDisc(cx, cy, r int, col RGB) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

// BlendDisc alpha-blends a translucent disc over the existing pixels.
func (c *Canvas) BlendDisc(cx, cy, r int, col RGB, alpha float64) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if !c.in(x, y) {
				continue
			}
			base := c.Pix[y*c.W+x]
			c.Pix[y*c.W+x] = RGB{
				R: blend(base.R, col.R, alpha),
				G: blend(base.G, col.G, alpha),
				B: blend(base.B, col.B, alpha),
			}
		}
	}
}

// Circle draws a 1px outline with the midpoint circle algorithm.
func (c *Canvas) Circle(cx, cy, r int, col RGB) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y, col)
		c.Set(cx+y, cy+x, col)
		c.Set(cx-y, cy+x, col)
		c.Set(cx-x, cy+y, col)
		c.Set(cx-x, cy-y, col)
		c.Set(cx-y, cy-x, col)
		c.Set(cx+y, cy-x, col)
		c.Set(cx+x, cy-y, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func blend(base, over uint8, alpha float64) uint8 {
	return uint8(float64(base)*(1-alpha) + float64(over)*alpha + 0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
