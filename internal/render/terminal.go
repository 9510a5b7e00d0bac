package render

import (
	"github.com/gdamore/tcell/v2"
)

// Terminal presents a Canvas on a tcell screen. Each cell encodes two
// vertically stacked pixels through the upper-half-block rune, so the canvas
// is a real pixel raster at terminal-width × 2·(terminal-height−1); the top
// row is reserved for the status line.
type Terminal struct {
	screen tcell.Screen
	canvas *Canvas
}

func NewTerminal(screen tcell.Screen) *Terminal {
	t := &Terminal{screen: screen}
	t.Resize()
	return t
}

// Canvas returns the raster sized for the current terminal.
func (t *Terminal) Canvas() *Canvas {
	return t.canvas
}

// Resize reallocates the canvas after a terminal resize event.
func (t *Terminal) Resize() {
	w, h := t.screen.Size()
	if w < 1 {
		w = 1
	}
	ph := (h - 1) * 2
	if ph < 2 {
		ph = 2
	}
	t.canvas = NewCanvas(w, ph)
}

// Blit copies the canvas to the screen buffer below the status line.
func (t *Terminal) Blit() {
	for cy := 0; cy*2+1 < t.canvas.H; cy++ {
		for x := 0; x < t.canvas.W; x++ {
			up := t.canvas.At(x, cy*2)
			lo := t.canvas.At(x, cy*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(up.R), int32(up.G), int32(up.B))).
				Background(tcell.NewRGBColor(int32(lo.R), int32(lo.G), int32(lo.B)))
			t.screen.SetContent(x, cy+1, '▀', nil, style)
		}
	}
}

// Status draws the single-line header across the top of the screen.
func (t *Terminal) Status(text string) {
	w, _ := t.screen.Size()
	style := tcell.StyleDefault.Bold(true).Reverse(true)
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		t.screen.SetContent(col, 0, r, nil, style)
		col++
	}
	for col < w {
		t.screen.SetContent(col, 0, ' ', nil, style)
		col++
	}
}

// Show flushes the screen buffer to the terminal.
func (t *Terminal) Show() {
	t.screen.Show()
}
