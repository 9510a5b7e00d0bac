package render

import (
	"math"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/model"
	"github.com/jreast-live/trainmap/internal/position"
)

// Marker geometry, in pixels.
const (
	ringRadius = 15
	discRadius = 6
	ringAlpha  = 0.3
)

// Delay thresholds, in seconds, for marker colors.
const (
	delayOrangeSec = 60
	delayRedSec    = 300
)

var (
	ColorGreen  = RGB{46, 204, 113}
	ColorOrange = RGB{230, 126, 34}
	ColorRed    = RGB{231, 76, 60}
	ColorWhite  = RGB{255, 255, 255}

	colorBackground = RGB{16, 16, 24}
	colorRail       = RGB{90, 90, 110}
)

// DelayColor selects the marker color for a vehicle's delay.
func DelayColor(delaySeconds int) RGB {
	switch {
	case delaySeconds >= delayRedSec:
		return ColorRed
	case delaySeconds >= delayOrangeSec:
		return ColorOrange
	default:
		return ColorGreen
	}
}

// Scene is the input to one frame: the current state view plus the frame
// time. The renderer reads it and mutates only the canvas.
type Scene struct {
	Vehicles         []model.Vehicle
	RailPaths        map[string][]model.RailPath
	Stops            catalog.Catalog
	UseInterpolation bool
	Now              int64
}

type marker struct {
	pos   model.LatLng
	delay int
}

// DrawFrame renders one frame and returns the number of vehicles drawn.
// Vehicles without a finite resolvable position are excluded from this frame
// only. With zero resolvable positions the canvas stays cleared and the
// caller keeps the loop running.
func DrawFrame(c *Canvas, scene Scene) int {
	c.Clear(colorBackground)

	markers := make([]marker, 0, len(scene.Vehicles))
	positions := make([]model.LatLng, 0, len(scene.Vehicles))
	for _, v := range scene.Vehicles {
		p, ok := position.Resolve(v, scene.Stops, scene.UseInterpolation, scene.Now)
		if !ok {
			continue
		}
		markers = append(markers, marker{pos: p, delay: v.DelaySeconds})
		positions = append(positions, p)
	}
	if len(markers) == 0 {
		return 0
	}

	bounds := ComputeBounds(positions)

	// The rail layer is static but redrawn every frame so it stays aligned
	// as the bounds shift with the vehicles.
	for _, paths := range scene.RailPaths {
		for _, path := range paths {
			if len(path) < 2 {
				continue
			}
			px, py := project(bounds, path[0], c)
			for _, pt := range path[1:] {
				nx, ny := project(bounds, pt, c)
				c.Line(px, py, nx, ny, colorRail)
				px, py = nx, ny
			}
		}
	}

	for _, m := range markers {
		x, y := project(bounds, m.pos, c)
		col := DelayColor(m.delay)
		c.BlendDisc(x, y, ringRadius, col, ringAlpha)
		c.FillDisc(x, y, discRadius, col)
		c.Circle(x, y, discRadius, ColorWhite)
	}

	return len(markers)
}

func project(b Bounds, p model.LatLng, c *Canvas) (int, int) {
	x, y := b.Project(p, c.W, c.H)
	return int(math.Round(x)), int(math.Round(y))
}
