package render

import "github.com/jreast-live/trainmap/internal/model"

// BoundsMargin is added on every side of the computed view window, in
// degrees, so markers near the edge are not clipped.
const BoundsMargin = 0.05

// Bounds is the geographic window currently mapped onto the drawing surface.
// It is recomputed every frame from the resolved positions and never
// persisted across frames.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// ComputeBounds returns the bounding window of the given positions, expanded
// by BoundsMargin. Only defined for a non-empty set; the caller guards.
func ComputeBounds(positions []model.LatLng) Bounds {
	b := Bounds{
		MinLat: positions[0].Lat, MaxLat: positions[0].Lat,
		MinLng: positions[0].Lng, MaxLng: positions[0].Lng,
	}
	for _, p := range positions[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	b.MinLat -= BoundsMargin
	b.MaxLat += BoundsMargin
	b.MinLng -= BoundsMargin
	b.MaxLng += BoundsMargin
	return b
}

// Project maps a geographic point to pixel coordinates on a w×h surface.
// The latitude axis is inverted so north renders upward. An axis with zero
// extent maps every point to the surface center instead of dividing by zero.
func (b Bounds) Project(p model.LatLng, w, h int) (x, y float64) {
	spanLng := b.MaxLng - b.MinLng
	if spanLng == 0 {
		x = float64(w) / 2
	} else {
		x = (p.Lng - b.MinLng) / spanLng * float64(w)
	}

	spanLat := b.MaxLat - b.MinLat
	if spanLat == 0 {
		y = float64(h) / 2
	} else {
		y = float64(h) - (p.Lat-b.MinLat)/spanLat*float64(h)
	}
	return x, y
}
