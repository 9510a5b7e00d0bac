package position

import (
	"math"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/model"
)

// Resolve computes the current geographic position of a vehicle at the given
// epoch time. With interpolation enabled and a matched segment it derives the
// position from elapsed-time progress between the two stops; otherwise it
// returns the raw reported coordinate. ok is false when no finite position
// exists, in which case the vehicle is excluded from the current frame.
func Resolve(v model.Vehicle, stops catalog.Catalog, useInterpolation bool, now int64) (model.LatLng, bool) {
	if !useInterpolation || (v.FromStopID == "" && v.ToStopID == "") {
		return raw(v)
	}

	from, okFrom := stops[v.FromStopID]
	to, okTo := stops[v.ToStopID]
	if !okFrom || !okTo {
		// Graceful degradation, not an error: unmapped stops fall back to
		// the reported coordinate.
		return raw(v)
	}

	// A segment with no duration has undefined progress; the reported
	// coordinate is the only real observation we have.
	if v.SegArrEpoch <= v.SegDepEpoch {
		return raw(v)
	}

	progress := float64(now-v.SegDepEpoch) / float64(v.SegArrEpoch-v.SegDepEpoch)
	progress = clamp(progress, 0, 1)

	p := model.LatLng{
		Lat: from.Lat + (to.Lat-from.Lat)*progress,
		Lng: from.Lng + (to.Lng-from.Lng)*progress,
	}
	if !finite(p) {
		return model.LatLng{}, false
	}
	return p, true
}

func raw(v model.Vehicle) (model.LatLng, bool) {
	if v.Lat == nil || v.Lng == nil {
		return model.LatLng{}, false
	}
	p := model.LatLng{Lat: *v.Lat, Lng: *v.Lng}
	if !finite(p) {
		return model.LatLng{}, false
	}
	return p, true
}

func finite(p model.LatLng) bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
