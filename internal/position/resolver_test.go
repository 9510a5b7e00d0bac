package position

import (
	"math"
	"testing"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/model"
)

func f(v float64) *float64 { return &v }

var testStops = catalog.Catalog{
	"A": {ID: "A", Lat: 10.0, Lng: 20.0},
	"B": {ID: "B", Lat: 12.0, Lng: 24.0},
}

func matchedVehicle() model.Vehicle {
	return model.Vehicle{
		TripID:       "trip-1",
		Lat:          f(10.9),
		Lng:          f(21.9),
		Interpolated: true,
		FromStopID:   "A",
		ToStopID:     "B",
		SegDepEpoch:  1000,
		SegArrEpoch:  1100,
	}
}

func TestResolveInterpolation(t *testing.T) {
	tests := []struct {
		name    string
		now     int64
		wantLat float64
		wantLng float64
	}{
		{"at departure", 1000, 10.0, 20.0},
		{"midway", 1050, 11.0, 22.0},
		{"at arrival", 1100, 12.0, 24.0},
		{"before departure clamps to from stop", 900, 10.0, 20.0},
		{"after arrival clamps to to stop", 1500, 12.0, 24.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Resolve(matchedVehicle(), testStops, true, tt.now)
			if !ok {
				t.Fatal("Resolve() ok = false, want true")
			}
			if math.Abs(p.Lat-tt.wantLat) > 1e-9 || math.Abs(p.Lng-tt.wantLng) > 1e-9 {
				t.Errorf("Resolve() = (%v, %v), want (%v, %v)", p.Lat, p.Lng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestResolveRawFallback(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Vehicle)
		interp bool
	}{
		{"interpolation disabled", func(v *model.Vehicle) {}, false},
		{"no segment match", func(v *model.Vehicle) {
			v.FromStopID = ""
			v.ToStopID = ""
		}, true},
		{"from stop not in catalog", func(v *model.Vehicle) {
			v.FromStopID = "missing"
		}, true},
		{"to stop not in catalog", func(v *model.Vehicle) {
			v.ToStopID = "missing"
		}, true},
		{"zero-duration segment", func(v *model.Vehicle) {
			v.SegArrEpoch = v.SegDepEpoch
		}, true},
		{"inverted segment", func(v *model.Vehicle) {
			v.SegArrEpoch = v.SegDepEpoch - 10
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := matchedVehicle()
			tt.mutate(&v)
			p, ok := Resolve(v, testStops, tt.interp, 1050)
			if !ok {
				t.Fatal("Resolve() ok = false, want raw fallback")
			}
			if p.Lat != 10.9 || p.Lng != 21.9 {
				t.Errorf("Resolve() = (%v, %v), want raw (10.9, 21.9)", p.Lat, p.Lng)
			}
		})
	}
}

func TestResolveExcluded(t *testing.T) {
	tests := []struct {
		name string
		v    model.Vehicle
	}{
		{"nil coordinates, no match", model.Vehicle{}},
		{"nil lat only", model.Vehicle{Lng: f(20.0)}},
		{"NaN coordinate", model.Vehicle{Lat: f(math.NaN()), Lng: f(20.0)}},
		{"infinite coordinate", model.Vehicle{Lat: f(10.0), Lng: f(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Resolve(tt.v, testStops, true, 1050); ok {
				t.Error("Resolve() ok = true, want excluded")
			}
		})
	}
}

func TestResolveUnmatchedKeepsRawWhenInterpolating(t *testing.T) {
	v := model.Vehicle{Lat: f(5.5), Lng: f(6.5)}
	p, ok := Resolve(v, testStops, true, 0)
	if !ok {
		t.Fatal("Resolve() ok = false, want true")
	}
	if p.Lat != 5.5 || p.Lng != 6.5 {
		t.Errorf("Resolve() = (%v, %v), want (5.5, 6.5)", p.Lat, p.Lng)
	}
}
