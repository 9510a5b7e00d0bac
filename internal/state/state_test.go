package state

import (
	"testing"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/model"
)

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	s := NewStore()

	s.ApplySnapshot(model.Snapshot{Seq: 1, Vehicles: []model.Vehicle{
		{TripID: "a"}, {TripID: "b"}, {TripID: "c"},
	}})
	if got := len(s.View().Vehicles); got != 3 {
		t.Fatalf("vehicles after first snapshot = %d, want 3", got)
	}

	s.ApplySnapshot(model.Snapshot{Seq: 2, Vehicles: []model.Vehicle{
		{TripID: "d"},
	}})

	view := s.View()
	if len(view.Vehicles) != 1 || view.Vehicles[0].TripID != "d" {
		t.Errorf("vehicles = %+v, want only trip d", view.Vehicles)
	}
	if view.Seq != 2 {
		t.Errorf("seq = %d, want 2", view.Seq)
	}
	if view.Stats.Total != 1 {
		t.Errorf("stats.Total = %d, want 1", view.Stats.Total)
	}
}

func TestRailGeometryFirstNonEmptyWins(t *testing.T) {
	s := NewStore()
	first := map[string][]model.RailPath{
		"loop": {{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}},
	}
	second := map[string][]model.RailPath{
		"other": {{{Lat: 9, Lng: 9}, {Lat: 8, Lng: 8}}},
	}

	s.ApplySnapshot(model.Snapshot{Seq: 1}) // no rail yet
	if s.View().RailPaths != nil {
		t.Fatal("rail adopted from snapshot without geometry")
	}

	s.ApplySnapshot(model.Snapshot{Seq: 2, RailPaths: first})
	s.ApplySnapshot(model.Snapshot{Seq: 3, RailPaths: second})

	view := s.View()
	if _, ok := view.RailPaths["loop"]; !ok {
		t.Error("first rail geometry was not retained")
	}
	if _, ok := view.RailPaths["other"]; ok {
		t.Error("later rail geometry overwrote the first")
	}
}

func TestToggleInterpolation(t *testing.T) {
	s := NewStore()

	if !s.View().UseInterpolation {
		t.Fatal("interpolation must default to enabled")
	}
	if got := s.ToggleInterpolation(); got {
		t.Error("first toggle should disable interpolation")
	}
	if got := s.ToggleInterpolation(); !got {
		t.Error("second toggle should re-enable interpolation")
	}
}

func TestConnectionState(t *testing.T) {
	s := NewStore()
	if got := s.View().Conn; got != Connecting {
		t.Fatalf("initial conn = %v, want Connecting", got)
	}

	s.ApplySnapshot(model.Snapshot{Seq: 5, Vehicles: []model.Vehicle{{TripID: "x"}}})
	s.SetConnectionState(Connecting)

	// A disconnect changes the transport state only; the last snapshot stays
	// on screen.
	view := s.View()
	if view.Conn != Connecting {
		t.Errorf("conn = %v, want Connecting", view.Conn)
	}
	if len(view.Vehicles) != 1 {
		t.Errorf("vehicles = %d, want 1 retained across disconnect", len(view.Vehicles))
	}
}

func TestSetStops(t *testing.T) {
	s := NewStore()
	s.SetStops(catalog.Catalog{"A": {ID: "A", Lat: 1, Lng: 2}})

	if _, ok := s.View().Stops["A"]; !ok {
		t.Error("stop catalog not visible in view")
	}
}

func TestConnectionStateString(t *testing.T) {
	tests := []struct {
		cs   ConnectionState
		want string
	}{
		{Connecting, "connecting"},
		{Open, "connected"},
		{Closed, "closed"},
		{ConnectionState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cs.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.cs, got, tt.want)
		}
	}
}
