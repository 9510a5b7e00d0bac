package model

// Stop is one entry of the static stop catalog, loaded once at startup and
// immutable afterwards.
type Stop struct {
	ID   string
	Lat  float64
	Lng  float64
	Name string
}

// LatLng is a geographic coordinate. Rail-path points arrive in this shape
// on the wire.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Vehicle is a single snapshot entry. The list is replaced wholesale on
// every snapshot; no entry keeps identity across snapshots.
//
// Position is nullable in the feed (trains may not report GPS), so Lat/Lng
// are pointers, matching how the backend serializes them.
type Vehicle struct {
	TripID       string   `json:"trip_id,omitempty"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	DelaySeconds int      `json:"delay"`
	Interpolated bool     `json:"interpolated"`
	Status       string   `json:"status,omitempty"`
	Progress     float64  `json:"progress,omitempty"`

	// Segment context driving theoretical interpolation. Empty/zero when the
	// backend could not match the vehicle against the timetable.
	FromStopID  string `json:"from_stop_gtfs,omitempty"`
	ToStopID    string `json:"to_stop_gtfs,omitempty"`
	SegDepEpoch int64  `json:"seg_dep_epoch,omitempty"`
	SegArrEpoch int64  `json:"seg_arr_epoch,omitempty"`
}

// RailPath is one ordered polyline of a line's track geometry.
type RailPath []LatLng

// Snapshot is the unit of update delivered by the stream: the full current
// vehicle list, plus rail geometry on the first message of a connection.
type Snapshot struct {
	Seq       int64                 `json:"seq"`
	Timestamp float64               `json:"timestamp"`
	Vehicles  []Vehicle             `json:"vehicles"`
	RailPaths map[string][]RailPath `json:"rail_paths,omitempty"`
}
