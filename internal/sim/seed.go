package sim

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jreast-live/trainmap/internal/model"
)

// Demo timetable shape: trains every headway from first to last departure,
// travelSec between stops with dwellSec at each.
const (
	demoFirstDeparture = 5 * 3600
	demoLastDeparture  = 25 * 3600
	demoHeadwaySec     = 600
	demoTravelSec      = 150
	demoDwellSec       = 30
)

type demoLine struct {
	name   string
	route  string
	loop   bool
	stops  []model.Stop
}

// demoLines is a compact Tokyo-ish network: one loop line and one radial
// line crossing it.
var demoLines = []demoLine{
	{
		name:  "loop",
		route: "L1",
		loop:  true,
		stops: []model.Stop{
			{ID: "L01", Name: "Central", Lat: 35.6812, Lng: 139.7671},
			{ID: "L02", Name: "Ginmachi", Lat: 35.6717, Lng: 139.7636},
			{ID: "L03", Name: "Minato", Lat: 35.6556, Lng: 139.7572},
			{ID: "L04", Name: "Shinagara", Lat: 35.6285, Lng: 139.7387},
			{ID: "L05", Name: "Megurodai", Lat: 35.6340, Lng: 139.7158},
			{ID: "L06", Name: "Ebisuno", Lat: 35.6467, Lng: 139.7101},
			{ID: "L07", Name: "Shibumiya", Lat: 35.6580, Lng: 139.7016},
			{ID: "L08", Name: "Harakucho", Lat: 35.6702, Lng: 139.7027},
			{ID: "L09", Name: "Shinjukura", Lat: 35.6896, Lng: 139.7006},
			{ID: "L10", Name: "Ikebukoro", Lat: 35.7295, Lng: 139.7109},
			{ID: "L11", Name: "Tabatano", Lat: 35.7380, Lng: 139.7608},
			{ID: "L12", Name: "Uenohara", Lat: 35.7141, Lng: 139.7774},
		},
	},
	{
		name:  "crosstown",
		route: "C1",
		stops: []model.Stop{
			{ID: "C01", Name: "Shinjukura", Lat: 35.6896, Lng: 139.7006},
			{ID: "C02", Name: "Yotsuyama", Lat: 35.6860, Lng: 139.7300},
			{ID: "C03", Name: "Central", Lat: 35.6812, Lng: 139.7671},
			{ID: "C04", Name: "Ryogoshi", Lat: 35.6960, Lng: 139.7935},
			{ID: "C05", Name: "Kinshimachi", Lat: 35.6967, Lng: 139.8147},
		},
	},
}

// SeedDemo populates an empty schedule database with the demo network so
// feedsim works out of the box. A database that already has trips is left
// alone.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count); err != nil {
		return fmt.Errorf("failed to inspect trips: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, line := range demoLines {
		if err := seedLine(ctx, tx, line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedLine(ctx context.Context, tx *sql.Tx, line demoLine) error {
	for _, s := range line.stops {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO stops (stop_id, stop_name, stop_lat, stop_lon) VALUES (?, ?, ?, ?)`,
			s.ID, s.Name, s.Lat, s.Lng); err != nil {
			return fmt.Errorf("failed to insert stop %s: %w", s.ID, err)
		}
	}

	// Track geometry: straight segments through the stops, closed for loops.
	points := line.stops
	if line.loop {
		points = append(append([]model.Stop{}, line.stops...), line.stops[0])
	}
	for i, s := range points {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rail_shapes (line_name, path_index, point_sequence, lat, lng) VALUES (?, 0, ?, ?, ?)`,
			line.name, i, s.Lat, s.Lng); err != nil {
			return fmt.Errorf("failed to insert rail point: %w", err)
		}
	}

	// Trips in both directions all service day.
	reversed := make([]model.Stop, len(line.stops))
	for i, s := range line.stops {
		reversed[len(line.stops)-1-i] = s
	}

	tripNo := 0
	for dep := demoFirstDeparture; dep <= demoLastDeparture; dep += demoHeadwaySec {
		for dir, stops := range [][]model.Stop{line.stops, reversed} {
			tripNo++
			tripID := fmt.Sprintf("%s-%d-%04d", line.route, dir, tripNo)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO trips (trip_id, route_id, line_name) VALUES (?, ?, ?)`,
				tripID, line.route, line.name); err != nil {
				return fmt.Errorf("failed to insert trip: %w", err)
			}

			t := dep
			for seq, s := range stops {
				arr := t
				depT := t + demoDwellSec
				if seq == 0 {
					depT = t
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO stop_times (trip_id, stop_sequence, stop_id, arrival_seconds, departure_seconds)
					 VALUES (?, ?, ?, ?, ?)`,
					tripID, seq, s.ID, arr, depT); err != nil {
					return fmt.Errorf("failed to insert stop time: %w", err)
				}
				t = depT + demoTravelSec
			}
		}
	}

	return nil
}
