package sim

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jreast-live/trainmap/internal/model"
)

// ActiveTrip is a trip currently in progress.
type ActiveTrip struct {
	TripID         string
	RouteID        string
	LineName       string
	FirstDeparture int // seconds since midnight
	LastArrival    int // seconds since midnight
}

// TripStopTime is one scheduled stop of a trip, joined with the stop's
// coordinates.
type TripStopTime struct {
	StopID           string
	StopName         string
	StopLat          float64
	StopLon          float64
	StopSequence     int
	ArrivalSeconds   int
	DepartureSeconds int
}

// Queries wraps the schedule database reads.
type Queries struct {
	db *sql.DB
}

func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// ActiveTrips returns trips whose scheduled span covers currentSeconds.
func (q *Queries) ActiveTrips(ctx context.Context, currentSeconds int) ([]ActiveTrip, error) {
	query := `
		WITH trip_bounds AS (
			SELECT
				st.trip_id,
				MIN(st.departure_seconds) AS first_departure,
				MAX(st.arrival_seconds)  AS last_arrival
			FROM stop_times st
			GROUP BY st.trip_id
		)
		SELECT
			t.trip_id,
			t.route_id,
			t.line_name,
			tb.first_departure,
			tb.last_arrival
		FROM trips t
		JOIN trip_bounds tb ON t.trip_id = tb.trip_id
		WHERE tb.first_departure <= ?
		  AND tb.last_arrival >= ?
	`

	rows, err := q.db.QueryContext(ctx, query, currentSeconds, currentSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to query active trips: %w", err)
	}
	defer rows.Close()

	var trips []ActiveTrip
	for rows.Next() {
		var trip ActiveTrip
		if err := rows.Scan(&trip.TripID, &trip.RouteID, &trip.LineName,
			&trip.FirstDeparture, &trip.LastArrival); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// TripStopTimes returns all stop times for a trip in sequence order.
func (q *Queries) TripStopTimes(ctx context.Context, tripID string) ([]TripStopTime, error) {
	query := `
		SELECT
			st.stop_id,
			COALESCE(s.stop_name, '') AS stop_name,
			COALESCE(s.stop_lat, 0)   AS stop_lat,
			COALESCE(s.stop_lon, 0)   AS stop_lon,
			st.stop_sequence,
			st.arrival_seconds,
			st.departure_seconds
		FROM stop_times st
		LEFT JOIN stops s ON st.stop_id = s.stop_id
		WHERE st.trip_id = ?
		ORDER BY st.stop_sequence
	`

	rows, err := q.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stop times: %w", err)
	}
	defer rows.Close()

	var stopTimes []TripStopTime
	for rows.Next() {
		var st TripStopTime
		if err := rows.Scan(&st.StopID, &st.StopName, &st.StopLat, &st.StopLon,
			&st.StopSequence, &st.ArrivalSeconds, &st.DepartureSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan stop time: %w", err)
		}
		stopTimes = append(stopTimes, st)
	}

	return stopTimes, rows.Err()
}

// Stops returns the full stop catalog.
func (q *Queries) Stops(ctx context.Context) ([]model.Stop, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT stop_id, stop_name, stop_lat, stop_lon FROM stops ORDER BY stop_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stops: %w", err)
	}
	defer rows.Close()

	var stops []model.Stop
	for rows.Next() {
		var s model.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan stop: %w", err)
		}
		stops = append(stops, s)
	}

	return stops, rows.Err()
}

// RailPaths returns the track geometry grouped by line.
func (q *Queries) RailPaths(ctx context.Context) (map[string][]model.RailPath, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT line_name, path_index, lat, lng
		FROM rail_shapes
		ORDER BY line_name, path_index, point_sequence`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rail shapes: %w", err)
	}
	defer rows.Close()

	paths := make(map[string][]model.RailPath)
	lastLine := ""
	lastIdx := -1
	for rows.Next() {
		var line string
		var idx int
		var pt model.LatLng
		if err := rows.Scan(&line, &idx, &pt.Lat, &pt.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan rail point: %w", err)
		}
		if line != lastLine || idx != lastIdx {
			paths[line] = append(paths[line], model.RailPath{})
			lastLine, lastIdx = line, idx
		}
		n := len(paths[line]) - 1
		paths[line][n] = append(paths[line][n], pt)
	}

	return paths, rows.Err()
}
