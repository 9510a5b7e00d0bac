package stats

import "github.com/jreast-live/trainmap/internal/model"

// DelayedThresholdSeconds is the delay above which a vehicle counts as
// delayed in the summary (strictly greater).
const DelayedThresholdSeconds = 60

// Stats summarizes one snapshot's vehicle list.
type Stats struct {
	Total   int // all vehicles in the snapshot
	Matched int // vehicles with an interpolated (timetable-matched) position
	Delayed int // vehicles more than DelayedThresholdSeconds behind schedule
}

// Compute derives summary counts from a snapshot. Called once per snapshot,
// not per frame.
func Compute(vehicles []model.Vehicle) Stats {
	st := Stats{Total: len(vehicles)}
	for _, v := range vehicles {
		if v.Interpolated {
			st.Matched++
		}
		if v.DelaySeconds > DelayedThresholdSeconds {
			st.Delayed++
		}
	}
	return st
}
