package stats

import (
	"testing"

	"github.com/jreast-live/trainmap/internal/model"
)

func TestCompute(t *testing.T) {
	vehicles := []model.Vehicle{
		{TripID: "a", Interpolated: true, DelaySeconds: 0},
		{TripID: "b", Interpolated: true, DelaySeconds: 120},
		{TripID: "c", Interpolated: true, DelaySeconds: 400},
		{TripID: "d", Interpolated: false, DelaySeconds: 0},
		{TripID: "e", Interpolated: false, DelaySeconds: 30},
	}

	st := Compute(vehicles)
	if st.Total != 5 {
		t.Errorf("Total = %d, want 5", st.Total)
	}
	if st.Matched != 3 {
		t.Errorf("Matched = %d, want 3", st.Matched)
	}
	if st.Delayed != 2 {
		t.Errorf("Delayed = %d, want 2", st.Delayed)
	}
}

func TestComputeThresholdIsStrict(t *testing.T) {
	tests := []struct {
		delay int
		want  int
	}{
		{59, 0},
		{60, 0}, // exactly at the threshold is on time
		{61, 1},
	}

	for _, tt := range tests {
		st := Compute([]model.Vehicle{{DelaySeconds: tt.delay}})
		if st.Delayed != tt.want {
			t.Errorf("Compute(delay=%d).Delayed = %d, want %d", tt.delay, st.Delayed, tt.want)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	if st := Compute(nil); st != (Stats{}) {
		t.Errorf("Compute(nil) = %+v, want zero stats", st)
	}
}
