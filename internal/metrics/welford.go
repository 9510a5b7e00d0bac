package metrics

import (
	"fmt"
	"math"
	"time"
)

// Welford holds running statistics using Welford's online algorithm. Mean
// and standard deviation are updated incrementally in O(1) time and space,
// without storing observations.
type Welford struct {
	Count int     // number of observations
	Mean  float64 // running mean
	M2    float64 // sum of squared differences from mean
}

// Update adds a new observation. Numerically stable.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
func (w *Welford) Update(value float64) {
	w.Count++
	delta := value - w.Mean
	w.Mean += delta / float64(w.Count)
	delta2 := value - w.Mean
	w.M2 += delta * delta2
}

// StdDev returns the population standard deviation, 0 with fewer than 2
// observations.
func (w *Welford) StdDev() float64 {
	if w.Count < 2 {
		return 0
	}
	return math.Sqrt(w.M2 / float64(w.Count))
}

// FrameTimer accumulates statistics over the intervals between frame
// callbacks. The scheduler may coalesce or skip frames under load, so the
// observed intervals are what matter, not the nominal rate.
type FrameTimer struct {
	last time.Time
	Welford
}

// Tick records a frame at the given time. The first tick only establishes
// the baseline.
func (t *FrameTimer) Tick(now time.Time) {
	if !t.last.IsZero() {
		t.Update(float64(now.Sub(t.last).Microseconds()) / 1000.0)
	}
	t.last = now
}

// Summary formats the running frame interval as "16.7ms ±0.3".
func (t *FrameTimer) Summary() string {
	if t.Count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1fms ±%.1f", t.Mean, t.StdDev())
}
