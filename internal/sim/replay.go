package sim

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jreast-live/trainmap/internal/model"
)

// ReplaySource loops over snapshots captured to a JSONL file (one snapshot
// per line). Rail geometry is adopted from the first snapshot that carries
// any, mirroring the live stream contract. Sequence numbers and timestamps
// are rewritten at emit time so the replay looks live.
type ReplaySource struct {
	snaps []model.Snapshot
	rail  map[string][]model.RailPath

	mu  sync.Mutex
	idx int
	seq int64
}

func NewReplaySource(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	r := &ReplaySource{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap model.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			log.Printf("replay: skipping malformed line %d: %v", lineNo, err)
			continue
		}
		if r.rail == nil && len(snap.RailPaths) > 0 {
			r.rail = snap.RailPaths
		}
		snap.RailPaths = nil
		r.snaps = append(r.snaps, snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}
	if len(r.snaps) == 0 {
		return nil, fmt.Errorf("replay file %s contains no snapshots", path)
	}

	log.Printf("replay: loaded %d snapshots from %s", len(r.snaps), path)
	return r, nil
}

// Stops returns nil: a capture has no catalog, and the client degrades to
// raw coordinates without one.
func (r *ReplaySource) Stops() []model.Stop {
	return nil
}

func (r *ReplaySource) RailPaths() map[string][]model.RailPath {
	return r.rail
}

// Snapshot returns the next captured snapshot, wrapping around at the end.
func (r *ReplaySource) Snapshot(_ context.Context, now time.Time) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snaps[r.idx]
	r.idx = (r.idx + 1) % len(r.snaps)
	r.seq++
	snap.Seq = r.seq
	snap.Timestamp = float64(now.UnixNano()) / 1e9
	return snap, nil
}
