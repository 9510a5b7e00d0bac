package state

import (
	"sync"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/model"
	"github.com/jreast-live/trainmap/internal/stats"
)

// ConnectionState tracks the transport lifecycle of the snapshot stream.
type ConnectionState int

const (
	Connecting ConnectionState = iota
	Open
	Closed
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Store is the single owner of mutable client state. The stream ingestor and
// the frame loop run on separate goroutines, so every transition happens
// under the store lock and replaces values wholesale; a render can never
// observe a half-applied snapshot. Readers take a View, which shares slices
// that no writer mutates in place.
type Store struct {
	mu               sync.RWMutex
	vehicles         []model.Vehicle
	railPaths        map[string][]model.RailPath
	stops            catalog.Catalog
	conn             ConnectionState
	useInterpolation bool
	stats            stats.Stats
	lastSeq          int64
}

// View is one consistent read of everything a frame needs.
type View struct {
	Vehicles         []model.Vehicle
	RailPaths        map[string][]model.RailPath
	Stops            catalog.Catalog
	Conn             ConnectionState
	UseInterpolation bool
	Stats            stats.Stats
	Seq              int64
}

func NewStore() *Store {
	return &Store{
		conn:             Connecting,
		useInterpolation: true,
		stops:            catalog.Catalog{},
	}
}

// ApplySnapshot replaces the vehicle list atomically and recomputes the
// summary stats. Rail geometry is adopted from the first snapshot carrying a
// non-empty set; later payloads are ignored.
func (s *Store) ApplySnapshot(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles = snap.Vehicles
	s.lastSeq = snap.Seq
	s.stats = stats.Compute(snap.Vehicles)

	if s.railPaths == nil && len(snap.RailPaths) > 0 {
		s.railPaths = snap.RailPaths
	}
}

// SetConnectionState records a transport-level state change.
func (s *Store) SetConnectionState(cs ConnectionState) {
	s.mu.Lock()
	s.conn = cs
	s.mu.Unlock()
}

// SetStops installs the stop catalog once its (asynchronous) load finishes.
func (s *Store) SetStops(c catalog.Catalog) {
	s.mu.Lock()
	s.stops = c
	s.mu.Unlock()
}

// ToggleInterpolation flips between raw-coordinate display and theoretical
// interpolation, returning the new mode. Takes effect on the next frame.
func (s *Store) ToggleInterpolation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useInterpolation = !s.useInterpolation
	return s.useInterpolation
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Vehicles:         s.vehicles,
		RailPaths:        s.railPaths,
		Stops:            s.stops,
		Conn:             s.conn,
		UseInterpolation: s.useInterpolation,
		Stats:            s.stats,
		Seq:              s.lastSeq,
	}
}
