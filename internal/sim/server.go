package sim

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/jreast-live/trainmap/internal/model"
)

// Source produces snapshots for the stream endpoint. ScheduleSource and
// ReplaySource both satisfy it.
type Source interface {
	Snapshot(ctx context.Context, now time.Time) (model.Snapshot, error)
	RailPaths() map[string][]model.RailPath
	Stops() []model.Stop
}

// Server exposes the simulated feed over HTTP.
type Server struct {
	src      Source
	interval time.Duration
}

func NewServer(src Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second
	}
	return &Server{src: src, interval: interval}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stops.csv", s.handleStops)
	r.Get("/api/trains/stream", s.handleStream)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"service": "feedsim",
		"endpoints": map[string]string{
			"health": "/api/health",
			"stops":  "/api/stops.csv",
			"stream": "/api/trains/stream",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	stops := s.src.Stops()
	if len(stops) == 0 {
		http.Error(w, "no stop catalog available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	cw := csv.NewWriter(w)
	cw.Write([]string{"stop_id", "stop_name", "stop_lat", "stop_lon"})
	for _, st := range stops {
		cw.Write([]string{
			st.ID,
			st.Name,
			strconv.FormatFloat(st.Lat, 'f', -1, 64),
			strconv.FormatFloat(st.Lng, 'f', -1, 64),
		})
	}
	cw.Flush()
}

// handleStream serves the SSE feed: an immediate snapshot carrying the rail
// geometry, then one snapshot per interval until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	connID := uuid.NewString()
	log.Printf("stream: client %s connected from %s", connID, r.RemoteAddr)
	defer log.Printf("stream: client %s disconnected", connID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "retry: 3000\n\n")
	flusher.Flush()

	ctx := r.Context()
	if err := s.emit(ctx, w, flusher, true); err != nil {
		log.Printf("stream: client %s: %v", connID, err)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.emit(ctx, w, flusher, false); err != nil {
				log.Printf("stream: client %s: %v", connID, err)
				return
			}
		}
	}
}

// emit writes one snapshot event. Rail geometry rides on the first event of
// each connection only.
func (s *Server) emit(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, withRail bool) error {
	snap, err := s.src.Snapshot(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}
	if withRail {
		snap.RailPaths = s.src.RailPaths()
	} else {
		snap.RailPaths = nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
