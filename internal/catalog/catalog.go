package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jreast-live/trainmap/internal/model"
)

// Catalog maps stop id to its catalog entry. Lookups are the only access
// pattern; the map is never mutated after Load returns.
type Catalog map[string]model.Stop

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Load fetches and parses the stop catalog from an HTTP URL or a local file.
// It fails soft: on any error it logs and returns an empty catalog, and the
// rest of the pipeline degrades to raw reported coordinates. One attempt
// only; no retry.
func Load(ctx context.Context, source string, lg *slog.Logger) Catalog {
	stops, err := fetch(ctx, source)
	if err != nil {
		lg.Warn("stop catalog unavailable, falling back to raw coordinates",
			slog.String("source", source), slog.String("err", err.Error()))
		return Catalog{}
	}
	lg.Info("stop catalog loaded", slog.Int("stops", len(stops)))
	return stops
}

func fetch(ctx context.Context, source string) (Catalog, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog file: %w", err)
		}
		body = f
	}
	defer body.Close()

	return Parse(body)
}

// Parse reads GTFS-style stop records (stop_id, stop_lat, stop_lon,
// stop_name; coordinates stringified). Rows with a missing id or unparsable
// coordinates are skipped.
func Parse(r io.Reader) (Catalog, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := makeIndex(header)
	stops := make(Catalog)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		id := getField(record, idx, "stop_id")
		if id == "" {
			continue
		}
		lat, errLat := strconv.ParseFloat(getField(record, idx, "stop_lat"), 64)
		lng, errLng := strconv.ParseFloat(getField(record, idx, "stop_lon"), 64)
		if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsNaN(lng) {
			continue
		}

		stops[id] = model.Stop{
			ID:   id,
			Lat:  lat,
			Lng:  lng,
			Name: getField(record, idx, "stop_name"),
		}
	}

	return stops, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
