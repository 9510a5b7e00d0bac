package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/jreast-live/trainmap/internal/sim"
)

func main() {
	godotenv.Load()

	var (
		dbPath   = flag.String("db", "", "schedule database path (empty: in-memory demo network)")
		replay   = flag.String("replay", "", "JSONL snapshot capture to replay instead of a schedule")
		port     = flag.Int("port", 8000, "listen port")
		interval = flag.Duration("interval", time.Second, "snapshot emit interval")
		timezone = flag.String("tz", "Asia/Tokyo", "schedule timezone")
	)
	flag.Parse()

	ctx := context.Background()

	var src sim.Source
	var err error
	switch {
	case *replay != "":
		src, err = sim.NewReplaySource(*replay)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
	default:
		path := *dbPath
		if path == "" {
			path = ":memory:"
			log.Println("No -db given, using in-memory demo network")
		}
		db, err := sim.OpenDB(path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := sim.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		if err := sim.SeedDemo(ctx, db); err != nil {
			log.Fatalf("Failed to seed demo network: %v", err)
		}
		src, err = sim.NewScheduleSource(ctx, db, *timezone)
		if err != nil {
			log.Fatalf("Failed to build schedule source: %v", err)
		}
	}

	srv := sim.NewServer(src, *interval)
	addr := fmt.Sprintf(":%d", *port)

	log.Printf("feedsim listening on %s", addr)
	log.Printf("  GET  /api/health        - health check")
	log.Printf("  GET  /api/stops.csv     - stop catalog")
	log.Printf("  GET  /api/trains/stream - SSE snapshot stream")

	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
