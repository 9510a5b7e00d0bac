package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jreast-live/trainmap/internal/catalog"
	"github.com/jreast-live/trainmap/internal/config"
	"github.com/jreast-live/trainmap/internal/logging"
	"github.com/jreast-live/trainmap/internal/metrics"
	"github.com/jreast-live/trainmap/internal/render"
	"github.com/jreast-live/trainmap/internal/state"
	"github.com/jreast-live/trainmap/internal/stream"
)

func main() {
	cfg := config.Load()
	lg := logging.New(cfg.LogLevel, cfg.LogDir)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	if err := run(cfg, lg, screen); err != nil && err != context.Canceled {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "trainmap: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *slog.Logger, screen tcell.Screen) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store := state.NewStore()

	// tcell owns its event queue; pump events onto a channel the frame loop
	// can drain without blocking.
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	// Catalog load is asynchronous: frames render with raw coordinates until
	// it lands.
	g.Go(func() error {
		store.SetStops(catalog.Load(ctx, cfg.StopsSource, lg))
		return nil
	})

	g.Go(func() error {
		client := stream.NewClient(cfg.StreamURL, cfg.ReconnectDelay, lg, stream.Handlers{
			OnSnapshot: store.ApplySnapshot,
			OnOpen:     func() { store.SetConnectionState(state.Open) },
			OnClose:    func() { store.SetConnectionState(state.Connecting) },
		})
		return client.Run(ctx)
	})

	g.Go(func() error {
		term := render.NewTerminal(screen)
		var timer metrics.FrameTimer
		loop := render.NewLoop(cfg.TargetFPS)

		return loop.Run(ctx, func(now time.Time) {
			drainEvents(events, screen, term, store, cancel)
			timer.Tick(now)

			view := store.View()
			drawn := render.DrawFrame(term.Canvas(), render.Scene{
				Vehicles:         view.Vehicles,
				RailPaths:        view.RailPaths,
				Stops:            view.Stops,
				UseInterpolation: view.UseInterpolation,
				Now:              now.Unix(),
			})
			term.Blit()
			term.Status(statusLine(view, drawn, &timer))
			term.Show()
		})
	})

	return g.Wait()
}

func drainEvents(events <-chan tcell.Event, screen tcell.Screen, term *render.Terminal, store *state.Store, cancel context.CancelFunc) {
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				term.Resize()
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape,
					ev.Key() == tcell.KeyCtrlC,
					ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
					cancel()
				case ev.Key() == tcell.KeyRune && (ev.Rune() == 'i' || ev.Rune() == 'I'):
					store.ToggleInterpolation()
				}
			}
		default:
			return
		}
	}
}

func statusLine(view state.View, drawn int, timer *metrics.FrameTimer) string {
	mode := "interp"
	if !view.UseInterpolation {
		mode = "raw"
	}
	return fmt.Sprintf(" %s | trains %d/%d matched %d delayed %d | mode %s | frame %s | seq %d | [i]nterp [q]uit",
		view.Conn, drawn, view.Stats.Total, view.Stats.Matched, view.Stats.Delayed,
		mode, timer.Summary(), view.Seq)
}
