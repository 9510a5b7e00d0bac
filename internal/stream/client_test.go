package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jreast-live/trainmap/internal/logging"
	"github.com/jreast-live/trainmap/internal/model"
)

func sseServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, body)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientDispatchesSnapshots(t *testing.T) {
	body := "event: snapshot\n" +
		`data: {"seq":1,"timestamp":1724500000.5,"vehicles":[{"trip_id":"t1","lat":35.5,"lng":139.5,"delay":0,"interpolated":true}]}` + "\n\n" +
		"event: snapshot\n" +
		"data: {not json}\n\n" + // malformed: dropped, stream continues
		"event: other\n" +
		`data: {"seq":99}` + "\n\n" + // unknown event type: ignored
		": keepalive\n\n" +
		"event: snapshot\n" +
		`data: {"seq":2,"vehicles":[]}` + "\n\n"
	srv := sseServer(t, body)

	snaps := make(chan model.Snapshot, 8)
	var opened atomic.Int32
	client := NewClient(srv.URL, time.Second, logging.Discard(), Handlers{
		OnSnapshot: func(s model.Snapshot) { snaps <- s },
		OnOpen:     func() { opened.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	first := waitSnap(t, snaps)
	if first.Seq != 1 {
		t.Errorf("first seq = %d, want 1", first.Seq)
	}
	if len(first.Vehicles) != 1 || first.Vehicles[0].TripID != "t1" {
		t.Errorf("first vehicles = %+v", first.Vehicles)
	}
	if first.Vehicles[0].Lat == nil || *first.Vehicles[0].Lat != 35.5 {
		t.Error("lat not decoded")
	}

	second := waitSnap(t, snaps)
	if second.Seq != 2 {
		t.Errorf("second seq = %d, want 2 (malformed and foreign events skipped)", second.Seq)
	}
	if opened.Load() == 0 {
		t.Error("OnOpen never fired")
	}
}

func TestClientReconnects(t *testing.T) {
	var connects atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := connects.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: snapshot\ndata: {\"seq\":%d}\n\n", n)
		// Close the stream: the client must come back on its own.
	}))
	defer srv.Close()

	snaps := make(chan model.Snapshot, 8)
	var closes atomic.Int32
	client := NewClient(srv.URL, 10*time.Millisecond, logging.Discard(), Handlers{
		OnSnapshot: func(s model.Snapshot) { snaps <- s },
		OnClose:    func() { closes.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	if s := waitSnap(t, snaps); s.Seq != 1 {
		t.Errorf("seq = %d, want 1", s.Seq)
	}
	if s := waitSnap(t, snaps); s.Seq != 2 {
		t.Errorf("seq = %d, want 2 after reconnect", s.Seq)
	}
	if closes.Load() == 0 {
		t.Error("OnClose never fired across disconnect")
	}
}

func TestClientHonorsRetryField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "retry: 250\n\nevent: snapshot\ndata: {\"seq\":1}\n\n")
	}))
	defer srv.Close()

	var got model.Snapshot
	client := NewClient(srv.URL, time.Second, logging.Discard(), Handlers{
		OnSnapshot: func(s model.Snapshot) { got = s },
	})

	if err := client.subscribe(context.Background()); err != nil {
		t.Fatalf("subscribe() error = %v", err)
	}
	if got.Seq != 1 {
		t.Errorf("seq = %d, want 1", got.Seq)
	}
	if client.retry != 250*time.Millisecond {
		t.Errorf("retry = %v, want 250ms from stream", client.retry)
	}
}

func TestClientStopsOnCancel(t *testing.T) {
	srv := sseServer(t, "event: snapshot\ndata: {\"seq\":1}\n\n")

	client := NewClient(srv.URL, time.Second, logging.Discard(), Handlers{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func waitSnap(t *testing.T, ch <-chan model.Snapshot) model.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return model.Snapshot{}
	}
}
