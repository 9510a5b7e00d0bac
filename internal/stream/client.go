package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jreast-live/trainmap/internal/model"
)

// Handlers receives decoded stream events. Callbacks run on the client's
// goroutine, one at a time, in arrival order.
type Handlers struct {
	OnSnapshot func(model.Snapshot)
	OnOpen     func()
	OnClose    func()
}

// Client maintains one persistent Server-Sent Events subscription to the
// snapshot stream. The client is the transport, so reconnection lives here:
// after a disconnect it waits the retry delay and subscribes again, and
// OnClose/OnOpen make the state change visible. A malformed message fails
// only itself; prior state is untouched.
type Client struct {
	url    string
	client *http.Client
	retry  time.Duration
	lg     *slog.Logger
	h      Handlers
}

func NewClient(url string, retry time.Duration, lg *slog.Logger, h Handlers) *Client {
	if retry <= 0 {
		retry = 3 * time.Second
	}
	return &Client{
		url:   url,
		retry: retry,
		lg:    lg,
		h:     h,
		// No overall timeout: the response body is a long-lived stream.
		// Liveness comes from the transport itself.
		client: &http.Client{},
	}
}

// Run subscribes and dispatches events until ctx is cancelled, which is the
// only way it returns. The subscription is released deterministically on
// teardown.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.lg.Warn("stream disconnected, retrying",
			slog.String("retry", c.retry.String()), slog.String("err", errString(err)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retry):
		}
	}
}

func (c *Client) subscribe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	if c.h.OnOpen != nil {
		c.h.OnOpen()
	}
	defer func() {
		if c.h.OnClose != nil {
			c.h.OnClose()
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	// First snapshots carry full rail geometry and can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var event string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			c.dispatch(event, data.String())
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, "retry:"):
			if ms, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "retry:"))); err == nil && ms > 0 {
				c.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
	return scanner.Err()
}

// dispatch decodes one complete stream message. Non-snapshot events and
// malformed payloads are dropped with a diagnostic.
func (c *Client) dispatch(event, data string) {
	if data == "" {
		return
	}
	if event != "" && event != "snapshot" {
		c.lg.Debug("ignoring stream event", slog.String("event", event))
		return
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		c.lg.Warn("discarding malformed snapshot",
			slog.String("err", err.Error()), slog.Int("bytes", len(data)))
		return
	}
	if c.h.OnSnapshot != nil {
		c.h.OnSnapshot(snap)
	}
}

func errString(err error) string {
	if err == nil {
		return "eof"
	}
	return err.Error()
}
