// Package push owns the client's single Server-Sent Events connection to
// the board's notify stream and delivers every event, in order, to one
// handler.
package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/matakom/informator-3000/internal/clock"
)

// StreamPath is the notify endpoint relative to the API root.
const StreamPath = "/notify?stream=article"

var errStreamClosed = errors.New("push: stream closed by server")

// Config holds configuration for creating an Adapter.
type Config struct {
	// URL is the full stream URL, e.g. "http://localhost:8080/notify?stream=article".
	URL string
	// HTTPClient is used for the stream request. It must not set a
	// Timeout, which would cut the stream. If nil, a plain client is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Clock schedules reconnect attempts. Defaults to Real.
	Clock clock.Clock
	// InitialBackoff and MaxBackoff bound the reconnect delay. Default
	// 1s and 30s. A retry field sent by the server replaces InitialBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Adapter manages at most one live stream at a time.
type Adapter struct {
	url     string
	client  *http.Client
	logger  *slog.Logger
	clock   clock.Clock
	initial time.Duration
	ceiling time.Duration

	mu   sync.Mutex
	conn *connection

	connected atomic.Bool
}

type connection struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("push: URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = time.Second
	}
	ceiling := cfg.MaxBackoff
	if ceiling < initial {
		ceiling = max(30*time.Second, initial)
	}
	return &Adapter{
		url:     cfg.URL,
		client:  client,
		logger:  logger,
		clock:   clk,
		initial: initial,
		ceiling: ceiling,
	}, nil
}

// Connect opens the stream and keeps it open until Disconnect. A previous
// connection is closed, and its goroutine has exited, before the new one
// starts, so handlers from an earlier Connect never fire again.
//
// onData and onStatus run on the adapter's reader goroutine. They must not
// call Connect or Disconnect. onData is handed the connection's context,
// so work it starts is cancelled along with the connection.
func (a *Adapter) Connect(onData Handler, onStatus StatusFunc) {
	if onData == nil {
		onData = func(context.Context, Payload) {}
	}
	if onStatus == nil {
		onStatus = func(bool) {}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		a.logger.Info("restarting push stream to bind new handlers")
		a.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &connection{cancel: cancel, done: make(chan struct{})}
	a.conn = c

	a.logger.Info("connecting push stream", "url", a.url)
	go a.run(ctx, c, onData, onStatus)
}

// Disconnect closes the stream. It is a no-op when not connected.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return
	}
	a.logger.Info("closing push stream")
	a.stopLocked()
}

// Connected reports whether the stream is currently open.
func (a *Adapter) Connected() bool { return a.connected.Load() }

func (a *Adapter) stopLocked() {
	a.conn.cancel()
	<-a.conn.done
	a.conn = nil
	a.connected.Store(false)
}

func (a *Adapter) run(ctx context.Context, c *connection, onData Handler, onStatus StatusFunc) {
	defer close(c.done)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.initial
	b.MaxInterval = a.ceiling
	b.Reset()

	for {
		opened, retry, err := a.stream(ctx, onData, onStatus)
		if ctx.Err() != nil {
			return
		}
		a.connected.Store(false)
		a.logger.Warn("push stream error", "error", err)
		onStatus(false)

		if retry > 0 && retry != b.InitialInterval {
			b.InitialInterval = retry
			if b.MaxInterval < retry {
				b.MaxInterval = retry
			}
			b.Reset()
		} else if opened {
			b.Reset()
		}

		if !a.sleep(ctx, b.NextBackOff()) {
			return
		}
	}
}

func (a *Adapter) sleep(ctx context.Context, d time.Duration) bool {
	wake := make(chan struct{})
	t := a.clock.AfterFunc(d, func() { close(wake) })
	select {
	case <-ctx.Done():
		t.Stop()
		return false
	case <-wake:
		return true
	}
}

// stream runs one connection attempt until it fails. It reports whether
// the stream was opened and the last retry delay the server sent.
func (a *Adapter) stream(ctx context.Context, onData Handler, onStatus StatusFunc) (bool, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.client.Do(req)
	if err != nil {
		return false, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, 0, fmt.Errorf("push: unexpected status %s", resp.Status)
	}

	a.connected.Store(true)
	a.logger.Info("push stream connected")
	onStatus(true)

	sc := newScanner(resp.Body)
	for sc.next() {
		if ctx.Err() != nil {
			return true, sc.retry, ctx.Err()
		}
		f := sc.frame()
		if !boundEvents[f.name] {
			a.logger.Debug("push event with unbound name", "event", f.name)
		}
		a.logger.Debug("push event", "event", f.name, "data", f.data)
		onData(ctx, Parse(f.name, f.data))
	}
	if err := sc.Err(); err != nil {
		return true, sc.retry, err
	}
	return true, sc.retry, errStreamClosed
}
