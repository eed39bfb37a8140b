package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultSinkRetries is the number of extra attempts after a failed push.
	DefaultSinkRetries = 2
	// DefaultSinkBackoff is the wait between push attempts.
	DefaultSinkBackoff = time.Second
)

// SinkFunc receives rendered text and reports whether the display took it.
type SinkFunc func(text string) bool

// PusherConfig configures sink delivery.
type PusherConfig struct {
	// Retries is the number of extra attempts; negative means none.
	Retries int
	Backoff time.Duration
	Logger  *slog.Logger
}

// Pusher delivers snapshots to a sink with bounded retry. Each Push replaces
// any delivery still waiting to retry.
type Pusher struct {
	retries int
	backoff time.Duration
	logger  *slog.Logger

	base   context.Context
	stop   context.CancelFunc
	callMu sync.Mutex
	wg     sync.WaitGroup

	mu      sync.Mutex
	sink    SinkFunc
	pending context.CancelFunc
	closed  bool
}

// retryState tracks one delivery.
type retryState struct {
	attempt  int
	deadline time.Time
}

// NewPusher creates a pusher with no sink attached.
func NewPusher(cfg PusherConfig) *Pusher {
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	base, stop := context.WithCancel(context.Background())
	return &Pusher{
		retries: retries,
		backoff: cfg.Backoff,
		logger:  logger,
		base:    base,
		stop:    stop,
	}
}

// SetSink attaches the display sink. A nil sink disables delivery.
func (p *Pusher) SetSink(sink SinkFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
}

// Push delivers text asynchronously.
func (p *Pusher) Push(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.sink == nil {
		return
	}
	if p.pending != nil {
		p.pending()
	}
	ctx, cancel := context.WithCancel(p.base)
	p.pending = cancel
	sink := p.sink

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		p.deliver(ctx, sink, text)
	}()
}

func (p *Pusher) deliver(ctx context.Context, sink SinkFunc, text string) {
	var st retryState
	for {
		ok, ran := p.attempt(ctx, sink, text)
		if !ran || ok {
			return
		}
		if st.attempt >= p.retries {
			p.logger.Warn("display sink rejected snapshot, dropping", "attempts", st.attempt+1)
			return
		}
		st.attempt++
		st.deadline = time.Now().Add(p.backoff)

		timer := time.NewTimer(time.Until(st.deadline))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		p.logger.Debug("retrying display sink", "attempt", st.attempt)
	}
}

// attempt calls the sink unless ctx is already done. Calls are serialized so
// a superseded delivery never lands after its replacement.
func (p *Pusher) attempt(ctx context.Context, sink SinkFunc, text string) (ok, ran bool) {
	p.callMu.Lock()
	defer p.callMu.Unlock()
	if ctx.Err() != nil {
		return false, false
	}
	return sink(text), true
}

// Close cancels pending deliveries and waits for them to finish.
func (p *Pusher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.stop()
	p.wg.Wait()
}
