package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/wintrans/internal/applier"
	"github.com/1broseidon/wintrans/internal/daemon"
	"github.com/1broseidon/wintrans/internal/discovery"
	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/1broseidon/wintrans/internal/state"
)

var (
	// ErrUnsupportedKey is returned for key names with no command.
	ErrUnsupportedKey = errors.New("unsupported key")
	// ErrUnsupportedCommand is returned for unknown command values or names.
	ErrUnsupportedCommand = errors.New("unsupported command")
	// ErrUnknownWindow is returned when a window ID is not in the inventory.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrClosed is returned once the engine has shut down.
	ErrClosed = errors.New("engine is shut down")
	// ErrInitialized is returned by a second Initialize.
	ErrInitialized = errors.New("engine already initialized")
)

// teardownTimeout bounds the final reset when the caller's context is gone.
const teardownTimeout = 5 * time.Second

// Options configures an Engine.
type Options struct {
	Discovery       discovery.Options
	RefreshInterval time.Duration
	Sink            PusherConfig
	Logger          *slog.Logger
}

// Engine interprets commands against the transparency state. Commands are
// serialized by cmdMu; periodic discovery runs outside it and only takes the
// lock to merge.
type Engine struct {
	logger     *slog.Logger
	state      *state.State
	discoverer *discovery.Discoverer
	applier    *applier.Applier
	refresher  *daemon.Refresher
	pusher     *Pusher

	cmdMu       sync.Mutex
	initialized bool
	closed      bool

	textMu sync.RWMutex
	text   string

	stopRefresh context.CancelFunc
	wg          sync.WaitGroup

	shutdownOnce sync.Once
	done         chan struct{}
}

// New creates an engine over backend. Nothing touches the desktop until
// Initialize.
func New(backend platform.Backend, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Discovery.Logger == nil {
		opts.Discovery.Logger = logger
	}
	if opts.Sink.Logger == nil {
		opts.Sink.Logger = logger
	}

	e := &Engine{
		logger:     logger,
		state:      state.New(),
		discoverer: discovery.NewDiscoverer(backend, opts.Discovery),
		applier:    applier.New(backend, logger),
		pusher:     NewPusher(opts.Sink),
		done:       make(chan struct{}),
	}
	e.refresher = daemon.NewRefresher(daemon.RefresherConfig{
		Interval: opts.RefreshInterval,
		Logger:   logger,
	}, e.refresh)
	e.text = Render(e.state.Snapshot())
	return e
}

// Initialize performs the first discovery, resets every window to opaque,
// renders and starts the periodic refresh. The refresh runs until Shutdown or
// until ctx is cancelled.
func (e *Engine) Initialize(ctx context.Context) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.initialized {
		return ErrInitialized
	}
	e.initialized = true

	inv := e.state.Refresh(e.discoverer.Windows())
	e.logger.Info("initial discovery", "windows", inv.Len())
	e.prune(e.applier.ResetAll(ctx, inv.IDs()))
	e.renderLocked()

	refreshCtx, cancel := context.WithCancel(ctx)
	e.stopRefresh = cancel
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.refresher.Run(refreshCtx)
	}()
	return nil
}

// HandleKey maps a key name to a command and runs it. Unsupported keys are
// logged and ignored.
func (e *Engine) HandleKey(ctx context.Context, key string) error {
	cmd, ok := KeyCommand(key)
	if !ok {
		e.logger.Warn("unsupported key", "key", key)
		return fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}
	return e.HandleCommand(ctx, cmd)
}

// HandleCommand runs one command to completion.
func (e *Engine) HandleCommand(ctx context.Context, cmd Command) error {
	if cmd == Exit {
		e.Shutdown()
		return nil
	}

	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	if e.closed {
		return ErrClosed
	}

	switch cmd {
	case NavigateUp, NavigateDown:
		delta := 1
		if cmd == NavigateUp {
			delta = -1
		}
		if _, ok := e.state.MoveCursor(delta); !ok {
			return nil
		}
	case IncreaseOpacity:
		e.state.AdjustOpacity(state.OpacityStep)
		e.applyLocked(ctx)
	case DecreaseOpacity:
		e.state.AdjustOpacity(-state.OpacityStep)
		e.applyLocked(ctx)
	case ToggleSelected:
		rec, ok := e.state.ToggleAtCursor()
		if !ok {
			return nil
		}
		e.logger.Debug("toggled window", "window_id", uint64(rec.Window.ID), "selected", rec.Selected)
		e.applyLocked(ctx)
	case SelectAll:
		e.state.SetAllSelected(true)
		e.applyLocked(ctx)
	case UnselectAll:
		e.state.SetAllSelected(false)
		e.applyLocked(ctx)
	case RefreshNow:
		e.state.Refresh(e.discoverer.Windows())
	case ResetAll:
		e.prune(e.applier.ResetAll(ctx, e.state.Windows().IDs()))
	case ResetOpacity:
		e.state.SetOpacity(state.MaxOpacity)
		e.applyLocked(ctx)
	case ToggleHelp:
		e.state.ToggleHelp()
	case Exit:
		// handled above; Shutdown takes cmdMu itself
	default:
		e.logger.Warn("unsupported command", "command", int(cmd))
		return fmt.Errorf("%w: %d", ErrUnsupportedCommand, int(cmd))
	}

	e.renderLocked()
	return nil
}

// SetSelected selects or unselects a window by ID and re-applies.
func (e *Engine) SetSelected(ctx context.Context, id platform.WindowID, selected bool) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !e.state.SetSelected(id, selected) {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, uint64(id))
	}
	e.applyLocked(ctx)
	e.renderLocked()
	return nil
}

// Text returns the latest rendered snapshot.
func (e *Engine) Text() string {
	e.textMu.RLock()
	defer e.textMu.RUnlock()
	return e.text
}

// OnTextChanged registers the display sink and pushes the current text to
// it. The sink's false return triggers a bounded retry.
func (e *Engine) OnTextChanged(sink func(text string) bool) {
	e.pusher.SetSink(sink)
	e.pusher.Push(e.Text())
}

// Done is closed after Exit or Shutdown has finished teardown.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Shutdown resets every known window, then stops the refresher, then the
// pusher. It is safe to call more than once and from any goroutine.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.cmdMu.Lock()
		e.closed = true
		ids := e.state.Windows().IDs()
		e.cmdMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		report := e.applier.ResetAll(ctx, ids)
		cancel()
		e.logger.Info("teardown reset windows", "windows", len(ids), "failed", len(report.Failed))

		if e.stopRefresh != nil {
			e.stopRefresh()
		}
		e.wg.Wait()
		e.pusher.Close()
		close(e.done)
	})
}

// refresh is the periodic pass: discovery outside the lock, merge inside.
func (e *Engine) refresh(ctx context.Context) error {
	windows := e.discoverer.Windows()

	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	if e.closed {
		return nil
	}
	inv := e.state.Refresh(windows)
	e.logger.Debug("refreshed windows", "windows", inv.Len())
	e.renderLocked()
	return nil
}

func (e *Engine) applyLocked(ctx context.Context) {
	snap := e.state.Snapshot()
	e.prune(e.applier.Apply(ctx, snap.Windows, snap.Opacity))
}

func (e *Engine) prune(report applier.Report) {
	if n := e.state.Prune(report.Stale); n > 0 {
		e.logger.Info("pruned closed windows", "windows", n)
	}
}

func (e *Engine) renderLocked() {
	text := Render(e.state.Snapshot())
	e.textMu.Lock()
	e.text = text
	e.textMu.Unlock()
	e.pusher.Push(text)
}
