// Package hotkeys binds global X11 key sequences to engine commands for the
// daemon.
package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ErrNoX11 is returned for backends without X11 internals.
var ErrNoX11 = errors.New("global hotkeys require an X11 backend")

// Dispatcher runs a command outside the X event loop.
type Dispatcher func(cmd engine.Command)

// queueSize bounds hotkey presses waiting behind a slow command.
const queueSize = 16

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	dispatch Dispatcher
	logger   *slog.Logger
	commands chan engine.Command
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, dispatch Dispatcher, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, ErrNoX11
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		dispatch: dispatch,
		logger:   logger,
		commands: make(chan engine.Command, queueSize),
	}, nil
}

// Run dispatches queued commands one at a time, in press order, until ctx
// is done. A panicking command is logged and the queue keeps draining.
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-h.commands:
			h.dispatchOne(cmd)
		}
	}
}

func (h *Handler) dispatchOne(cmd engine.Command) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("hotkey command panic", "command", cmd.String(), "panic", r)
		}
	}()
	h.dispatch(cmd)
}

// enqueue runs on the X event loop and must not block it; presses beyond
// queueSize are dropped.
func (h *Handler) enqueue(cmd engine.Command) {
	select {
	case h.commands <- cmd:
	default:
		h.logger.Warn("hotkey queue full, dropping command", "command", cmd.String())
	}
}

// Register binds every configured command. A sequence that cannot be grabbed
// is logged and reported, but does not stop the remaining bindings.
func (h *Handler) Register(bindings map[engine.Command]string) error {
	var errs []error
	for _, cmd := range sortedCommands(bindings) {
		seq := bindings[cmd]
		if err := h.RegisterCommand(cmd, seq); err != nil {
			h.logger.Warn("failed to register hotkey", "command", cmd.String(), "keys", seq, "error", err)
			errs = append(errs, err)
			continue
		}
		h.logger.Info("registered hotkey", "command", cmd.String(), "keys", seq)
	}
	return errors.Join(errs...)
}

// RegisterCommand binds one key sequence to a command.
func (h *Handler) RegisterCommand(cmd engine.Command, keySequence string) error {
	if err := h.RegisterFunc(keySequence, func() {
		h.logger.Debug("hotkey triggered", "command", cmd.String())
		h.enqueue(cmd)
	}); err != nil {
		return fmt.Errorf("hotkey %q for %s: %w", keySequence, cmd, err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func sortedCommands(bindings map[engine.Command]string) []engine.Command {
	cmds := make([]engine.Command, 0, len(bindings))
	for cmd := range bindings {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a hotkey fires regardless of CapsLock/NumLock/ScrollLock.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
