// Package platformtest provides in-memory platform elements and a recording
// backend for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/wintrans/internal/platform"
)

// Element is a scripted accessibility node. Err* fields make the matching
// query fail.
type Element struct {
	WindowID    platform.WindowID
	Control     platform.ControlType
	Title       string
	Class       string
	Offscreen   bool
	Disabled    bool
	Kids        []*Element
	ErrName     error
	ErrOffscrn  error
	ErrChildren error
}

var _ platform.Element = (*Element)(nil)

// Window returns a visible top-level window element.
func Window(id platform.WindowID, title string, kids ...*Element) *Element {
	return &Element{
		WindowID: id,
		Control:  platform.ControlWindow,
		Title:    title,
		Class:    "TestWindow",
		Kids:     kids,
	}
}

// Control returns a visible non-window child element.
func Control(id platform.WindowID, title string, kids ...*Element) *Element {
	return &Element{WindowID: id, Control: platform.ControlOther, Title: title, Class: "TestControl", Kids: kids}
}

// Root returns a root element holding the given top-level elements.
func Root(kids ...*Element) *Element {
	return &Element{Control: platform.ControlOther, Kids: kids}
}

func (e *Element) ID() platform.WindowID { return e.WindowID }
func (e *Element) ControlType() platform.ControlType { return e.Control }

func (e *Element) Name() (string, error) {
	if e.ErrName != nil {
		return "", e.ErrName
	}
	return e.Title, nil
}

func (e *Element) ClassName() (string, error) {
	if e.ErrName != nil {
		return "", e.ErrName
	}
	return e.Class, nil
}

func (e *Element) IsOffscreen() (bool, error) {
	if e.ErrOffscrn != nil {
		return false, e.ErrOffscrn
	}
	return e.Offscreen, nil
}

func (e *Element) IsEnabled() (bool, error) { return !e.Disabled, nil }

func (e *Element) Children() ([]platform.Element, error) {
	if e.ErrChildren != nil {
		return nil, e.ErrChildren
	}
	out := make([]platform.Element, 0, len(e.Kids))
	for _, k := range e.Kids {
		out = append(out, k)
	}
	return out, nil
}

// Call is one recorded style operation.
type Call struct {
	Op    string // "enable" or "disable"
	ID    platform.WindowID
	Alpha uint8
}

func (c Call) String() string {
	if c.Op == "enable" {
		return fmt.Sprintf("enable(%d,%d)", c.ID, c.Alpha)
	}
	return fmt.Sprintf("%s(%d)", c.Op, c.ID)
}

// Backend is an in-memory platform backend that records style calls.
type Backend struct {
	mu      sync.Mutex
	root    platform.Element
	rootErr error
	calls   []Call
	fail    map[platform.WindowID]error
	panics  map[platform.WindowID]any
	closed  bool
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a backend whose tree is root.
func NewBackend(root *Element) *Backend {
	b := &Backend{
		fail:   make(map[platform.WindowID]error),
		panics: make(map[platform.WindowID]any),
	}
	b.SetRoot(root)
	return b
}

// SetRoot replaces the tree returned by Root. A nil root reads as unavailable.
func (b *Backend) SetRoot(root *Element) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if root == nil {
		b.root = nil
		return
	}
	b.root = root
}

// SetRootError makes Root fail with err.
func (b *Backend) SetRootError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rootErr = err
}

// FailWindow makes every style call on id return err. A nil err clears it.
func (b *Backend) FailWindow(id platform.WindowID, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, id)
		return
	}
	b.fail[id] = err
}

// PanicWindow makes every style call on id panic with v. A nil v clears it.
func (b *Backend) PanicWindow(id platform.WindowID, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v == nil {
		delete(b.panics, id)
		return
	}
	b.panics[id] = v
}

func (b *Backend) Root() (platform.Element, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rootErr != nil {
		return nil, b.rootErr
	}
	return b.root, nil
}

func (b *Backend) EnableLayered(id platform.WindowID, alpha uint8) error {
	return b.record(Call{Op: "enable", ID: id, Alpha: alpha})
}

func (b *Backend) DisableLayered(id platform.WindowID) error {
	return b.record(Call{Op: "disable", ID: id})
}

func (b *Backend) record(c Call) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, c)
	if v, ok := b.panics[c.ID]; ok {
		panic(v)
	}
	if err := b.fail[c.ID]; err != nil {
		return &platform.StyleError{Op: c.Op, ID: c.ID, Err: err}
	}
	return nil
}

// Calls returns the recorded style calls in order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// ResetCalls clears the recorded calls.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether Close was called.
func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
