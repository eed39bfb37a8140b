// Package state holds the transparency model shared by the interactive
// command path and the periodic refresh: the ordered window inventory, the
// global opacity, the cursor and the help flag.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/1broseidon/wintrans/internal/platform"
)

const (
	// MinOpacity is fully transparent.
	MinOpacity = 0
	// MaxOpacity is fully opaque and the default.
	MaxOpacity = 255
	// OpacityStep is the change applied by one opacity command.
	OpacityStep = 10
)

// State is the transparency model. The inventory is published atomically so
// readers never lock; every read-modify-write goes through mu.
type State struct {
	mu          sync.Mutex
	windows     atomic.Pointer[Inventory]
	opacity     int
	cursor      int
	helpVisible bool
}

// Snapshot is a consistent view of the whole state.
type Snapshot struct {
	Windows     *Inventory
	Opacity     int
	Cursor      int
	HelpVisible bool
}

// New returns an empty state at full opacity.
func New() *State {
	s := &State{opacity: MaxOpacity}
	s.windows.Store(NewInventory(nil))
	return s
}

// Windows returns the latest published inventory.
func (s *State) Windows() *Inventory {
	return s.windows.Load()
}

// Snapshot returns the current state under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Windows:     s.windows.Load(),
		Opacity:     s.opacity,
		Cursor:      s.cursor,
		HelpVisible: s.helpVisible,
	}
}

// Opacity returns the global alpha value.
func (s *State) Opacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opacity
}

// Cursor returns the cursor index. It is 0 when the inventory is empty.
func (s *State) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// MoveCursor moves the cursor by delta, wrapping modulo the window count.
// It reports false and leaves the cursor alone when there are no windows.
func (s *State) MoveCursor(delta int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.windows.Load().Len()
	if n == 0 {
		return s.cursor, false
	}
	s.cursor = ((s.cursor+delta)%n + n) % n
	return s.cursor, true
}

// AdjustOpacity adds delta to the opacity, clamped to [MinOpacity, MaxOpacity].
func (s *State) AdjustOpacity(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opacity = ClampOpacity(s.opacity + delta)
	return s.opacity
}

// SetOpacity sets the opacity, clamped to [MinOpacity, MaxOpacity].
func (s *State) SetOpacity(v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opacity = ClampOpacity(v)
	return s.opacity
}

// ToggleAtCursor flips the Selected flag of the record under the cursor and
// returns the updated record. It reports false when there are no windows.
func (s *State) ToggleAtCursor() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.windows.Load()
	if inv.Len() == 0 {
		return Record{}, false
	}
	rec := inv.At(s.cursor)
	next := inv.withSelected(s.cursor, !rec.Selected)
	s.windows.Store(next)
	return next.At(s.cursor), true
}

// SetAllSelected sets every record's Selected flag and returns the count.
func (s *State) SetAllSelected(selected bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.windows.Load().withAllSelected(selected)
	s.windows.Store(next)
	return next.Len()
}

// SetSelected sets the Selected flag of the record with the given ID. It
// reports false when no such record exists.
func (s *State) SetSelected(id platform.WindowID, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.windows.Load()
	i, ok := inv.index[id]
	if !ok {
		return false
	}
	s.windows.Store(inv.withSelected(i, selected))
	return true
}

// ToggleHelp flips the help flag and returns the new value.
func (s *State) ToggleHelp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpVisible = !s.helpVisible
	return s.helpVisible
}

// Refresh merges a discovery result into the latest inventory, publishes the
// result and re-clamps the cursor. Discovery itself must run before the call
// so the lock is never held across a tree walk.
func (s *State) Refresh(discovered []platform.Window) *Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Merge(s.windows.Load(), discovered)
	s.windows.Store(next)
	s.clampCursor(next.Len())
	return next
}

// Prune drops the given windows, typically ones a style call found stale,
// and returns how many were removed.
func (s *State) Prune(ids []platform.WindowID) int {
	if len(ids) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.windows.Load()
	drop := make(map[platform.WindowID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	next := inv.without(drop)
	s.windows.Store(next)
	s.clampCursor(next.Len())
	return inv.Len() - next.Len()
}

func (s *State) clampCursor(n int) {
	switch {
	case n == 0 || s.cursor < 0:
		s.cursor = 0
	case s.cursor >= n:
		s.cursor = n - 1
	}
}

// ClampOpacity limits v to [MinOpacity, MaxOpacity].
func ClampOpacity(v int) int {
	switch {
	case v < MinOpacity:
		return MinOpacity
	case v > MaxOpacity:
		return MaxOpacity
	default:
		return v
	}
}
