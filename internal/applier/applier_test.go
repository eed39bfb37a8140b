package applier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/1broseidon/wintrans/internal/platform"
	pt "github.com/1broseidon/wintrans/internal/platform/platformtest"
	"github.com/1broseidon/wintrans/internal/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func inventory(selected map[platform.WindowID]bool, ids ...platform.WindowID) *state.Inventory {
	s := state.New()
	var windows []platform.Window
	for _, id := range ids {
		windows = append(windows, platform.Window{ID: id, Label: "w"})
	}
	s.Refresh(windows)
	for id, sel := range selected {
		s.SetSelected(id, sel)
	}
	return s.Windows()
}

func TestApply_SelectedEnabledOthersDisabled(t *testing.T) {
	backend := pt.NewBackend(nil)
	a := New(backend, testLogger())
	inv := inventory(map[platform.WindowID]bool{1: true}, 1, 2, 3)

	report := a.Apply(context.Background(), inv, 255)

	want := []pt.Call{
		{Op: "enable", ID: 1, Alpha: 255},
		{Op: "disable", ID: 2},
		{Op: "disable", ID: 3},
	}
	if got := backend.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if !report.OK() || report.Applied != 3 {
		t.Errorf("report = %+v, want 3 applied", report)
	}
}

func TestApply_Idempotent(t *testing.T) {
	backend := pt.NewBackend(nil)
	a := New(backend, testLogger())
	inv := inventory(map[platform.WindowID]bool{1: true, 3: true}, 1, 2, 3)

	a.Apply(context.Background(), inv, 128)
	first := backend.Calls()
	backend.ResetCalls()
	a.Apply(context.Background(), inv, 128)
	second := backend.Calls()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second apply = %v, want %v", second, first)
	}
}

func TestApply_BestEffort(t *testing.T) {
	backend := pt.NewBackend(nil)
	backend.FailWindow(1, errors.New("access denied"))
	backend.FailWindow(2, platform.ErrStaleWindow)
	a := New(backend, testLogger())
	inv := inventory(map[platform.WindowID]bool{1: true, 2: true, 3: true}, 1, 2, 3, 4)

	report := a.Apply(context.Background(), inv, 200)

	if got := backend.Calls(); len(got) != 4 {
		t.Fatalf("calls = %v, want 4 calls despite failures", got)
	}
	calls := backend.Calls()
	if calls[2] != (pt.Call{Op: "enable", ID: 3, Alpha: 200}) || calls[3] != (pt.Call{Op: "disable", ID: 4}) {
		t.Errorf("trailing calls = %v", calls[2:])
	}
	if !reflect.DeepEqual(report.Failed, []platform.WindowID{1, 2}) {
		t.Errorf("Failed = %v, want [1 2]", report.Failed)
	}
	if !reflect.DeepEqual(report.Stale, []platform.WindowID{2}) {
		t.Errorf("Stale = %v, want [2]", report.Stale)
	}
	if report.Applied != 2 || report.OK() {
		t.Errorf("report = %+v", report)
	}
}

func TestApply_ClampsAlpha(t *testing.T) {
	backend := pt.NewBackend(nil)
	a := New(backend, testLogger())
	a.Apply(context.Background(), inventory(map[platform.WindowID]bool{1: true}, 1), 400)

	if got := backend.Calls(); got[0].Alpha != 255 {
		t.Errorf("alpha = %d, want 255", got[0].Alpha)
	}
}

func TestApply_StopsOnCancel(t *testing.T) {
	backend := pt.NewBackend(nil)
	a := New(backend, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := a.Apply(ctx, inventory(nil, 1, 2), 255)
	if len(backend.Calls()) != 0 || report.Applied != 0 {
		t.Errorf("cancelled apply issued %v", backend.Calls())
	}
}

func TestResetAll(t *testing.T) {
	backend := pt.NewBackend(nil)
	backend.FailWindow(2, errors.New("denied"))
	a := New(backend, testLogger())

	report := a.ResetAll(context.Background(), []platform.WindowID{1, 2, 3})

	want := []pt.Call{{Op: "disable", ID: 1}, {Op: "disable", ID: 2}, {Op: "disable", ID: 3}}
	if got := backend.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if report.Applied != 2 || !reflect.DeepEqual(report.Failed, []platform.WindowID{2}) || len(report.Stale) != 0 {
		t.Errorf("report = %+v", report)
	}
}
