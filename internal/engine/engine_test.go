package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/wintrans/internal/platform"
	pt "github.com/1broseidon/wintrans/internal/platform/platformtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func threeWindows() *pt.Element {
	return pt.Root(pt.Window(1, "W1"), pt.Window(2, "W2"), pt.Window(3, "W3"))
}

func newTestEngine(t *testing.T, root *pt.Element) (*Engine, *pt.Backend) {
	t.Helper()
	backend := pt.NewBackend(root)
	e := New(backend, Options{
		RefreshInterval: time.Hour,
		Sink:            PusherConfig{Retries: 2, Backoff: time.Millisecond},
		Logger:          testLogger(),
	})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	t.Cleanup(e.Shutdown)
	return e, backend
}

func disables(ids ...platform.WindowID) []pt.Call {
	calls := make([]pt.Call, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, pt.Call{Op: "disable", ID: id})
	}
	return calls
}

func TestInitialize_ResetsAllWindows(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())

	if got := backend.Calls(); !reflect.DeepEqual(got, disables(1, 2, 3)) {
		t.Errorf("calls = %v, want reset of all windows", got)
	}
	want := "Opacity: 255/255 (100%)\nShow Help (Enter)\n  W1 <\n  W2\n  W3\n"
	if got := e.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if err := e.Initialize(context.Background()); !errors.Is(err, ErrInitialized) {
		t.Errorf("second Initialize() = %v, want ErrInitialized", err)
	}
}

func TestScenario_ToggleThenDecrease(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	ctx := context.Background()
	backend.ResetCalls()

	if err := e.HandleKey(ctx, " "); err != nil {
		t.Fatalf("HandleKey(space) error: %v", err)
	}
	want := []pt.Call{{Op: "enable", ID: 1, Alpha: 255}, {Op: "disable", ID: 2}, {Op: "disable", ID: 3}}
	if got := backend.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("after toggle calls = %v, want %v", got, want)
	}
	if !strings.Contains(e.Text(), "> W1 <") {
		t.Errorf("Text() = %q, want W1 selected under cursor", e.Text())
	}

	backend.ResetCalls()
	if err := e.HandleKey(ctx, "-"); err != nil {
		t.Fatalf("HandleKey(-) error: %v", err)
	}
	want = []pt.Call{{Op: "enable", ID: 1, Alpha: 245}, {Op: "disable", ID: 2}, {Op: "disable", ID: 3}}
	if got := backend.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("after decrease calls = %v, want %v", got, want)
	}
	if !strings.HasPrefix(e.Text(), "Opacity: 245/255 (96%)\n") {
		t.Errorf("Text() = %q, want 245 header", e.Text())
	}

	backend.ResetCalls()
	e.HandleKey(ctx, "+")
	if got := backend.Calls(); got[0] != (pt.Call{Op: "enable", ID: 1, Alpha: 255}) {
		t.Errorf("after increase first call = %v, want alpha 255", got[0])
	}
}

func TestScenario_SelectAllThenExit(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	ctx := context.Background()

	if err := e.HandleCommand(ctx, SelectAll); err != nil {
		t.Fatalf("SelectAll error: %v", err)
	}
	backend.ResetCalls()

	if err := e.HandleKey(ctx, "q"); err != nil {
		t.Fatalf("HandleKey(q) error: %v", err)
	}
	if got := backend.Calls(); !reflect.DeepEqual(got, disables(1, 2, 3)) {
		t.Errorf("teardown calls = %v, want disable for every window", got)
	}

	select {
	case <-e.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done() not closed after Exit")
	}
	if err := e.HandleCommand(ctx, ToggleSelected); !errors.Is(err, ErrClosed) {
		t.Errorf("command after Exit = %v, want ErrClosed", err)
	}

	e.Shutdown()
	if got := backend.Calls(); len(got) != 3 {
		t.Errorf("second Shutdown issued more calls: %v", got)
	}
}

func TestHandleKey_Unsupported(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	backend.ResetCalls()
	before := e.Text()

	err := e.HandleKey(context.Background(), "x")
	if !errors.Is(err, ErrUnsupportedKey) {
		t.Errorf("HandleKey(x) = %v, want ErrUnsupportedKey", err)
	}
	if len(backend.Calls()) != 0 || e.Text() != before {
		t.Error("unsupported key changed state")
	}

	if err := e.HandleCommand(context.Background(), Unknown); !errors.Is(err, ErrUnsupportedCommand) {
		t.Errorf("HandleCommand(Unknown) = %v, want ErrUnsupportedCommand", err)
	}
}

func TestNavigation_WrapsAndSkipsNativeCalls(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	ctx := context.Background()
	backend.ResetCalls()

	e.HandleKey(ctx, "up")
	if c := e.Status().Cursor; c != 2 {
		t.Errorf("cursor after up from 0 = %d, want 2", c)
	}
	e.HandleKey(ctx, "s")
	if c := e.Status().Cursor; c != 0 {
		t.Errorf("cursor after down from 2 = %d, want 0", c)
	}
	if len(backend.Calls()) != 0 {
		t.Errorf("navigation issued style calls: %v", backend.Calls())
	}
}

func TestRefreshNow_PreservesSelection(t *testing.T) {
	e, backend := newTestEngine(t, pt.Root(pt.Window(1, "A"), pt.Window(2, "B")))
	ctx := context.Background()
	e.HandleCommand(ctx, ToggleSelected)

	backend.SetRoot(pt.Root(pt.Window(1, "A renamed"), pt.Window(3, "C")))
	if err := e.HandleKey(ctx, "f1"); err != nil {
		t.Fatalf("HandleKey(f1) error: %v", err)
	}

	st := e.Status()
	got := map[platform.WindowID]bool{}
	for _, w := range st.Windows {
		got[w.ID] = w.Selected
	}
	want := map[platform.WindowID]bool{1: true, 3: false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selection after refresh = %v, want %v", got, want)
	}
	if st.Windows[0].Label != "A renamed" {
		t.Errorf("label = %q, want refreshed", st.Windows[0].Label)
	}
}

func TestPeriodicRefresh(t *testing.T) {
	backend := pt.NewBackend(pt.Root(pt.Window(1, "A")))
	e := New(backend, Options{RefreshInterval: 5 * time.Millisecond, Logger: testLogger()})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	backend.SetRoot(pt.Root(pt.Window(1, "A"), pt.Window(2, "B")))
	deadline := time.After(2 * time.Second)
	for len(e.Status().Windows) != 2 {
		select {
		case <-deadline:
			t.Fatalf("periodic refresh never picked up window 2: %+v", e.Status())
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestStaleWindowsArePruned(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	backend.FailWindow(2, platform.ErrStaleWindow)
	backend.FailWindow(3, errors.New("access denied"))

	if err := e.HandleCommand(context.Background(), SelectAll); err != nil {
		t.Fatal(err)
	}
	var ids []platform.WindowID
	for _, w := range e.Status().Windows {
		ids = append(ids, w.ID)
	}
	if !reflect.DeepEqual(ids, []platform.WindowID{1, 3}) {
		t.Errorf("windows = %v, want stale window 2 pruned and 3 kept", ids)
	}
}

func TestResetAll_KeepsFlagsAndOpacity(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	ctx := context.Background()
	e.HandleCommand(ctx, SelectAll)
	e.HandleCommand(ctx, DecreaseOpacity)
	backend.ResetCalls()

	e.HandleKey(ctx, "r")
	if got := backend.Calls(); !reflect.DeepEqual(got, disables(1, 2, 3)) {
		t.Errorf("calls = %v, want disable for every window", got)
	}
	st := e.Status()
	if st.Opacity != 245 {
		t.Errorf("opacity = %d, want 245", st.Opacity)
	}
	for _, w := range st.Windows {
		if !w.Selected {
			t.Errorf("window %d lost its selection", w.ID)
		}
	}
}

func TestResetOpacity(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	ctx := context.Background()
	e.HandleCommand(ctx, ToggleSelected)
	for i := 0; i < 5; i++ {
		e.HandleCommand(ctx, DecreaseOpacity)
	}
	backend.ResetCalls()

	e.HandleKey(ctx, "t")
	if st := e.Status(); st.Opacity != 255 {
		t.Errorf("opacity = %d, want 255", st.Opacity)
	}
	if got := backend.Calls(); got[0] != (pt.Call{Op: "enable", ID: 1, Alpha: 255}) {
		t.Errorf("first call = %v, want enable at 255", got[0])
	}
}

func TestToggleHelp(t *testing.T) {
	e, _ := newTestEngine(t, threeWindows())
	e.HandleKey(context.Background(), "enter")

	text := e.Text()
	if !strings.Contains(text, "Hide Help (Enter)") || !strings.Contains(text, Describe(ResetAll)) {
		t.Errorf("help text = %q", text)
	}
	if strings.Contains(text, "W1") {
		t.Error("help mode still lists windows")
	}
}

func TestSetSelected(t *testing.T) {
	e, backend := newTestEngine(t, threeWindows())
	backend.ResetCalls()

	if err := e.SetSelected(context.Background(), 3, true); err != nil {
		t.Fatalf("SetSelected(3) error: %v", err)
	}
	if got := backend.Calls(); got[2] != (pt.Call{Op: "enable", ID: 3, Alpha: 255}) {
		t.Errorf("calls = %v, want window 3 enabled", got)
	}
	if err := e.SetSelected(context.Background(), 99, true); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("SetSelected(99) = %v, want ErrUnknownWindow", err)
	}
}

func TestEmptyInventory(t *testing.T) {
	e, backend := newTestEngine(t, pt.Root())
	ctx := context.Background()

	for _, key := range []string{"up", "down", " ", "v", "c"} {
		if err := e.HandleKey(ctx, key); err != nil {
			t.Errorf("HandleKey(%q) on empty inventory = %v", key, err)
		}
	}
	if len(backend.Calls()) != 0 {
		t.Errorf("calls = %v, want none", backend.Calls())
	}
	if !strings.Contains(e.Text(), "No windows found. Press F1 to refresh.") {
		t.Errorf("Text() = %q", e.Text())
	}
}

func TestOnTextChanged_PushesSnapshots(t *testing.T) {
	e, _ := newTestEngine(t, threeWindows())
	texts := make(chan string, 16)
	e.OnTextChanged(func(text string) bool {
		texts <- text
		return true
	})

	select {
	case got := <-texts:
		if got != e.Text() {
			t.Errorf("initial push = %q, want current text", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no initial push")
	}

	e.HandleCommand(context.Background(), ToggleSelected)
	select {
	case got := <-texts:
		if !strings.Contains(got, "> W1 <") {
			t.Errorf("push after toggle = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no push after toggle")
	}
}

func TestShutdown_WithoutInitialize(t *testing.T) {
	e := New(pt.NewBackend(nil), Options{Logger: testLogger()})
	e.Shutdown()
	select {
	case <-e.Done():
	default:
		t.Fatal("Done() not closed")
	}
	if err := e.Initialize(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Initialize() after Shutdown = %v, want ErrClosed", err)
	}
}
