package ipc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/wintrans/internal/engine"
	pt "github.com/1broseidon/wintrans/internal/platform/platformtest"
)

func startServer(t *testing.T) (*Client, *engine.Engine, *pt.Backend) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := pt.NewBackend(pt.Root(pt.Window(1, "Editor"), pt.Window(2, "Browser")))
	eng := engine.New(backend, engine.Options{RefreshInterval: time.Hour, Logger: logger})
	if err := eng.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	t.Cleanup(eng.Shutdown)

	socket := filepath.Join(t.TempDir(), "wintrans.sock")
	srv := NewServerAt(socket, eng, logger)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(socket), eng, backend
}

func TestClientServer_RunCommand(t *testing.T) {
	client, _, backend := startServer(t)
	backend.ResetCalls()

	text, err := client.RunCommand("toggle_selected")
	if err != nil {
		t.Fatalf("RunCommand() error: %v", err)
	}
	if !strings.Contains(text, "> Editor <") {
		t.Errorf("snapshot = %q, want Editor selected", text)
	}
	if calls := backend.Calls(); len(calls) != 2 || calls[0] != (pt.Call{Op: "enable", ID: 1, Alpha: 255}) {
		t.Errorf("calls = %v", calls)
	}

	if _, err := client.RunCommand("teleport"); err == nil || !strings.Contains(err.Error(), "unsupported command") {
		t.Errorf("RunCommand(teleport) = %v, want unsupported command error", err)
	}
}

func TestClientServer_StatusAndSelection(t *testing.T) {
	client, _, _ := startServer(t)

	status, err := client.SetSelected(2, true)
	if err != nil {
		t.Fatalf("SetSelected() error: %v", err)
	}
	if len(status.Windows) != 2 || !status.Windows[1].Selected || status.Windows[0].Selected {
		t.Errorf("status = %+v, want only window 2 selected", status)
	}

	if _, err := client.SetSelected(42, true); err == nil {
		t.Error("SetSelected(42) succeeded for unknown window")
	}
	if _, err := client.SetSelected(0, true); err == nil {
		t.Error("SetSelected(0) succeeded without window id")
	}

	status, err = client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if status.Opacity != 255 || status.Percent != 100 {
		t.Errorf("status = %+v", status)
	}

	text, err := client.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot() error: %v", err)
	}
	if !strings.HasPrefix(text, "Opacity: 255/255 (100%)") {
		t.Errorf("snapshot = %q", text)
	}
}

func TestClientServer_ExitShutsEngineDown(t *testing.T) {
	client, eng, _ := startServer(t)

	if _, err := client.RunCommand("exit"); err != nil {
		t.Fatalf("RunCommand(exit) error: %v", err)
	}
	select {
	case <-eng.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("engine not shut down after exit command")
	}
}

func TestServer_UnknownAndMalformedRequests(t *testing.T) {
	client, _, _ := startServer(t)

	conn, err := net.Dial("unix", client.socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.Write([]byte("{not json\n"))

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusError || !strings.Contains(resp.Error, "Invalid request") {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := client.sendRequest(&Request{Command: "RELOAD"}); err == nil {
		t.Error("unknown command accepted")
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Errorf("Ping() = %v", err)
	}
}

func TestServer_RecoversFromPanickingStyler(t *testing.T) {
	client, eng, backend := startServer(t)
	backend.PanicWindow(1, "native call crashed")

	_, err := client.RunCommand("toggle_selected")
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Fatalf("RunCommand(toggle_selected) = %v, want internal error", err)
	}

	backend.PanicWindow(1, nil)
	if _, err := client.GetStatus(); err != nil {
		t.Fatalf("GetStatus() after panic error: %v", err)
	}

	eng.Shutdown()
	calls := backend.Calls()
	if len(calls) < 2 || calls[len(calls)-2] != (pt.Call{Op: "disable", ID: 1}) || calls[len(calls)-1] != (pt.Call{Op: "disable", ID: 2}) {
		t.Errorf("teardown calls = %v, want both windows reset", calls)
	}
}
