package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewBackend_UnsupportedPlatform(t *testing.T) {
	orig := NewBackendFunc
	NewBackendFunc = nil
	defer func() { NewBackendFunc = orig }()

	_, err := NewBackend()
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		name  string
		id    WindowID
		title string
		class string
		want  string
	}{
		{"plain title", 1, "Firefox", "Navigator", "Firefox"},
		{"trimmed title", 2, "  Notes \t", "Notes", "Notes"},
		{"empty title", 42, "", "Chrome_WidgetWin_1", "Chrome_WidgetWin_1 (42)"},
		{"whitespace title", 7, "   ", "XTerm", "XTerm (7)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayLabel(tt.id, tt.title, tt.class); got != tt.want {
				t.Errorf("DisplayLabel(%d, %q, %q) = %q, want %q", tt.id, tt.title, tt.class, got, tt.want)
			}
		})
	}
}

func TestStyleError_UnwrapsStale(t *testing.T) {
	err := fmt.Errorf("apply: %w", &StyleError{Op: "SetWindowLong", ID: 0x10, Err: ErrStaleWindow})
	if !errors.Is(err, ErrStaleWindow) {
		t.Fatalf("errors.Is(%v, ErrStaleWindow) = false", err)
	}
	var se *StyleError
	if !errors.As(err, &se) || se.Op != "SetWindowLong" {
		t.Errorf("errors.As did not recover StyleError: %v", err)
	}
}

func TestControlType_String(t *testing.T) {
	if ControlWindow.String() != "window" {
		t.Errorf("ControlWindow.String() = %q", ControlWindow.String())
	}
	if ControlOther.String() != "other" {
		t.Errorf("ControlOther.String() = %q", ControlOther.String())
	}
}
