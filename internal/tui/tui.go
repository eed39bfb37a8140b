// Package tui provides the two interactive shells for the transparency
// engine: a bubbletea program and a plain raw-mode console.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/1broseidon/wintrans/internal/engine"
)

// Console is the plain terminal shell. Keys are read on an input goroutine
// and handed to the engine on the Run goroutine; snapshots arrive from the
// engine's pusher and are drawn as full frames.
type Console struct {
	engine Engine
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	mu       sync.Mutex
	oldState *term.State
	width    int
	height   int
}

// NewConsole creates a console shell reading keys from in and drawing to out.
func NewConsole(eng Engine, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Console{
		engine: eng,
		in:     in,
		out:    out,
		logger: logger,
		width:  80,
		height: 24,
	}
}

// Run drives the engine until Exit, end of input, or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		oldState, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		c.oldState = oldState
		defer c.restore()
	}
	c.updateSize()

	c.engine.OnTextChanged(c.draw)

	keys := make(chan string, 16)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go c.readKeys(keys, readErr, stop)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.engine.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			c.updateSize()
			err := c.engine.HandleKey(ctx, key)
			switch {
			case err == nil, errors.Is(err, engine.ErrUnsupportedKey):
			case errors.Is(err, engine.ErrClosed):
				return nil
			default:
				c.logger.Warn("key handling failed", "key", key, "error", err)
			}
		}
	}
}

// readKeys closes keys at end of input; other read errors are left in
// readErr first.
func (c *Console) readKeys(keys chan<- string, readErr chan<- error, stop <-chan struct{}) {
	buf := make([]byte, 32)
	for {
		n, err := c.in.Read(buf)
		for _, key := range parseKeys(buf[:n]) {
			select {
			case keys <- key:
			case <-stop:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr <- err
			}
			close(keys)
			return
		}
	}
}

// draw is the engine's text sink. A failed write reports false so the
// pusher retries.
func (c *Console) draw(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, frame(text, c.width, c.height))
	return err == nil
}

func (c *Console) restore() {
	if f, ok := c.in.(*os.File); ok && c.oldState != nil {
		term.Restore(int(f.Fd()), c.oldState)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.out, escReset+escShowCursor+escClear+escHome)
}

func (c *Console) updateSize() {
	f, ok := c.out.(*os.File)
	if !ok {
		return
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return
	}
	c.mu.Lock()
	c.width = w
	c.height = h
	c.mu.Unlock()
}

// parseKeys splits raw terminal input into key names in the form
// engine.KeyCommand accepts. Unrecognized escape sequences are dropped.
func parseKeys(input []byte) []string {
	var keys []string
	for len(input) > 0 {
		if input[0] == 0x1b {
			key, n := parseEscape(input)
			if key != "" {
				keys = append(keys, key)
			}
			input = input[n:]
			continue
		}

		switch b := input[0]; {
		case b == '\r' || b == '\n':
			keys = append(keys, "enter")
		case b == 0x03:
			keys = append(keys, "ctrl+c")
		case b == '\t':
			keys = append(keys, "tab")
		case b == 0x7f:
			keys = append(keys, "backspace")
		case b < 0x20:
		default:
			r, size := utf8.DecodeRune(input)
			keys = append(keys, string(r))
			input = input[size:]
			continue
		}
		input = input[1:]
	}
	return keys
}

// parseEscape decodes one escape sequence at the start of input and returns
// its key name and length.
func parseEscape(input []byte) (string, int) {
	if len(input) == 1 {
		return "esc", 1
	}

	switch input[1] {
	case 'O':
		// SS3: xterm F1-F4 and application-mode arrows.
		if len(input) < 3 {
			return "", 2
		}
		switch input[2] {
		case 'P':
			return "f1", 3
		case 'Q':
			return "f2", 3
		case 'R':
			return "f3", 3
		case 'S':
			return "f4", 3
		case 'A':
			return "up", 3
		case 'B':
			return "down", 3
		}
		return "", 3
	case '[':
		return parseCSI(input)
	case 0x1b:
		return "esc", 1
	}
	return "esc", 1
}

// parseCSI decodes ESC [ params final.
func parseCSI(input []byte) (string, int) {
	// Linux console F1-F5: ESC [ [ A..E
	if len(input) >= 4 && input[2] == '[' {
		switch input[3] {
		case 'A':
			return "f1", 4
		case 'E':
			return "f5", 4
		}
		return "", 4
	}

	end := 2
	for end < len(input) && (input[end] < 0x40 || input[end] > 0x7e) {
		end++
	}
	if end == len(input) {
		return "", len(input)
	}
	params, final := string(input[2:end]), input[end]
	n := end + 1

	switch final {
	case 'A':
		return "up", n
	case 'B':
		return "down", n
	case 'C':
		return "right", n
	case 'D':
		return "left", n
	case '~':
		switch params {
		case "11":
			return "f1", n
		case "15":
			return "f5", n
		}
	}
	return "", n
}
