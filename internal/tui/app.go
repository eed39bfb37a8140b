package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wintrans/internal/engine"
)

// Engine is the part of the transparency engine a shell drives.
type Engine interface {
	HandleKey(ctx context.Context, key string) error
	Text() string
	OnTextChanged(sink func(text string) bool)
	Done() <-chan struct{}
}

// textMsg carries a freshly rendered snapshot from the engine's pusher.
type textMsg string

// keyResultMsg reports the outcome of a key handled off the UI goroutine.
type keyResultMsg struct {
	key string
	err error
}

// doneMsg is sent once the engine has shut down.
type doneMsg struct{}

// chromeLines is the title bar plus the help bar.
const chromeLines = 2

// model is the root bubbletea model for the interactive shell. Keys are
// handed to the engine one at a time in typed order: while a key is in
// flight, later keys wait in pending.
type model struct {
	engine  Engine
	updates <-chan string

	text    string
	lastErr string

	busy    bool
	pending []string

	list   viewport.Model
	width  int
	height int
}

func newModel(eng Engine, updates <-chan string) model {
	return model{
		engine:  eng,
		updates: updates,
		text:    eng.Text(),
		list:    viewport.New(0, 0),
	}
}

// subscribe installs a sink that hands snapshots to the model. A full
// buffer reports failure so the pusher retries instead of blocking.
func subscribe(eng Engine) <-chan string {
	updates := make(chan string, 1)
	eng.OnTextChanged(func(text string) bool {
		select {
		case updates <- text:
			return true
		default:
			return false
		}
	})
	return updates
}

func waitForText(updates <-chan string) tea.Cmd {
	return func() tea.Msg {
		return textMsg(<-updates)
	}
}

func waitForDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

// handleKey runs the key through the engine on a command goroutine so
// discovery and native style calls never stall the event loop. Bubbletea
// runs commands concurrently, so the model never has two in flight.
func handleKey(eng Engine, key string) tea.Cmd {
	return func() tea.Msg {
		return keyResultMsg{key: key, err: eng.HandleKey(context.Background(), key)}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(waitForText(m.updates), waitForDone(m.engine.Done()))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if m.busy {
			m.pending = append(m.pending, key)
			return m, nil
		}
		m.busy = true
		return m, handleKey(m.engine, key)

	case keyResultMsg:
		switch {
		case msg.err == nil:
			m.lastErr = ""
		case errors.Is(msg.err, engine.ErrUnsupportedKey):
			m.lastErr = "unsupported key: " + msg.key
		case errors.Is(msg.err, engine.ErrClosed):
			return m, tea.Quit
		default:
			m.lastErr = msg.err.Error()
		}
		if len(m.pending) == 0 {
			m.busy = false
			return m, nil
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		return m, handleKey(m.engine, next)

	case textMsg:
		m.text = string(msg)
		m.syncList()
		return m, waitForText(m.updates)

	case doneMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncList()
		return m, nil
	}

	return m, nil
}

// syncList sizes the window list to the space left under the snapshot
// header and scrolls it so the cursor row stays visible.
func (m *model) syncList() {
	header, rows := splitSnapshot(m.text)
	m.list.Width = m.viewWidth()
	m.list.Height = max(m.height-chromeLines-len(header), 1)
	m.list.SetContent(renderRows(rows, len(header), m.list.Width))
	m.list.SetYOffset(listOffset(cursorRow(rows), m.list.Height, m.list.YOffset))
}

func (m model) viewWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

// View implements tea.Model.
func (m model) View() string {
	width := m.viewWidth()

	title := renderTitleBar(width)
	help := renderHelpBar(m.lastErr, width)
	if m.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, renderSnapshot(m.text, width), help)
	}

	header, _ := splitSnapshot(m.text)
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		renderRows(header, 0, width),
		m.list.View(),
		help,
	)
}

// RunInteractive drives eng from a full-screen bubbletea program until the
// user exits or the engine shuts down.
func RunInteractive(eng Engine) error {
	updates := subscribe(eng)
	p := tea.NewProgram(newModel(eng, updates), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
