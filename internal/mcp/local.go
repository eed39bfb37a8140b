package mcp

import (
	"context"
	"time"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
)

// LocalController drives an in-process engine.
type LocalController struct {
	eng     *engine.Engine
	timeout time.Duration
}

var _ Controller = (*LocalController)(nil)

// NewLocalController wraps eng. Each call is bounded by a 15s timeout, the
// same budget the IPC client gives a daemon round trip.
func NewLocalController(eng *engine.Engine) *LocalController {
	return &LocalController{eng: eng, timeout: 15 * time.Second}
}

func (c *LocalController) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// Done is closed once the engine has shut down, including after an exit
// command.
func (c *LocalController) Done() <-chan struct{} {
	return c.eng.Done()
}

// RunCommand runs a named command and returns the rendered text.
func (c *LocalController) RunCommand(name string) (string, error) {
	cmd, err := engine.ParseCommand(name)
	if err != nil {
		return "", err
	}
	ctx, cancel := c.context()
	defer cancel()
	if err := c.eng.HandleCommand(ctx, cmd); err != nil {
		return "", err
	}
	return c.eng.Text(), nil
}

// SetSelected selects or unselects one window.
func (c *LocalController) SetSelected(id platform.WindowID, selected bool) (*engine.Status, error) {
	ctx, cancel := c.context()
	defer cancel()
	if err := c.eng.SetSelected(ctx, id, selected); err != nil {
		return nil, err
	}
	status := c.eng.Status()
	return &status, nil
}

// GetStatus returns the engine's structured state.
func (c *LocalController) GetStatus() (*engine.Status, error) {
	status := c.eng.Status()
	return &status, nil
}

// GetSnapshot returns the engine's rendered text.
func (c *LocalController) GetSnapshot() (string, error) {
	return c.eng.Text(), nil
}
