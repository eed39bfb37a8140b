// Package mcp exposes the running wintrans daemon to MCP clients.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/ipc"
	"github.com/1broseidon/wintrans/internal/platform"
)

const (
	ServerName    = "wintrans"
	ServerVersion = "0.1.0"
)

// Controller is the daemon surface the tools drive. *ipc.Client satisfies it.
type Controller interface {
	RunCommand(name string) (string, error)
	SetSelected(id platform.WindowID, selected bool) (*engine.Status, error)
	GetStatus() (*engine.Status, error)
	GetSnapshot() (string, error)
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server for wintrans.
type Server struct {
	mcpServer *mcpsdk.Server
	transport mcpsdk.Transport
	ctl       Controller
	logger    *slog.Logger
}

// stopper is implemented by controllers that own their engine. Their Done
// channel closing ends Run.
type stopper interface {
	Done() <-chan struct{}
}

// NewServer creates an MCP server forwarding tool calls to ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		transport: &mcpsdk.StdioTransport{},
		ctl:       ctl,
		logger:    logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run serves MCP on stdio until the client disconnects, ctx is done, or a
// local engine exits. An engine exit is a clean return.
func (s *Server) Run(ctx context.Context) error {
	st, ok := s.ctl.(stopper)
	if !ok {
		return s.mcpServer.Run(ctx, s.transport)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-st.Done():
			s.logger.Info("engine exited, stopping MCP server")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.mcpServer.Run(ctx, s.transport)
	select {
	case <-st.Done():
		return nil
	default:
		return err
	}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the top-level windows wintrans knows about, with their IDs, labels and whether each is marked for translucency. Also reports the shared opacity (0-255) and its percentage.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run one wintrans command as if its key had been pressed, then return the rendered text. Cursor commands (navigate_up, navigate_down, toggle_selected) act on the highlighted row.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_selected",
		Description: "Mark or unmark a single window for translucency by ID and re-apply the current opacity.",
	}, s.handleSetWindowSelected)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_snapshot",
		Description: "Return the text wintrans currently shows: the opacity header followed by the window list or the help text.",
	}, s.handleGetSnapshot)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	status, err := s.ctl.GetStatus()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to query daemon: %w", err)
	}

	out := ListWindowsOutput{
		Opacity: status.Opacity,
		Percent: status.Percent,
		Windows: make([]engine.WindowStatus, 0, len(status.Windows)),
	}
	for _, w := range status.Windows {
		if args.SelectedOnly && !w.Selected {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	s.logger.Debug("list_windows", "count", len(out.Windows), "selected_only", args.SelectedOnly)
	return nil, out, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	cmd, err := engine.ParseCommand(args.Command)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}

	text, err := s.ctl.RunCommand(cmd.String())
	if err != nil {
		return nil, RunCommandOutput{}, fmt.Errorf("%s failed: %w", cmd, err)
	}
	s.logger.Info("run_command", "command", cmd.String())
	return nil, RunCommandOutput{Command: cmd.String(), Text: text}, nil
}

func (s *Server) handleSetWindowSelected(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowSelectedInput) (*mcpsdk.CallToolResult, SetWindowSelectedOutput, error) {
	if args.WindowID == 0 {
		return nil, SetWindowSelectedOutput{}, fmt.Errorf("window_id is required")
	}

	status, err := s.ctl.SetSelected(platform.WindowID(args.WindowID), args.Selected)
	if err != nil {
		return nil, SetWindowSelectedOutput{}, err
	}
	s.logger.Info("set_window_selected", "window", args.WindowID, "selected", args.Selected)
	return nil, SetWindowSelectedOutput{
		WindowID: args.WindowID,
		Selected: args.Selected,
		Opacity:  status.Opacity,
	}, nil
}

func (s *Server) handleGetSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetSnapshotInput) (*mcpsdk.CallToolResult, GetSnapshotOutput, error) {
	text, err := s.ctl.GetSnapshot()
	if err != nil {
		return nil, GetSnapshotOutput{}, fmt.Errorf("failed to query daemon: %w", err)
	}
	return nil, GetSnapshotOutput{Text: text}, nil
}
