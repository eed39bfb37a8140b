package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/1broseidon/wintrans/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default runtime socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    15 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// RunCommand asks the daemon to run a named command and returns the new
// snapshot.
func (c *Client) RunCommand(name string) (string, error) {
	payload, err := json.Marshal(RunCommandPayload{Command: name})
	if err != nil {
		return "", fmt.Errorf("failed to marshal run payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandRun, Payload: payload})
	if err != nil {
		return "", err
	}
	return decodeSnapshot(resp)
}

// SetSelected selects or unselects a window in the daemon.
func (c *Client) SetSelected(id platform.WindowID, selected bool) (*engine.Status, error) {
	payload, err := json.Marshal(SetSelectedPayload{WindowID: id, Selected: selected})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal set_selected payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandSetSelected, Payload: payload})
	if err != nil {
		return nil, err
	}
	return decodeStatus(resp)
}

// GetStatus retrieves the daemon's structured state.
func (c *Client) GetStatus() (*engine.Status, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}
	return decodeStatus(resp)
}

// GetSnapshot retrieves the daemon's rendered text.
func (c *Client) GetSnapshot() (string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetSnapshot})
	if err != nil {
		return "", err
	}
	return decodeSnapshot(resp)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

func decodeStatus(resp *Response) (*engine.Status, error) {
	var status engine.Status
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

func decodeSnapshot(resp *Response) (string, error) {
	var snap SnapshotData
	if err := json.Unmarshal(resp.Data, &snap); err != nil {
		return "", fmt.Errorf("failed to parse snapshot data: %w", err)
	}
	return snap.Text, nil
}
