package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/wintrans/internal/platform"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandRun         CommandType = "RUN_COMMAND"
	CommandSetSelected CommandType = "SET_SELECTED"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetSnapshot CommandType = "GET_SNAPSHOT"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RunCommandPayload names an engine command, e.g. "toggle_selected".
type RunCommandPayload struct {
	Command string `json:"command"`
}

// SetSelectedPayload selects or unselects one window.
type SetSelectedPayload struct {
	WindowID platform.WindowID `json:"window_id"`
	Selected bool              `json:"selected"`
}

// SnapshotData is the rendered text returned by GET_SNAPSHOT and
// RUN_COMMAND.
type SnapshotData struct {
	Text string `json:"text"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
