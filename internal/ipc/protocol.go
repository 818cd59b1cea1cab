package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskgrid/internal/desktop"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandSetCurrent    CommandType = "SET_CURRENT"
	CommandMove          CommandType = "MOVE"
	CommandSetCount      CommandType = "SET_COUNT"
	CommandRename        CommandType = "RENAME"
	CommandSetRows       CommandType = "SET_ROWS"
	CommandSetWrap       CommandType = "SET_WRAP"
	CommandCreateDesktop CommandType = "CREATE_DESKTOP"
	CommandRemoveDesktop CommandType = "REMOVE_DESKTOP"
	CommandListShortcuts CommandType = "LIST_SHORTCUTS"
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

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Count         uint           `json:"count"`
	Current       uint           `json:"current"`
	Rows          uint           `json:"rows"`
	Columns       int            `json:"columns"`
	Orientation   string         `json:"orientation"`
	WrapAround    bool           `json:"wrap_around"`
	Desktops      []desktop.Info `json:"desktops"`
	Grid          [][]uint       `json:"grid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	DaemonRunning bool           `json:"daemon_running"`
}

// DesktopName returns the name of desktop n, or "" when unknown.
func (s *StatusData) DesktopName(n uint) string {
	for _, d := range s.Desktops {
		if d.Number == n {
			return d.Name
		}
	}
	return ""
}

// SwitchData is returned by SET_CURRENT and MOVE.
type SwitchData struct {
	Changed bool `json:"changed"`
	Current uint `json:"current"`
}

// CountData is returned by SET_COUNT.
type CountData struct {
	Count uint `json:"count"`
}

// RowsData is returned by SET_ROWS.
type RowsData struct {
	Rows uint `json:"rows"`
}

// ShortcutInfo describes one global shortcut and its effective binding.
type ShortcutInfo struct {
	Name     string `json:"name"`
	Keys     string `json:"keys,omitempty"`
	Bound    string `json:"bound,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ShortcutsData is returned by LIST_SHORTCUTS.
type ShortcutsData struct {
	Shortcuts []ShortcutInfo `json:"shortcuts"`
}

type SetCurrentPayload struct {
	Desktop uint `json:"desktop"`
}

type MovePayload struct {
	Direction string `json:"direction"`
}

type SetCountPayload struct {
	Count uint `json:"count"`
}

type RenamePayload struct {
	Desktop uint   `json:"desktop"`
	Name    string `json:"name"`
}

type SetRowsPayload struct {
	Rows uint `json:"rows"`
}

type SetWrapPayload struct {
	Enabled bool `json:"enabled"`
}

// CreateDesktopPayload inserts a desktop at Position (1-based). A zero
// Position appends.
type CreateDesktopPayload struct {
	Position uint   `json:"position,omitempty"`
	Name     string `json:"name,omitempty"`
}

// RemoveDesktopPayload selects the desktop by ID, or by Desktop number when
// ID is empty.
type RemoveDesktopPayload struct {
	ID      string `json:"id,omitempty"`
	Desktop uint   `json:"desktop,omitempty"`
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
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
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
