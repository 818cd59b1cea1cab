package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
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

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves the desktop layout and daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetCurrent switches to desktop n.
func (c *Client) SetCurrent(n uint) (*SwitchData, error) {
	var data SwitchData
	if err := c.call(CommandSetCurrent, SetCurrentPayload{Desktop: n}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Move switches to the neighbouring desktop in direction.
func (c *Client) Move(direction desktop.Direction) (*SwitchData, error) {
	var data SwitchData
	if err := c.call(CommandMove, MovePayload{Direction: direction.String()}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetCount changes the number of desktops and returns the clamped count.
func (c *Client) SetCount(n uint) (uint, error) {
	var data CountData
	if err := c.call(CommandSetCount, SetCountPayload{Count: n}, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

// Rename sets the name of desktop n. An empty name restores the default.
func (c *Client) Rename(n uint, name string) error {
	return c.call(CommandRename, RenamePayload{Desktop: n, Name: name}, nil)
}

// SetRows changes the number of layout rows and returns the effective value.
func (c *Client) SetRows(rows uint) (uint, error) {
	var data RowsData
	if err := c.call(CommandSetRows, SetRowsPayload{Rows: rows}, &data); err != nil {
		return 0, err
	}
	return data.Rows, nil
}

// SetWrap toggles wrap-around navigation.
func (c *Client) SetWrap(enabled bool) error {
	return c.call(CommandSetWrap, SetWrapPayload{Enabled: enabled}, nil)
}

// CreateDesktop inserts a desktop at position (0 appends).
func (c *Client) CreateDesktop(position uint, name string) (*desktop.Info, error) {
	var info desktop.Info
	if err := c.call(CommandCreateDesktop, CreateDesktopPayload{Position: position, Name: name}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoveDesktop removes the desktop with the given id.
func (c *Client) RemoveDesktop(id string) error {
	return c.call(CommandRemoveDesktop, RemoveDesktopPayload{ID: id}, nil)
}

// RemoveDesktopNumber removes desktop n.
func (c *Client) RemoveDesktopNumber(n uint) error {
	return c.call(CommandRemoveDesktop, RemoveDesktopPayload{Desktop: n}, nil)
}

// ListShortcuts returns the global shortcut table with effective bindings.
func (c *Client) ListShortcuts() ([]ShortcutInfo, error) {
	var data ShortcutsData
	if err := c.call(CommandListShortcuts, nil, &data); err != nil {
		return nil, err
	}
	return data.Shortcuts, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
