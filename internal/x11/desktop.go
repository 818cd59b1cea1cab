package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// RootState is the desktop state published on the root window.
type RootState struct {
	Count   uint
	Current uint // 1-based; 0 when unset
	Names   []string
}

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetDesktopCount returns the number of virtual desktops.
func (c *Connection) GetDesktopCount() (int, error) {
	count, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get desktop count: %w", err)
	}
	return int(count), nil
}

// GetDesktopNames returns _NET_DESKTOP_NAMES.
func (c *Connection) GetDesktopNames() ([]string, error) {
	names, err := ewmh.DesktopNamesGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get desktop names: %w", err)
	}
	return names, nil
}

// ReadRootState reads count, current desktop and names from the root window.
// Missing names are not an error.
func (c *Connection) ReadRootState() (RootState, error) {
	count, err := c.GetDesktopCount()
	if err != nil {
		return RootState{}, err
	}
	current, err := c.GetCurrentDesktop()
	if err != nil {
		return RootState{}, err
	}
	names, _ := c.GetDesktopNames()
	return RootState{Count: uint(count), Current: uint(current) + 1, Names: names}, nil
}

// RequestCurrentDesktop asks the window manager to switch to desktop n
// (1-based) by sending a _NET_CURRENT_DESKTOP client message to the root
// window. We build the message manually because the xgbutil ewmh request
// helpers panic on this library version (uint vs int type assertion).
func (c *Connection) RequestCurrentDesktop(n uint) error {
	if n == 0 {
		return fmt.Errorf("desktop numbers start at 1")
	}
	return c.sendRootMessage("_NET_CURRENT_DESKTOP", []uint32{uint32(n - 1), 0, 0, 0, 0})
}

func (c *Connection) sendRootMessage(atom string, data []uint32) error {
	typ, err := xprop.Atm(c.XUtil, atom)
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atom, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.Root,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// ReadRootStateStandalone reads the root window desktop state using a new
// temporary X11 connection.
func ReadRootStateStandalone(display string) (RootState, error) {
	conn, err := NewConnection(display)
	if err != nil {
		return RootState{}, fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()

	return conn.ReadRootState()
}

// RequestCurrentDesktopStandalone asks the window manager to switch desktops
// using a new temporary X11 connection.
func RequestCurrentDesktopStandalone(display string, n uint) error {
	conn, err := NewConnection(display)
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()

	return conn.RequestCurrentDesktop(n)
}
