package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// RequestHandler receives desktop requests sent by pagers and other clients
// as root window client messages. Desktop numbers are 1-based.
type RequestHandler interface {
	RequestCurrent(n uint)
	RequestCount(n uint)
	// LayoutHintChanged is called whenever _NET_DESKTOP_LAYOUT is written,
	// including by this process.
	LayoutHintChanged()
}

// WatchRequests selects substructure and property events on the root window
// and forwards _NET_CURRENT_DESKTOP and _NET_NUMBER_OF_DESKTOPS client
// messages and _NET_DESKTOP_LAYOUT changes to h. Handlers run on the event
// loop goroutine.
func (c *Connection) WatchRequests(h RequestHandler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskSubstructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Format != 32 {
			return
		}
		name, err := xprop.AtomName(xu, ev.Type)
		if err != nil {
			logger.Debug("ignoring client message with unknown atom", "atom", ev.Type, "err", err)
			return
		}
		if dispatchRequest(h, name, ev.Data.Data32) {
			logger.Debug("root request", "type", name, "value", ev.Data.Data32[0])
		}
	}).Connect(c.XUtil, c.Root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || name != "_NET_DESKTOP_LAYOUT" {
			return
		}
		h.LayoutHintChanged()
	}).Connect(c.XUtil, c.Root)
	return nil
}

// dispatchRequest decodes one client message. It reports whether the message
// was a desktop request.
func dispatchRequest(h RequestHandler, name string, data []uint32) bool {
	if len(data) == 0 {
		return false
	}
	switch name {
	case "_NET_CURRENT_DESKTOP":
		h.RequestCurrent(uint(data[0]) + 1)
	case "_NET_NUMBER_OF_DESKTOPS":
		h.RequestCount(uint(data[0]))
	default:
		return false
	}
	return true
}
