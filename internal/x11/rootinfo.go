package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/deskgrid/internal/desktop"
)

// supportedAtoms are advertised in _NET_SUPPORTED on Activate.
var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_VIEWPORT",
	"_NET_DESKTOP_LAYOUT",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
}

// rootProps is the subset of EWMH root window properties RootInfo writes.
type rootProps interface {
	setNumberOfDesktops(n uint) error
	setViewports(v []ewmh.DesktopViewport) error
	setLayout(orientation, columns, rows, corner uint) error
	getLayout() ([]uint, error)
	setNames(names []string) error
	setCurrent(n uint) error
	setSupported(atoms []string) error
}

type xProps struct {
	xu *xgbutil.XUtil
}

func (p xProps) setNumberOfDesktops(n uint) error {
	return ewmh.NumberOfDesktopsSet(p.xu, n)
}

func (p xProps) setViewports(v []ewmh.DesktopViewport) error {
	return ewmh.DesktopViewportSet(p.xu, v)
}

func (p xProps) setLayout(orientation, columns, rows, corner uint) error {
	return ewmh.DesktopLayoutSet(p.xu, orientation, columns, rows, corner)
}

// getLayout reads _NET_DESKTOP_LAYOUT directly; ewmh.DesktopLayoutGet indexes
// the reply without checking its length.
func (p xProps) getLayout() ([]uint, error) {
	return xprop.PropValNums(xprop.GetProperty(p.xu, p.xu.RootWin(), "_NET_DESKTOP_LAYOUT"))
}

func (p xProps) setNames(names []string) error {
	return ewmh.DesktopNamesSet(p.xu, names)
}

func (p xProps) setCurrent(n uint) error {
	return ewmh.CurrentDesktopSet(p.xu, n)
}

func (p xProps) setSupported(atoms []string) error {
	return ewmh.SupportedSet(p.xu, atoms)
}

// RootInfo mirrors desktop state into EWMH root window properties. Write
// failures are logged and otherwise ignored.
type RootInfo struct {
	props  rootProps
	logger *slog.Logger
	count  uint
	names  []string
	// written is the last layout this process stored, so reading it back
	// is not mistaken for a pager's hint.
	written []uint
}

var _ desktop.RootInfo = (*RootInfo)(nil)

// NewRootInfo returns a RootInfo writing to the root window of conn.
func NewRootInfo(conn *Connection, logger *slog.Logger) *RootInfo {
	return newRootInfo(xProps{xu: conn.XUtil}, logger)
}

func newRootInfo(props rootProps, logger *slog.Logger) *RootInfo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RootInfo{props: props, logger: logger}
}

func (r *RootInfo) SetNumberOfDesktops(n uint) {
	r.count = n
	if uint(len(r.names)) > n {
		r.names = r.names[:n]
		r.writeNames()
	}
	r.check("_NET_NUMBER_OF_DESKTOPS", r.props.setNumberOfDesktops(n))
}

func (r *RootInfo) SetDesktopViewport(viewports []desktop.Viewport) {
	out := make([]ewmh.DesktopViewport, len(viewports))
	for i, v := range viewports {
		out[i] = ewmh.DesktopViewport{X: v.X, Y: v.Y}
	}
	r.check("_NET_DESKTOP_VIEWPORT", r.props.setViewports(out))
}

func (r *RootInfo) SetDesktopLayout(layout desktop.Layout) {
	orientation, columns, rows, corner := encodeLayout(layout)
	err := r.props.setLayout(orientation, columns, rows, corner)
	if err == nil {
		r.written = []uint{orientation, columns, rows, corner}
	}
	r.check("_NET_DESKTOP_LAYOUT", err)
}

// DesktopLayout returns the _NET_DESKTOP_LAYOUT hint set by another client.
// A missing or malformed property, or one still holding the value last
// written by SetDesktopLayout, reports false.
func (r *RootInfo) DesktopLayout() (desktop.Layout, bool) {
	raw, err := r.props.getLayout()
	if err != nil {
		return desktop.Layout{}, false
	}
	if r.ownLayout(raw) {
		return desktop.Layout{}, false
	}
	return decodeLayout(raw)
}

func (r *RootInfo) ownLayout(raw []uint) bool {
	if r.written == nil || len(raw) < 3 {
		return false
	}
	for i, v := range r.written {
		// The starting corner is optional in the property.
		if i >= len(raw) {
			return v == ewmh.TopLeft
		}
		if raw[i] != v {
			return false
		}
	}
	return true
}

func (r *RootInfo) SetDesktopName(number uint, name string) {
	if number == 0 {
		return
	}
	for uint(len(r.names)) < number {
		r.names = append(r.names, "")
	}
	if r.names[number-1] == name {
		return
	}
	r.names[number-1] = name
	r.writeNames()
}

func (r *RootInfo) SetCurrentDesktop(number uint) {
	if number == 0 {
		return
	}
	r.check("_NET_CURRENT_DESKTOP", r.props.setCurrent(number-1))
}

// Reset drops the cached names so the next updates rewrite the properties
// even when they look unchanged.
func (r *RootInfo) Reset() {
	r.names = nil
	r.written = nil
}

// Activate advertises the desktop properties in _NET_SUPPORTED.
func (r *RootInfo) Activate() {
	r.check("_NET_SUPPORTED", r.props.setSupported(supportedAtoms))
}

func (r *RootInfo) writeNames() {
	r.check("_NET_DESKTOP_NAMES", r.props.setNames(append([]string(nil), r.names...)))
}

func (r *RootInfo) check(prop string, err error) {
	if err != nil {
		r.logger.Warn("failed to update root window property", "property", prop, "err", err)
	}
}

func encodeLayout(l desktop.Layout) (orientation, columns, rows, corner uint) {
	orientation = ewmh.OrientHorz
	if l.Orientation == desktop.Vertical {
		orientation = ewmh.OrientVert
	}
	if l.Columns > 0 {
		columns = uint(l.Columns)
	}
	if l.Rows > 0 {
		rows = uint(l.Rows)
	}
	switch l.Corner {
	case desktop.TopRight:
		corner = ewmh.TopRight
	case desktop.BottomRight:
		corner = ewmh.BottomRight
	case desktop.BottomLeft:
		corner = ewmh.BottomLeft
	default:
		corner = ewmh.TopLeft
	}
	return orientation, columns, rows, corner
}

func decodeLayout(raw []uint) (desktop.Layout, bool) {
	if len(raw) < 3 {
		return desktop.Layout{}, false
	}
	l := desktop.Layout{
		Orientation: desktop.Horizontal,
		Columns:     int(raw[1]),
		Rows:        int(raw[2]),
		Corner:      desktop.TopLeft,
	}
	if raw[0] == ewmh.OrientVert {
		l.Orientation = desktop.Vertical
	}
	if len(raw) > 3 {
		switch raw[3] {
		case ewmh.TopRight:
			l.Corner = desktop.TopRight
		case ewmh.BottomRight:
			l.Corner = desktop.BottomRight
		case ewmh.BottomLeft:
			l.Corner = desktop.BottomLeft
		}
	}
	if l.Columns == 0 && l.Rows == 0 {
		return desktop.Layout{}, false
	}
	return l, true
}
