package desktop

// Corner is the starting corner of a desktop layout.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Layout describes a desktop arrangement as published to, or hinted by, the
// window system.
type Layout struct {
	Orientation Orientation
	Columns     int
	Rows        int
	Corner      Corner
}

// Viewport is a per-desktop viewport origin. Desktops in this model never
// scroll, so published viewports are always zero.
type Viewport struct {
	X int
	Y int
}

// RootInfo mirrors desktop state into the window system for other clients
// (pagers, taskbars) to read. Implementations report their own failures; the
// manager treats every call as fire-and-forget.
type RootInfo interface {
	SetNumberOfDesktops(n uint)
	SetDesktopViewport(viewports []Viewport)
	SetDesktopLayout(layout Layout)
	SetDesktopName(number uint, name string)
	SetCurrentDesktop(number uint)
	// DesktopLayout returns the layout hint another client (a pager) set on
	// the root window, if any. Layouts stored through SetDesktopLayout are
	// not hints.
	DesktopLayout() (Layout, bool)
	Activate()
}
