package desktop

// Event is a change notification emitted by a Manager. Events are delivered
// synchronously, in emission order, on the goroutine that caused them.
type Event interface {
	Kind() string
}

// CurrentChanged reports a move of the current-desktop cursor. Old is 0 when
// no desktop was current before. Old may equal New when the current desktop
// was removed and another desktop took its number; OldID and NewID tell the
// two apart.
type CurrentChanged struct {
	Old   uint
	New   uint
	OldID string
	NewID string
}

// CountChanged is the last event emitted for any change of the desktop count.
type CountChanged struct {
	Old uint
	New uint
}

// DesktopsRemoved lists the desktops destroyed by a shrink or removal.
type DesktopsRemoved struct {
	PreviousCount uint
	Removed       []Info
}

// DesktopAdded is emitted once per created desktop.
type DesktopAdded struct {
	Desktop Info
}

// LayoutChanged is emitted on every layout recomputation, including ones that
// produce the same size as before.
type LayoutChanged struct {
	Columns int
	Rows    int
}

type RowsChanged struct {
	Rows int
}

type NameChanged struct {
	Desktop Info
}

type NavigationWrappingChanged struct {
	Enabled bool
}

func (CurrentChanged) Kind() string            { return "current_changed" }
func (CountChanged) Kind() string              { return "count_changed" }
func (DesktopsRemoved) Kind() string           { return "desktops_removed" }
func (DesktopAdded) Kind() string              { return "desktop_added" }
func (LayoutChanged) Kind() string             { return "layout_changed" }
func (RowsChanged) Kind() string               { return "rows_changed" }
func (NameChanged) Kind() string               { return "name_changed" }
func (NavigationWrappingChanged) Kind() string { return "navigation_wrapping_changed" }

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for all events. The returned function removes the
// subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.nextSubscription++
	id := m.nextSubscription
	m.subscriptions = append(m.subscriptions, subscription{id: id, fn: fn})
	return func() {
		for i, s := range m.subscriptions {
			if s.id == id {
				m.subscriptions = append(m.subscriptions[:i:i], m.subscriptions[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) emit(ev Event) {
	subs := make([]subscription, len(m.subscriptions))
	copy(subs, m.subscriptions)
	for _, s := range subs {
		s.fn(ev)
	}
}
