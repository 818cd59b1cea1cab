package desktop

import (
	"log/slog"

	"github.com/google/uuid"
)

// Maximum is the largest supported number of desktops.
const Maximum uint = 20

// DefaultRows is the row count used when none is configured.
const DefaultRows uint = 2

// Options configures a Manager. Every field is optional.
type Options struct {
	// Store persists the desktop configuration. Without a store Load and
	// Save do nothing.
	Store Store
	// Screen selects the configuration group; see GroupName.
	Screen int
	// NavigationWrapsAround is the initial wrap policy for Trigger.
	NavigationWrapsAround bool
	Logger                *slog.Logger
	// NewID generates desktop identifiers. Defaults to random UUIDs.
	NewID func() string
}

// Manager owns the ordered set of virtual desktops and the current-desktop
// cursor. It is not safe for concurrent use; callers running more than one
// goroutine must serialize access.
type Manager struct {
	desktops []*Desktop
	current  uint
	rows     uint
	grid     *Grid
	wrap     bool

	store    Store
	screen   int
	rootInfo RootInfo
	loading  bool
	// loadedIDs holds persisted ids while Load repopulates desktops.
	loadedIDs map[uint]string

	subscriptions    []subscription
	nextSubscription int

	logger *slog.Logger
	newID  func() string
}

// NewManager creates a manager without desktops. Count reports 0 until
// SetCount or Load populates it.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Manager{
		rows:   DefaultRows,
		grid:   NewGrid(),
		wrap:   opts.NavigationWrapsAround,
		store:  opts.Store,
		screen: opts.Screen,
		logger: logger,
		newID:  newID,
	}
}

// Count returns the number of desktops.
func (m *Manager) Count() uint {
	return uint(len(m.desktops))
}

// Current returns the number of the current desktop, or 0 before any desktop
// exists.
func (m *Manager) Current() uint {
	return m.current
}

// CurrentDesktop returns the current desktop or nil.
func (m *Manager) CurrentDesktop() *Desktop {
	return m.DesktopForX11ID(m.current)
}

// Desktops returns the desktops in sequence order.
func (m *Manager) Desktops() []*Desktop {
	out := make([]*Desktop, len(m.desktops))
	copy(out, m.desktops)
	return out
}

// DesktopForX11ID returns desktop number n, or nil if out of range.
func (m *Manager) DesktopForX11ID(n uint) *Desktop {
	if n == 0 || n > m.Count() {
		return nil
	}
	return m.desktops[n-1]
}

// DesktopForID returns the desktop with the given id, or nil.
func (m *Manager) DesktopForID(id string) *Desktop {
	for _, d := range m.desktops {
		if d.id == id {
			return d
		}
	}
	return nil
}

// Name returns the name of desktop n, falling back to the default name for
// desktops that do not exist.
func (m *Manager) Name(n uint) string {
	if d := m.DesktopForX11ID(n); d != nil {
		return d.name
	}
	return DefaultName(n)
}

// Grid returns the navigation grid. The grid is rebuilt in place by
// UpdateLayout.
func (m *Manager) Grid() *Grid {
	return m.grid
}

// Rows returns the configured number of layout rows.
func (m *Manager) Rows() uint {
	return m.rows
}

func (m *Manager) IsNavigationWrappingAround() bool {
	return m.wrap
}

func (m *Manager) SetNavigationWrappingAround(enabled bool) {
	if enabled == m.wrap {
		return
	}
	m.wrap = enabled
	m.emit(NavigationWrappingChanged{Enabled: enabled})
}

// SetRootInfo attaches (or with nil detaches) the window-system mirror and
// publishes the full desktop state to it.
func (m *Manager) SetRootInfo(ri RootInfo) {
	m.rootInfo = ri
	if ri == nil {
		return
	}
	m.updateRootInfo()
	if m.current != 0 {
		ri.SetCurrentDesktop(m.current)
	}
	for _, d := range m.desktops {
		ri.SetDesktopName(d.number, d.name)
	}
}

// SetCurrent makes desktop n current. It returns false if n is 0, out of
// range or already current.
func (m *Manager) SetCurrent(n uint) bool {
	if n == 0 || n > m.Count() || n == m.current {
		return false
	}
	old, oldID := m.current, m.currentID()
	m.current = n
	m.logger.Debug("current desktop changed", "old", old, "new", n)
	m.emit(CurrentChanged{Old: old, New: n, OldID: oldID, NewID: m.currentID()})
	return true
}

// currentID returns the id of the current desktop, or "" when there is none.
func (m *Manager) currentID() string {
	if d := m.DesktopForX11ID(m.current); d != nil {
		return d.id
	}
	return ""
}

// SetCount grows or shrinks the desktop set to count, clamped to
// [1, Maximum], and returns the effective count. Setting the current count
// again emits nothing.
//
// When shrinking removes the current desktop, the cursor moves to the new
// last desktop and CurrentChanged is emitted before DesktopsRemoved.
// CountChanged is always the final event.
func (m *Manager) SetCount(count uint) uint {
	count = clampCount(count)
	oldCount := m.Count()
	if count == oldCount {
		return count
	}

	var added []*Desktop
	if oldCount > count {
		oldID := m.currentID()
		removed := m.desktops[count:]
		m.desktops = append([]*Desktop(nil), m.desktops[:count]...)
		if m.current > count {
			old := m.current
			m.current = count
			m.emit(CurrentChanged{Old: old, New: count, OldID: oldID, NewID: m.currentID()})
		}
		infos := make([]Info, len(removed))
		for i, d := range removed {
			infos[i] = d.Info()
			d.nameChanged = nil
		}
		m.emit(DesktopsRemoved{PreviousCount: oldCount, Removed: infos})
	} else {
		for m.Count() < count {
			n := m.Count() + 1
			d := newDesktop(m.idFor(n), n, DefaultName(n), m.onNameChanged)
			m.desktops = append(m.desktops, d)
			added = append(added, d)
			if m.rootInfo != nil {
				m.rootInfo.SetDesktopName(n, d.name)
			}
		}
	}

	if m.current == 0 {
		m.current = 1
	}

	m.updateRootInfo()
	m.Save()

	for _, d := range added {
		m.emit(DesktopAdded{Desktop: d.Info()})
	}
	m.logger.Debug("desktop count changed", "old", oldCount, "new", count)
	m.emit(CountChanged{Old: oldCount, New: count})
	return count
}

// CreateDesktop inserts a desktop at the 0-based position (clamped to the
// end of the sequence). An empty name selects the default name for the new
// position. It fails when Maximum desktops already exist.
func (m *Manager) CreateDesktop(position uint, name string) (Info, bool) {
	oldCount := m.Count()
	if oldCount >= Maximum {
		return Info{}, false
	}
	if position > oldCount {
		position = oldCount
	}
	number := position + 1
	if name == "" {
		name = DefaultName(number)
	}

	d := newDesktop(m.newID(), number, name, m.onNameChanged)
	desktops := make([]*Desktop, 0, oldCount+1)
	desktops = append(desktops, m.desktops[:position]...)
	desktops = append(desktops, d)
	desktops = append(desktops, m.desktops[position:]...)
	m.desktops = desktops
	m.renumberFrom(number)

	if m.rootInfo != nil {
		for _, d := range m.desktops[position:] {
			m.rootInfo.SetDesktopName(d.number, d.name)
		}
	}

	switch {
	case m.current == 0:
		m.current = 1
	case m.current >= number:
		old := m.current
		m.current++
		id := m.currentID()
		m.emit(CurrentChanged{Old: old, New: m.current, OldID: id, NewID: id})
	}

	m.Save()
	m.updateRootInfo()
	m.emit(DesktopAdded{Desktop: d.Info()})
	m.emit(CountChanged{Old: oldCount, New: m.Count()})
	return d.Info(), true
}

// RemoveDesktop removes the desktop with the given id. The last remaining
// desktop cannot be removed. The cursor stays on the same desktop when it
// survives; otherwise it moves to the desktop that took the removed one's
// place.
func (m *Manager) RemoveDesktop(id string) bool {
	oldCount := m.Count()
	if oldCount <= 1 {
		return false
	}
	d := m.DesktopForID(id)
	if d == nil {
		return false
	}
	number := d.number
	m.desktops = append(m.desktops[:number-1:number-1], m.desktops[number:]...)
	d.nameChanged = nil
	m.renumberFrom(number)

	if m.rootInfo != nil {
		for _, d := range m.desktops[number-1:] {
			m.rootInfo.SetDesktopName(d.number, d.name)
		}
	}

	switch {
	case m.current == number:
		next := number
		if next > m.Count() {
			next = m.Count()
		}
		m.current = next
		m.emit(CurrentChanged{Old: number, New: next, OldID: d.id, NewID: m.currentID()})
	case m.current > number:
		old := m.current
		m.current--
		id := m.currentID()
		m.emit(CurrentChanged{Old: old, New: m.current, OldID: id, NewID: id})
	}

	m.updateRootInfo()
	m.Save()
	m.emit(DesktopsRemoved{PreviousCount: oldCount, Removed: []Info{d.Info()}})
	m.emit(CountChanged{Old: oldCount, New: m.Count()})
	return true
}

// SetRows changes the number of layout rows. Values of 0, above the desktop
// count, or equal to the current setting are ignored.
func (m *Manager) SetRows(rows uint) {
	if rows == 0 || rows > m.Count() || rows == m.rows {
		return
	}
	m.rows = rows
	if m.rootInfo != nil {
		m.rootInfo.SetDesktopLayout(Layout{
			Orientation: Horizontal,
			Columns:     int(ceilDiv(m.Count(), rows)),
			Rows:        int(rows),
			Corner:      TopLeft,
		})
		m.rootInfo.Activate()
	}
	m.UpdateLayout()
	m.Save()
}

// UpdateLayout recomputes the grid. Rows come from the root window layout
// hint when one is set, otherwise from the configured rows. The effective row
// count is clamped to the desktop count, stored as Rows, and columns are
// derived to fit every desktop.
//
// LayoutChanged and RowsChanged are emitted on every call, also when the
// resulting size equals the previous one.
func (m *Manager) UpdateLayout() {
	count := m.Count()
	if count == 0 {
		return
	}

	orientation := Horizontal
	rows := m.rows
	columns := uint(0)
	if m.rootInfo != nil {
		if hint, ok := m.rootInfo.DesktopLayout(); ok {
			orientation = hint.Orientation
			switch {
			case hint.Rows > 0:
				rows = uint(hint.Rows)
			case hint.Columns > 0:
				columns = uint(hint.Columns)
				rows = ceilDiv(count, columns)
			}
		}
	}
	if rows == 0 {
		rows = DefaultRows
	}
	if rows > count {
		rows = count
	}
	if columns == 0 || columns*rows < count {
		columns = ceilDiv(count, rows)
	}
	m.rows = rows

	m.grid.Update(Size{Width: int(columns), Height: int(rows)}, orientation, count)
	if m.rootInfo != nil {
		m.rootInfo.SetDesktopLayout(Layout{
			Orientation: orientation,
			Columns:     int(columns),
			Rows:        int(rows),
			Corner:      TopLeft,
		})
	}

	m.emit(LayoutChanged{Columns: int(columns), Rows: int(rows)})
	m.emit(RowsChanged{Rows: int(rows)})
}

func (m *Manager) updateRootInfo() {
	if m.rootInfo != nil {
		n := m.Count()
		m.rootInfo.SetNumberOfDesktops(n)
		m.rootInfo.SetDesktopViewport(make([]Viewport, n))
	}
	m.UpdateLayout()
}

func (m *Manager) onNameChanged(d *Desktop) {
	if m.rootInfo != nil {
		m.rootInfo.SetDesktopName(d.number, d.name)
	}
	m.emit(NameChanged{Desktop: d.Info()})
	m.Save()
}

// renumberFrom replaces every desktop at or after number with a copy carrying
// its new position. Desktop numbers are immutable, so displaced desktops are
// recreated with the same id and name.
func (m *Manager) renumberFrom(number uint) {
	for i := int(number) - 1; i < len(m.desktops); i++ {
		d := m.desktops[i]
		want := uint(i + 1)
		if d.number == want {
			continue
		}
		d.nameChanged = nil
		m.desktops[i] = newDesktop(d.id, want, d.name, m.onNameChanged)
	}
}

func (m *Manager) idFor(n uint) string {
	if id, ok := m.loadedIDs[n]; ok && id != "" {
		return id
	}
	return m.newID()
}

func clampCount(n uint) uint {
	if n < 1 {
		return 1
	}
	if n > Maximum {
		return Maximum
	}
	return n
}

func ceilDiv(a, b uint) uint {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
