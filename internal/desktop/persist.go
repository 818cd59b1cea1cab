package desktop

import (
	"fmt"
	"strconv"
)

// Store is a grouped string key-value store backing the desktop
// configuration.
type Store interface {
	Lookup(group, key string) (string, bool)
	Set(group, key, value string)
	Delete(group, key string)
	Sync() error
}

const (
	keyNumber = "Number"
	keyRows   = "Rows"
)

func nameKey(n uint) string { return fmt.Sprintf("Name_%d", n) }
func idKey(n uint) string   { return fmt.Sprintf("Id_%d", n) }

// GroupName returns the configuration group for a screen.
func GroupName(screen int) string {
	if screen == 0 {
		return "Desktops"
	}
	return fmt.Sprintf("Desktops-screen-%d", screen)
}

func (m *Manager) group() string {
	return GroupName(m.screen)
}

// Load populates the manager from its store. Without a store it does
// nothing, leaving Count at 0 on a fresh manager. Save is suppressed while
// loading.
func (m *Manager) Load() {
	if m.store == nil {
		return
	}
	m.loading = true
	defer func() {
		m.loading = false
		m.loadedIDs = nil
	}()

	group := m.group()
	number := uint(lookupUint(m.store, group, keyNumber, 1))

	m.loadedIDs = make(map[uint]string)
	for i := uint(1); i <= clampCount(number); i++ {
		if id, ok := m.store.Lookup(group, idKey(i)); ok {
			m.loadedIDs[i] = id
		}
	}

	m.SetCount(number)

	for _, d := range m.desktops {
		if id, ok := m.loadedIDs[d.number]; ok && id != d.id {
			m.logger.Warn("desktop already exists with a different id", "desktop", d.number, "id", d.id, "stored_id", id)
		}
		name, ok := m.store.Lookup(group, nameKey(d.number))
		if !ok || name == "" {
			name = DefaultName(d.number)
		}
		if d.name != name {
			d.SetName(name)
		} else if m.rootInfo != nil {
			m.rootInfo.SetDesktopName(d.number, name)
		}
	}

	rows := uint(lookupUint(m.store, group, keyRows, uint64(DefaultRows)))
	if rows < 1 {
		rows = 1
	}
	if rows > m.Count() {
		rows = m.Count()
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
	m.logger.Debug("loaded desktops", "group", group, "count", m.Count(), "rows", m.rows)
}

// Save writes the desktop configuration to the store and flushes it. It is a
// no-op without a store or while Load is running. Flush failures are logged.
func (m *Manager) Save() {
	if m.store == nil || m.loading {
		return
	}
	group := m.group()
	count := m.Count()

	for i := count + 1; i <= Maximum; i++ {
		m.store.Delete(group, nameKey(i))
		m.store.Delete(group, idKey(i))
	}

	m.store.Set(group, keyNumber, strconv.FormatUint(uint64(count), 10))
	for _, d := range m.desktops {
		name := d.name
		if name == "" {
			name = DefaultName(d.number)
			d.name = name
			if m.rootInfo != nil {
				m.rootInfo.SetDesktopName(d.number, name)
			}
		}
		if name == DefaultName(d.number) {
			m.store.Delete(group, nameKey(d.number))
		} else {
			m.store.Set(group, nameKey(d.number), name)
		}
		m.store.Set(group, idKey(d.number), d.id)
	}
	m.store.Set(group, keyRows, strconv.FormatUint(uint64(m.rows), 10))

	if err := m.store.Sync(); err != nil {
		m.logger.Warn("failed to save desktop configuration", "group", group, "err", err)
	}
}

func lookupUint(s Store, group, key string, def uint64) uint64 {
	v, ok := s.Lookup(group, key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def
	}
	return n
}
