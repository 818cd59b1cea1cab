package desktop

import (
	"errors"
	"fmt"
)

type memStore struct {
	groups  map[string]map[string]string
	syncs   int
	syncErr error
}

func newMemStore() *memStore {
	return &memStore{groups: make(map[string]map[string]string)}
}

func (s *memStore) Lookup(group, key string) (string, bool) {
	v, ok := s.groups[group][key]
	return v, ok
}

func (s *memStore) Set(group, key, value string) {
	g := s.groups[group]
	if g == nil {
		g = make(map[string]string)
		s.groups[group] = g
	}
	g[key] = value
}

func (s *memStore) Delete(group, key string) {
	delete(s.groups[group], key)
}

func (s *memStore) Sync() error {
	s.syncs++
	return s.syncErr
}

var errSync = errors.New("disk full")

type fakeRootInfo struct {
	count      uint
	viewports  []Viewport
	names      map[uint]string
	current    uint
	layout     *Layout
	hint       *Layout
	layoutSets int
	activated  int
}

func newFakeRootInfo() *fakeRootInfo {
	return &fakeRootInfo{names: make(map[uint]string)}
}

func (r *fakeRootInfo) SetNumberOfDesktops(n uint) { r.count = n }
func (r *fakeRootInfo) SetDesktopViewport(v []Viewport) { r.viewports = v }
func (r *fakeRootInfo) SetDesktopName(n uint, s string) { r.names[n] = s }
func (r *fakeRootInfo) SetCurrentDesktop(n uint) { r.current = n }
func (r *fakeRootInfo) Activate() { r.activated++ }
func (r *fakeRootInfo) SetDesktopLayout(l Layout) {
	r.layout = &l
	r.layoutSets++
}

// DesktopLayout reports only hints planted by the test, like a root window
// whose layout property was set by a pager.
func (r *fakeRootInfo) DesktopLayout() (Layout, bool) {
	if r.hint == nil {
		return Layout{}, false
	}
	return *r.hint, true
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type recorder struct {
	events []Event
}

func record(m *Manager) *recorder {
	r := &recorder{}
	m.Subscribe(func(ev Event) { r.events = append(r.events, ev) })
	return r
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind()
	}
	return out
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func (r *recorder) index(kind string) int {
	for i, ev := range r.events {
		if ev.Kind() == kind {
			return i
		}
	}
	return -1
}
