package daemon

import (
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/hotkeys"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

type fakeRoot struct {
	count    uint
	current  uint
	names    map[uint]string
	layout   desktop.Layout
	hint     *desktop.Layout
	resets   int
	activate int
}

func newFakeRoot() *fakeRoot { return &fakeRoot{names: map[uint]string{}} }

func (f *fakeRoot) SetNumberOfDesktops(n uint) { f.count = n }
func (f *fakeRoot) SetDesktopViewport([]desktop.Viewport) {}
func (f *fakeRoot) SetDesktopName(n uint, name string) { f.names[n] = name }
func (f *fakeRoot) SetCurrentDesktop(n uint) { f.current = n }
func (f *fakeRoot) Activate() { f.activate++ }
func (f *fakeRoot) Reset() { f.resets++ }

// SetDesktopLayout overwrites the property, dropping any pager hint.
func (f *fakeRoot) SetDesktopLayout(l desktop.Layout) {
	f.layout = l
	f.hint = nil
}

func (f *fakeRoot) DesktopLayout() (desktop.Layout, bool) {
	if f.hint == nil {
		return desktop.Layout{}, false
	}
	return *f.hint, true
}

type fakeGrabber struct {
	applied  int
	bindings []hotkeys.Binding
	scroll   []hotkeys.ScrollBinding
	err      error
}

func (g *fakeGrabber) Apply(b []hotkeys.Binding, s []hotkeys.ScrollBinding) error {
	g.applied++
	g.bindings = b
	g.scroll = s
	return g.err
}

func (g *fakeGrabber) Registered() map[string]string {
	out := make(map[string]string)
	for _, b := range g.bindings {
		out[b.Name] = b.XKeys
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestSession(t *testing.T, store desktop.Store, root *fakeRoot) *Session {
	t.Helper()
	return NewSession(SessionConfig{
		Config:   config.DefaultConfig(),
		Store:    store,
		RootInfo: root,
		NewID:    sequentialIDs(),
	})
}

func TestNewSession_DefaultsToOneDesktop(t *testing.T) {
	root := newFakeRoot()
	s := newTestSession(t, config.NewMemoryStore(), root)

	st := s.Status()
	if st.Count != 1 || st.Current != 1 {
		t.Fatalf("expected one current desktop, got %+v", st)
	}
	if root.count != 1 || root.current != 1 {
		t.Fatalf("root window not published: count=%d current=%d", root.count, root.current)
	}
	if root.names[1] != "Desktop 1" {
		t.Fatalf("root names = %v", root.names)
	}
	if root.activate == 0 {
		t.Fatalf("expected Activate after load")
	}
	if root.layout.Rows != 1 || root.layout.Columns != 1 {
		t.Fatalf("layout = %+v", root.layout)
	}
}

func TestSession_PagerHint(t *testing.T) {
	root := newFakeRoot()
	store := config.NewMemoryStore()
	store.Set("Desktops", "Number", "6")
	s := newTestSession(t, store, root)

	if st := s.Status(); st.Columns != 3 || st.Orientation != "horizontal" {
		t.Fatalf("initial layout %+v", st)
	}

	root.hint = &desktop.Layout{Orientation: desktop.Vertical, Rows: 2}
	s.LayoutHintChanged()

	st := s.Status()
	if st.Rows != 2 || st.Columns != 3 || st.Orientation != "vertical" {
		t.Fatalf("hint ignored: %+v", st)
	}
	// Column-major fill: the first column holds 1 and 2.
	if st.Grid[0][0] != 1 || st.Grid[1][0] != 2 || st.Grid[0][1] != 3 {
		t.Fatalf("grid = %v", st.Grid)
	}
	if root.hint != nil || root.layout.Orientation != desktop.Vertical {
		t.Fatalf("applied hint should be published, layout %+v", root.layout)
	}

	// The echo of our own write carries no hint.
	s.LayoutHintChanged()
	if st := s.Status(); st.Orientation != "vertical" {
		t.Fatalf("layout changed without a hint: %+v", st)
	}

	root.hint = &desktop.Layout{Columns: 2}
	s.LayoutHintChanged()
	if st := s.Status(); st.Rows != 3 || len(st.Grid) != 3 || st.Columns != 2 {
		t.Fatalf("column hint: rows=%d grid=%v", st.Rows, st.Grid)
	}
}

func TestSession_CurrentChangesReachRoot(t *testing.T) {
	root := newFakeRoot()
	s := newTestSession(t, config.NewMemoryStore(), root)
	s.SetCount(4)
	s.SetRows(2)

	if !s.SetCurrent(2) || root.current != 2 {
		t.Fatalf("SetCurrent(2) not published, root current %d", root.current)
	}
	if !s.Move(desktop.Down) || root.current != 4 {
		t.Fatalf("Move(Down) should reach 4, root current %d", root.current)
	}
	if !s.Trigger(desktop.Action{Desktop: 1}) || root.current != 1 {
		t.Fatalf("Trigger switch-to not published, root current %d", root.current)
	}

	s.RequestCurrent(3)
	if root.current != 3 {
		t.Fatalf("RequestCurrent(3) ignored, root current %d", root.current)
	}
	s.RequestCurrent(9)
	if root.current != 3 {
		t.Fatalf("out-of-range request should be ignored, root current %d", root.current)
	}
	s.RequestCount(2)
	if st := s.Status(); st.Count != 2 || st.Current != 2 {
		t.Fatalf("RequestCount(2) -> %+v", st)
	}
	if root.current != 2 || root.count != 2 {
		t.Fatalf("root = count %d current %d", root.count, root.current)
	}
}

func TestSession_WrapPolicy(t *testing.T) {
	s := newTestSession(t, config.NewMemoryStore(), newFakeRoot())
	s.SetCount(4)
	s.SetCurrent(4)

	s.SetWrap(false)
	if s.Move(desktop.Next) {
		t.Fatalf("Next from the last desktop should not move without wrap")
	}
	s.SetWrap(true)
	if !s.Move(desktop.Next) || s.Status().Current != 1 {
		t.Fatalf("Next should wrap to 1, status %+v", s.Status())
	}
}

func TestSession_RenameAndRows(t *testing.T) {
	store := config.NewMemoryStore()
	s := newTestSession(t, store, newFakeRoot())
	s.SetCount(6)

	if err := s.Rename(2, "Chat"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if v, _ := store.Lookup("Desktops", "Name_2"); v != "Chat" {
		t.Fatalf("rename not persisted, Name_2=%q", v)
	}
	if err := s.Rename(2, ""); err != nil {
		t.Fatalf("Rename to default: %v", err)
	}
	if _, ok := store.Lookup("Desktops", "Name_2"); ok {
		t.Fatalf("default name should delete Name_2")
	}
	if err := s.Rename(7, "x"); err == nil {
		t.Fatalf("expected error renaming a missing desktop")
	}

	if rows := s.SetRows(3); rows != 3 {
		t.Fatalf("SetRows(3) = %d", rows)
	}
	if rows := s.SetRows(9); rows != 3 {
		t.Fatalf("SetRows(9) should be ignored, got %d", rows)
	}
	if st := s.Status(); st.Columns != 2 || len(st.Grid) != 3 {
		t.Fatalf("expected a 2x3 grid, got %+v", st)
	}
}

func TestSession_CreateAndRemove(t *testing.T) {
	s := newTestSession(t, config.NewMemoryStore(), newFakeRoot())
	s.SetCount(2)

	info, err := s.CreateDesktop(1, "First")
	if err != nil {
		t.Fatalf("CreateDesktop: %v", err)
	}
	if info.Number != 1 || info.Name != "First" {
		t.Fatalf("created %+v", info)
	}
	appended, err := s.CreateDesktop(0, "")
	if err != nil || appended.Number != 4 || appended.Name != "Desktop 4" {
		t.Fatalf("append: %+v, %v", appended, err)
	}
	// Current followed its desktop to position 2.
	if st := s.Status(); st.Count != 4 || st.Current != 2 {
		t.Fatalf("after create: %+v", st)
	}

	if err := s.RemoveDesktop(info.ID); err != nil {
		t.Fatalf("RemoveDesktop: %v", err)
	}
	if err := s.RemoveDesktop("nope"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
	if err := s.RemoveDesktopNumber(3); err != nil {
		t.Fatalf("RemoveDesktopNumber: %v", err)
	}
	if err := s.RemoveDesktopNumber(1); err != nil {
		t.Fatalf("RemoveDesktopNumber(1): %v", err)
	}
	if err := s.RemoveDesktopNumber(1); !errors.Is(err, errLastDesktop) {
		t.Fatalf("expected last desktop error, got %v", err)
	}

	s.SetCount(desktop.Maximum)
	if _, err := s.CreateDesktop(0, ""); err == nil {
		t.Fatalf("expected error past the maximum")
	}
}

func TestSession_Shortcuts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shortcuts.Overrides["Switch to Desktop 5"] = "Ctrl+F5"
	cfg.Shortcuts.Disabled = []string{"Switch One Desktop Up"}

	s := NewSession(SessionConfig{Config: cfg, Store: config.NewMemoryStore()})
	g := &fakeGrabber{}
	if err := s.SetShortcutGrabber(g); err != nil {
		t.Fatalf("SetShortcutGrabber: %v", err)
	}
	if g.applied != 1 || len(g.scroll) != 2 {
		t.Fatalf("applied=%d scroll=%d", g.applied, len(g.scroll))
	}

	byName := make(map[string]ipc.ShortcutInfo)
	for _, sc := range s.Shortcuts() {
		byName[sc.Name] = sc
	}
	if len(byName) != len(desktop.Shortcuts()) {
		t.Fatalf("expected the full table, got %d", len(byName))
	}
	if sc := byName["Switch to Desktop 5"]; sc.Keys != "Ctrl+F5" || sc.Bound != "Control-F5" {
		t.Fatalf("override = %+v", sc)
	}
	if sc := byName["Switch One Desktop Up"]; !sc.Disabled || sc.Bound != "" {
		t.Fatalf("disabled = %+v", sc)
	}
	if sc := byName["Switch to Desktop 9"]; sc.Keys != "" || sc.Bound != "" {
		t.Fatalf("unbound = %+v", sc)
	}
}

func TestSession_Reload(t *testing.T) {
	next := config.DefaultConfig()
	next.NavigationWrapsAround = false
	next.Shortcuts.Disabled = []string{"Switch to Desktop 1"}
	var loadErr error

	s := NewSession(SessionConfig{
		Config: config.DefaultConfig(),
		Store:  config.NewMemoryStore(),
		LoadConfig: func() (*config.Config, error) {
			if loadErr != nil {
				return nil, loadErr
			}
			return next, nil
		},
	})
	g := &fakeGrabber{}
	if err := s.SetShortcutGrabber(g); err != nil {
		t.Fatalf("SetShortcutGrabber: %v", err)
	}
	before := len(g.bindings)

	loadErr = errors.New("broken file")
	if err := s.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if !s.Status().WrapAround {
		t.Fatalf("failed reload must keep the old config")
	}

	loadErr = nil
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Status().WrapAround {
		t.Fatalf("wrap should be disabled after reload")
	}
	if g.applied != 2 || len(g.bindings) != before-1 {
		t.Fatalf("shortcuts not re-applied: applied=%d bindings=%d (before %d)", g.applied, len(g.bindings), before)
	}
	if s.Config() != next {
		t.Fatalf("config not swapped")
	}

	noReload := NewSession(SessionConfig{Store: config.NewMemoryStore()})
	if err := noReload.Reload(); err == nil {
		t.Fatalf("expected error without a config loader")
	}
}

func TestSession_Republish(t *testing.T) {
	root := newFakeRoot()
	s := newTestSession(t, config.NewMemoryStore(), root)
	s.SetCount(3)
	s.SetCurrent(2)

	root.count = 7
	root.current = 5
	root.names = map[uint]string{}
	s.Republish()

	if root.resets != 1 {
		t.Fatalf("expected the root cache to be reset")
	}
	if root.count != 3 || root.current != 2 || root.names[3] != "Desktop 3" {
		t.Fatalf("republish incomplete: count=%d current=%d names=%v", root.count, root.current, root.names)
	}

	snap := s.Snapshot()
	if snap.Count != 3 || snap.Current != 2 || len(snap.Names) != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
