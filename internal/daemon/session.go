package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/hotkeys"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

// ShortcutGrabber registers resolved shortcuts with the window system.
type ShortcutGrabber interface {
	Apply(bindings []hotkeys.Binding, scroll []hotkeys.ScrollBinding) error
	Registered() map[string]string
}

// SessionConfig holds the collaborators of a Session.
type SessionConfig struct {
	Config   *config.Config
	Store    desktop.Store
	RootInfo desktop.RootInfo
	Logger   *slog.Logger
	// LoadConfig re-reads the configuration for Reload. Nil disables reload.
	LoadConfig func() (*config.Config, error)
	// InitialCurrent restores the current desktop (1-based) after loading,
	// typically read from the root window left by a previous run.
	InitialCurrent uint
	NewID          func() string
}

// Session owns the daemon's single desktop manager and serializes access to
// it from the X event loop, IPC connections and the reconciler.
type Session struct {
	mu       sync.Mutex
	manager  *desktop.Manager
	rootInfo desktop.RootInfo
	cfg      *config.Config
	load     func() (*config.Config, error)
	grabber  ShortcutGrabber
	logger   *slog.Logger
	started  time.Time
}

// NewSession creates the desktop manager, restores it from the store and
// publishes it on the root window.
func NewSession(sc SessionConfig) *Session {
	cfg := sc.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := sc.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := desktop.NewManager(desktop.Options{
		Store:                 sc.Store,
		Screen:                cfg.Screen,
		NavigationWrapsAround: cfg.NavigationWrapsAround,
		Logger:                logger.With("component", "desktop"),
		NewID:                 sc.NewID,
	})

	s := &Session{
		manager:  m,
		rootInfo: sc.RootInfo,
		cfg:      cfg,
		load:     sc.LoadConfig,
		logger:   logger,
		started:  time.Now(),
	}
	m.Subscribe(s.onEvent)

	if sc.RootInfo != nil {
		m.SetRootInfo(sc.RootInfo)
	}
	m.Load()
	if m.Count() == 0 {
		m.SetCount(1)
	}
	if sc.InitialCurrent != 0 {
		m.SetCurrent(sc.InitialCurrent)
	}
	if sc.RootInfo != nil {
		sc.RootInfo.SetCurrentDesktop(m.Current())
	}

	logger.Info("desktops ready", "count", m.Count(), "current", m.Current(), "rows", m.Rows())
	return s
}

func (s *Session) onEvent(ev desktop.Event) {
	if e, ok := ev.(desktop.CurrentChanged); ok && s.rootInfo != nil {
		s.rootInfo.SetCurrentDesktop(e.New)
	}
	s.logger.Debug("desktop event", "kind", ev.Kind())
}

// SetShortcutGrabber attaches the global shortcut registry and grabs the
// configured shortcuts.
func (s *Session) SetShortcutGrabber(g ShortcutGrabber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grabber = g
	return s.applyShortcutsLocked()
}

func (s *Session) applyShortcutsLocked() error {
	if s.grabber == nil {
		return nil
	}
	bindings, errs := hotkeys.Resolve(desktop.Shortcuts(), s.cfg.Shortcuts)
	scroll, scrollErrs := hotkeys.ResolveScroll(desktop.AxisShortcuts(), s.cfg.Shortcuts)
	errs = append(errs, scrollErrs...)
	for _, err := range errs {
		s.logger.Warn("ignoring shortcut", "err", err)
	}
	if err := s.grabber.Apply(bindings, scroll); err != nil {
		return fmt.Errorf("failed to grab shortcuts: %w", err)
	}
	return nil
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Status reports the desktop state.
func (s *Session) Status() ipc.StatusData {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.manager
	g := m.Grid()
	st := ipc.StatusData{
		Count:         m.Count(),
		Current:       m.Current(),
		Rows:          uint(g.Height()),
		Columns:       g.Width(),
		Orientation:   g.Orientation().String(),
		WrapAround:    m.IsNavigationWrappingAround(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		DaemonRunning: true,
	}
	for _, d := range m.Desktops() {
		st.Desktops = append(st.Desktops, d.Info())
	}
	st.Grid = make([][]uint, g.Height())
	for y := 0; y < g.Height(); y++ {
		row := make([]uint, g.Width())
		for x := 0; x < g.Width(); x++ {
			row[x] = g.At(desktop.Point{X: x, Y: y})
		}
		st.Grid[y] = row
	}
	return st
}

// Snapshot returns the state the root window is expected to show.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Count: s.manager.Count(), Current: s.manager.Current()}
	for _, d := range s.manager.Desktops() {
		snap.Names = append(snap.Names, d.Name())
	}
	return snap
}

// Republish rewrites the complete desktop state to the root window.
func (s *Session) Republish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootInfo == nil {
		return
	}
	if r, ok := s.rootInfo.(interface{ Reset() }); ok {
		r.Reset()
	}
	s.manager.SetRootInfo(s.rootInfo)
	s.rootInfo.Activate()
}

func (s *Session) SetCurrent(n uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.SetCurrent(n)
}

// Move switches to the neighbouring desktop using the session's wrap policy.
func (s *Session) Move(direction desktop.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.MoveTo(direction, s.manager.IsNavigationWrappingAround())
}

func (s *Session) SetCount(n uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.SetCount(n)
}

// Rename sets the name of desktop n. An empty name restores the default.
func (s *Session) Rename(n uint, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.manager.DesktopForX11ID(n)
	if d == nil {
		return fmt.Errorf("no desktop %d (have %d)", n, s.manager.Count())
	}
	if name == "" {
		name = desktop.DefaultName(n)
	}
	d.SetName(name)
	return nil
}

// SetRows changes the layout rows and returns the effective setting.
func (s *Session) SetRows(rows uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.SetRows(rows)
	return s.manager.Rows()
}

func (s *Session) SetWrap(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.SetNavigationWrappingAround(enabled)
}

// CreateDesktop inserts a desktop at the 1-based position; 0 appends.
func (s *Session) CreateDesktop(position uint, name string) (desktop.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.manager.Count()
	if position != 0 {
		index = position - 1
	}
	info, ok := s.manager.CreateDesktop(index, name)
	if !ok {
		return desktop.Info{}, fmt.Errorf("cannot create more than %d desktops", desktop.Maximum)
	}
	return info, nil
}

var errLastDesktop = errors.New("cannot remove the last desktop")

func (s *Session) RemoveDesktop(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(s.manager.DesktopForID(id), id)
}

func (s *Session) RemoveDesktopNumber(n uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(s.manager.DesktopForX11ID(n), fmt.Sprintf("#%d", n))
}

func (s *Session) removeLocked(d *desktop.Desktop, ref string) error {
	if d == nil {
		return fmt.Errorf("unknown desktop %s", ref)
	}
	if s.manager.Count() <= 1 {
		return errLastDesktop
	}
	if !s.manager.RemoveDesktop(d.ID()) {
		return fmt.Errorf("failed to remove desktop %s", ref)
	}
	return nil
}

// Shortcuts lists every global shortcut with its effective binding.
func (s *Session) Shortcuts() []ipc.ShortcutInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	var registered map[string]string
	if s.grabber != nil {
		registered = s.grabber.Registered()
	}
	table := desktop.Shortcuts()
	out := make([]ipc.ShortcutInfo, 0, len(table))
	for _, sc := range table {
		info := ipc.ShortcutInfo{Name: sc.Name, Keys: sc.Keys}
		if override, ok := s.cfg.Shortcuts.Overrides[sc.Name]; ok {
			info.Keys = override
		}
		if s.cfg.Shortcuts.IsDisabled(sc.Name) {
			info.Disabled = true
		}
		info.Bound = registered[sc.Name]
		out = append(out, info)
	}
	return out
}

// Reload re-reads the configuration and applies the settings that can change
// at runtime: navigation wrapping and shortcuts.
func (s *Session) Reload() error {
	if s.load == nil {
		return errors.New("reload is not supported")
	}
	cfg, err := s.load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Screen != s.cfg.Screen || cfg.DesktopsFile != s.cfg.DesktopsFile {
		s.logger.Warn("screen and desktops_file changes take effect after a restart")
	}
	s.cfg = cfg
	s.manager.SetNavigationWrappingAround(cfg.NavigationWrapsAround)
	if err := s.applyShortcutsLocked(); err != nil {
		return err
	}
	s.logger.Info("config reloaded")
	return nil
}

// Trigger performs a global shortcut action.
func (s *Session) Trigger(action desktop.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Trigger(action)
}

// RequestCurrent handles a pager's _NET_CURRENT_DESKTOP request.
func (s *Session) RequestCurrent(n uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.manager.SetCurrent(n) {
		s.logger.Debug("ignored current desktop request", "desktop", n, "count", s.manager.Count())
	}
}

// LayoutHintChanged recomputes the grid when a pager stored a layout hint on
// the root window. Our own layout writes are not hints and are ignored.
func (s *Session) LayoutHintChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootInfo == nil {
		return
	}
	if hint, ok := s.rootInfo.DesktopLayout(); ok {
		s.logger.Debug("layout hint changed", "columns", hint.Columns, "rows", hint.Rows)
		s.manager.UpdateLayout()
	}
}

// RequestCount handles a pager's _NET_NUMBER_OF_DESKTOPS request.
func (s *Session) RequestCount(n uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.SetCount(n)
}
