package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/x11"
)

// Dispatcher performs shortcut actions.
type Dispatcher interface {
	Trigger(action desktop.Action) bool
}

// Handler manages global keyboard and scroll shortcuts
type Handler struct {
	xu         *xgbutil.XUtil
	root       xproto.Window
	dispatcher Dispatcher
	logger     *slog.Logger

	// registered maps action names to the grabbed xgbutil sequence.
	registered map[string]string
	scroll     map[string]string
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, dispatcher Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:         conn.XUtil,
		root:       conn.Root,
		dispatcher: dispatcher,
		logger:     logger,
		registered: make(map[string]string),
		scroll:     make(map[string]string),
	}
}

// Apply grabs the given bindings. Calling Apply again with the same bindings
// is a no-op; when the set changed every grab is released and the new set
// registered, so an action is never bound twice.
func (h *Handler) Apply(bindings []Binding, scroll []ScrollBinding) error {
	if !h.changed(bindings, scroll) {
		return nil
	}
	if len(h.registered) > 0 || len(h.scroll) > 0 {
		keybind.Detach(h.xu, h.root)
		mousebind.Detach(h.xu, h.root)
		h.registered = make(map[string]string)
		h.scroll = make(map[string]string)
	}

	var firstErr error
	for _, b := range bindings {
		if err := h.registerKey(b); err != nil {
			h.logger.Warn("failed to grab shortcut", "action", b.Name, "keys", b.Keys, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", b.Name, err)
			}
			continue
		}
		h.registered[b.Name] = b.XKeys
	}
	for _, s := range scroll {
		if err := h.registerScroll(s); err != nil {
			h.logger.Warn("failed to grab scroll binding", "action", s.Target, "buttons", s.Buttons, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", s.Target, err)
			}
			continue
		}
		h.scroll[s.Target] = s.Buttons
	}
	h.logger.Info("shortcuts registered", "keys", len(h.registered), "scroll", len(h.scroll))
	return firstErr
}

// Registered returns the grabbed key sequence per action name.
func (h *Handler) Registered() map[string]string {
	out := make(map[string]string, len(h.registered))
	for k, v := range h.registered {
		out[k] = v
	}
	return out
}

func (h *Handler) changed(bindings []Binding, scroll []ScrollBinding) bool {
	if len(bindings) != len(h.registered) || len(scroll) != len(h.scroll) {
		return true
	}
	for _, b := range bindings {
		if h.registered[b.Name] != b.XKeys {
			return true
		}
	}
	for _, s := range scroll {
		if h.scroll[s.Target] != s.Buttons {
			return true
		}
	}
	return false
}

func (h *Handler) registerKey(b Binding) error {
	action := b.Action
	name := b.Name
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("shortcut triggered", "action", name)
		h.dispatcher.Trigger(action)
	}).Connect(h.xu, h.root, b.XKeys, true)
}

func (h *Handler) registerScroll(s ScrollBinding) error {
	action := s.Action
	target := s.Target
	return mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		h.logger.Debug("scroll shortcut triggered", "action", target)
		h.dispatcher.Trigger(action)
	}).Connect(h.xu, h.root, s.Buttons, false, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
