package hotkeys

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/desktop"
)

// Binding is a shortcut resolved against the user configuration.
type Binding struct {
	Name   string
	Keys   string // neutral form, e.g. "Ctrl+Meta+Right"
	XKeys  string // xgbutil form, e.g. "Control-Mod4-Right"
	Action desktop.Action
}

// ScrollBinding is a resolved pointer axis shortcut.
type ScrollBinding struct {
	Target  string
	Buttons string // xgbutil form, e.g. "Control-Mod1-5"
	Action  desktop.Action
}

var modifierNames = map[string]string{
	"ctrl":    "Control",
	"control": "Control",
	"alt":     "Mod1",
	"meta":    "Mod4",
	"super":   "Mod4",
	"win":     "Mod4",
	"shift":   "Shift",
}

// ToXGB converts a neutral key sequence ("Ctrl+Alt+F1") to the
// dash-separated syntax used by xgbutil ("Control-Mod1-F1").
func ToXGB(keys string) (string, error) {
	parts := strings.Split(strings.TrimSpace(keys), "+")
	if len(parts) == 0 || strings.TrimSpace(keys) == "" {
		return "", fmt.Errorf("empty key sequence")
	}
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", fmt.Errorf("invalid key sequence %q", keys)
		}
		if mod, ok := modifierNames[strings.ToLower(part)]; ok {
			if i == len(parts)-1 {
				return "", fmt.Errorf("key sequence %q has no key", keys)
			}
			out = append(out, mod)
			continue
		}
		if i != len(parts)-1 {
			return "", fmt.Errorf("unknown modifier %q in %q", part, keys)
		}
		if len(part) == 1 {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return strings.Join(out, "-"), nil
}

// scrollButton returns the X pointer button for an axis direction.
func scrollButton(axis desktop.Axis) int {
	if axis == desktop.AxisDown {
		return 5
	}
	return 4
}

// Resolve applies overrides and disabled entries to the shortcut table.
// Actions without a key sequence are left out. Invalid sequences are
// reported but do not stop resolution.
func Resolve(table []desktop.Shortcut, cfg config.ShortcutsConfig) ([]Binding, []error) {
	var (
		out  []Binding
		errs []error
	)
	for _, s := range table {
		if cfg.IsDisabled(s.Name) {
			continue
		}
		keys := s.Keys
		if override, ok := cfg.Overrides[s.Name]; ok {
			keys = override
		}
		if keys == "" {
			continue
		}
		xkeys, err := ToXGB(keys)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		out = append(out, Binding{Name: s.Name, Keys: keys, XKeys: xkeys, Action: s.Action})
	}
	return out, errs
}

// ResolveScroll maps the axis shortcuts to pointer buttons. Axis shortcuts
// follow their target action: disabling the action disables the scroll
// binding too.
func ResolveScroll(table []desktop.AxisShortcut, cfg config.ShortcutsConfig) ([]ScrollBinding, []error) {
	if !cfg.ScrollEnabled() {
		return nil, nil
	}
	var (
		out  []ScrollBinding
		errs []error
	)
	for _, a := range table {
		if cfg.IsDisabled(a.Target) {
			continue
		}
		target, ok := desktop.FindShortcut(a.Target)
		if !ok {
			errs = append(errs, fmt.Errorf("scroll binding targets unknown action %q", a.Target))
			continue
		}
		mods, err := ToXGB(a.Modifiers + "+" + fmt.Sprint(scrollButton(a.Axis)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Target, err))
			continue
		}
		out = append(out, ScrollBinding{Target: a.Target, Buttons: mods, Action: target.Action})
	}
	return out, errs
}
