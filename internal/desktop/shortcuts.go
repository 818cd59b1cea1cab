package desktop

import "fmt"

// Action is what a global shortcut does when triggered. A non-zero Desktop
// switches to that desktop; otherwise the current desktop moves in Direction.
type Action struct {
	Desktop   uint
	Direction Direction
}

// Shortcut describes one global key binding. Keys uses "+" separated
// modifier names ("Ctrl", "Alt", "Meta", "Shift") followed by a key name and
// is empty when the action ships without a default binding.
type Shortcut struct {
	Name   string
	Label  string
	Keys   string
	Action Action
}

// Axis is a pointer scroll direction.
type Axis int

const (
	AxisUp Axis = iota
	AxisDown
)

func (a Axis) String() string {
	if a == AxisDown {
		return "down"
	}
	return "up"
}

// AxisShortcut binds scrolling with Modifiers held to the action of the
// shortcut named Target.
type AxisShortcut struct {
	Modifiers string
	Axis      Axis
	Target    string
}

const (
	switchToName = "Switch to Desktop %d"
	nextName     = "Switch to Next Desktop"
	previousName = "Switch to Previous Desktop"
	rightName    = "Switch One Desktop to the Right"
	leftName     = "Switch One Desktop to the Left"
	upName       = "Switch One Desktop Up"
	downName     = "Switch One Desktop Down"
)

// Shortcuts returns the global shortcut table: one switch-to action per
// possible desktop followed by the sequential and directional actions.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, 0, Maximum+6)
	for i := uint(1); i <= Maximum; i++ {
		var keys string
		if i <= 4 {
			keys = fmt.Sprintf("Ctrl+F%d", i)
		}
		name := fmt.Sprintf(switchToName, i)
		out = append(out, Shortcut{Name: name, Label: name, Keys: keys, Action: Action{Desktop: i}})
	}
	out = append(out,
		Shortcut{Name: nextName, Label: nextName, Action: Action{Direction: Next}},
		Shortcut{Name: previousName, Label: previousName, Action: Action{Direction: Previous}},
		Shortcut{Name: rightName, Label: rightName, Keys: "Ctrl+Meta+Right", Action: Action{Direction: Right}},
		Shortcut{Name: leftName, Label: leftName, Keys: "Ctrl+Meta+Left", Action: Action{Direction: Left}},
		Shortcut{Name: upName, Label: upName, Keys: "Ctrl+Meta+Up", Action: Action{Direction: Up}},
		Shortcut{Name: downName, Label: downName, Keys: "Ctrl+Meta+Down", Action: Action{Direction: Down}},
	)
	return out
}

// AxisShortcuts returns the scroll bindings: Ctrl+Alt scrolling down goes to
// the next desktop, up to the previous one.
func AxisShortcuts() []AxisShortcut {
	return []AxisShortcut{
		{Modifiers: "Ctrl+Alt", Axis: AxisDown, Target: nextName},
		{Modifiers: "Ctrl+Alt", Axis: AxisUp, Target: previousName},
	}
}

// FindShortcut looks up a shortcut by action name.
func FindShortcut(name string) (Shortcut, bool) {
	for _, s := range Shortcuts() {
		if s.Name == name {
			return s, true
		}
	}
	return Shortcut{}, false
}

// Trigger performs a shortcut action and reports whether the current desktop
// changed. Directional actions honour the navigation wrapping setting.
func (m *Manager) Trigger(a Action) bool {
	if a.Desktop != 0 {
		return m.SetCurrent(a.Desktop)
	}
	return m.MoveTo(a.Direction, m.wrap)
}
