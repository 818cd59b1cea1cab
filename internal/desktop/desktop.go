// Package desktop implements the virtual desktop model: the ordered set of
// desktops, the current-desktop cursor, the navigation grid projected from
// that set, and persistence of the desktop configuration.
package desktop

import "fmt"

// Desktop is a single virtual desktop. Desktops are owned by a Manager; other
// components should hold on to an ID or number and resolve it through the
// manager, because shrinking the desktop count destroys Desktop values.
type Desktop struct {
	id     string
	number uint
	name   string

	nameChanged func(*Desktop)
}

// Info is a value snapshot of a Desktop.
type Info struct {
	ID     string `json:"id"`
	Number uint   `json:"number"`
	Name   string `json:"name"`
}

func newDesktop(id string, number uint, name string, nameChanged func(*Desktop)) *Desktop {
	return &Desktop{
		id:          id,
		number:      number,
		name:        name,
		nameChanged: nameChanged,
	}
}

// ID returns the stable identifier assigned at creation.
func (d *Desktop) ID() string {
	return d.id
}

// Number returns the 1-based position the desktop was created at.
func (d *Desktop) Number() uint {
	return d.number
}

// Name returns the display name, which may be empty.
func (d *Desktop) Name() string {
	return d.name
}

// SetName changes the display name. Setting the current name is a no-op and
// does not notify.
func (d *Desktop) SetName(name string) {
	if d.name == name {
		return
	}
	d.name = name
	if d.nameChanged != nil {
		d.nameChanged(d)
	}
}

// Info returns a snapshot of the desktop.
func (d *Desktop) Info() Info {
	return Info{ID: d.id, Number: d.number, Name: d.name}
}

// DefaultName returns the generated name for desktop number n.
func DefaultName(n uint) string {
	return fmt.Sprintf("Desktop %d", n)
}
