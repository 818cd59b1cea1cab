package desktop

import (
	"fmt"
	"strings"
)

// Direction names a navigation step relative to a desktop.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Next
	Previous
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return "unknown"
	}
}

// ParseDirection parses the names returned by Direction.String. "above",
// "below", "prev" are accepted as aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "above":
		return Up, nil
	case "down", "below":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "next":
		return Next, nil
	case "previous", "prev":
		return Previous, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// InDirection returns the desktop reached from id by one step in direction.
// An id of 0 means the current desktop; an id above Count returns 0.
func (m *Manager) InDirection(id uint, direction Direction, wrap bool) uint {
	switch direction {
	case Up:
		return m.Above(id, wrap)
	case Down:
		return m.Below(id, wrap)
	case Left:
		return m.ToLeft(id, wrap)
	case Right:
		return m.ToRight(id, wrap)
	case Next:
		return m.Next(id, wrap)
	case Previous:
		return m.Previous(id, wrap)
	}
	return m.resolve(id)
}

// MoveTo switches to the desktop in direction from the current one.
func (m *Manager) MoveTo(direction Direction, wrap bool) bool {
	return m.SetCurrent(m.InDirection(0, direction, wrap))
}

// Above returns the desktop above id. Without wrap, the top row returns id.
func (m *Manager) Above(id uint, wrap bool) uint {
	return m.gridStep(id, 0, -1, wrap)
}

// Below returns the desktop below id.
func (m *Manager) Below(id uint, wrap bool) uint {
	return m.gridStep(id, 0, 1, wrap)
}

// ToLeft returns the desktop left of id.
func (m *Manager) ToLeft(id uint, wrap bool) uint {
	return m.gridStep(id, -1, 0, wrap)
}

// ToRight returns the desktop right of id.
func (m *Manager) ToRight(id uint, wrap bool) uint {
	return m.gridStep(id, 1, 0, wrap)
}

// Next returns the desktop after id in sequence order.
func (m *Manager) Next(id uint, wrap bool) uint {
	id = m.resolve(id)
	if id == 0 {
		return 0
	}
	if id >= m.Count() {
		if wrap {
			return 1
		}
		return id
	}
	return id + 1
}

// Previous returns the desktop before id in sequence order.
func (m *Manager) Previous(id uint, wrap bool) uint {
	id = m.resolve(id)
	if id == 0 {
		return 0
	}
	if id == 1 {
		if wrap {
			return m.Count()
		}
		return id
	}
	return id - 1
}

// gridStep walks the grid from id by (dx, dy), skipping empty cells. The walk
// visits at most width*height cells so a row or column without desktops cannot
// loop forever.
func (m *Manager) gridStep(id uint, dx, dy int, wrap bool) uint {
	id = m.resolve(id)
	if id == 0 {
		return 0
	}
	p := m.grid.GridCoords(id)
	if p.X < 0 {
		// Desktop has no cell in an undersized grid.
		return id
	}
	width, height := m.grid.Width(), m.grid.Height()
	for steps := 0; steps < width*height; steps++ {
		p.X += dx
		p.Y += dy
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			if !wrap {
				return id
			}
			p.X = (p.X + width) % width
			p.Y = (p.Y + height) % height
		}
		if d := m.grid.At(p); d != 0 {
			return d
		}
	}
	return id
}

// resolve maps 0 to the current desktop. Numbers above Count name no
// desktop and resolve to 0, so every selector returns 0 for them.
func (m *Manager) resolve(id uint) uint {
	switch {
	case id == 0:
		return m.current
	case id > m.Count():
		return 0
	}
	return id
}
