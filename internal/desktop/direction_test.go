package desktop

import "testing"

func TestNextPrevious(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(4)

	tests := []struct {
		name string
		got  uint
		want uint
	}{
		{name: "next wraps", got: m.Next(4, true), want: 1},
		{name: "next stops", got: m.Next(4, false), want: 4},
		{name: "next middle", got: m.Next(2, false), want: 3},
		{name: "previous wraps", got: m.Previous(1, true), want: 4},
		{name: "previous stops", got: m.Previous(1, false), want: 1},
		{name: "previous middle", got: m.Previous(3, true), want: 2},
		{name: "next of current", got: m.Next(0, false), want: 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestGridDirections_NonRectangular(t *testing.T) {
	// 5 desktops on 3x2:
	//   1 2 3
	//   4 5 .
	m := newTestManager(Options{})
	m.SetCount(5)

	tests := []struct {
		name string
		got  uint
		want uint
	}{
		{name: "right skips empty, no wrap", got: m.ToRight(5, false), want: 5},
		{name: "right skips empty, wrap", got: m.ToRight(5, true), want: 4},
		{name: "left skips empty, wrap", got: m.ToLeft(4, true), want: 5},
		{name: "left edge, no wrap", got: m.ToLeft(1, false), want: 1},
		{name: "left edge, wrap", got: m.ToLeft(1, true), want: 3},
		{name: "below", got: m.Below(2, false), want: 5},
		{name: "below into empty, no wrap", got: m.Below(3, false), want: 3},
		{name: "below into empty, wrap", got: m.Below(3, true), want: 3},
		{name: "above", got: m.Above(4, false), want: 1},
		{name: "above edge, wrap", got: m.Above(1, true), want: 4},
		{name: "above edge, no wrap", got: m.Above(2, false), want: 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestGridDirections_CycleReturnsToOrigin(t *testing.T) {
	for _, count := range []uint{4, 8} {
		m := newTestManager(Options{})
		m.SetCount(count)
		for origin := uint(1); origin <= count; origin++ {
			for _, dir := range []Direction{Up, Down, Left, Right} {
				id := origin
				for i := 0; i < 4; i++ {
					id = m.InDirection(id, dir, true)
				}
				if id != origin {
					t.Errorf("count %d: %s x4 from %d ended at %d", count, dir, origin, id)
				}
			}
		}
	}
}

func TestDirections_UnreachableDesktopStays(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(5)
	m.Grid().Update(Size{Width: 2, Height: 2}, Horizontal, 5)

	if got := m.ToRight(5, true); got != 5 {
		t.Fatalf("ToRight(5) = %d, want 5", got)
	}
	if got := m.Next(5, true); got != 1 {
		t.Fatalf("Next(5) = %d, want 1", got)
	}
}

func TestMoveTo_RightWrapsOn2x2(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(4)
	m.SetCurrent(1)

	if !m.MoveTo(Right, true) || m.Current() != 2 {
		t.Fatalf("first move: current = %d, want 2", m.Current())
	}
	if !m.MoveTo(Right, true) || m.Current() != 1 {
		t.Fatalf("second move: current = %d, want 1", m.Current())
	}
	if m.MoveTo(Left, false) {
		t.Fatalf("move past the edge without wrap should fail")
	}
}

func TestDirections_AreQueries(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(4)
	rec := record(m)

	for _, dir := range []Direction{Up, Down, Left, Right, Next, Previous} {
		m.InDirection(0, dir, true)
	}

	if m.Current() != 1 || len(rec.events) != 0 {
		t.Fatalf("queries changed state: current=%d events=%v", m.Current(), rec.kinds())
	}
}

func TestDirections_UnknownDesktop(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(4)
	m.SetCurrent(2)

	for _, dir := range []Direction{Up, Down, Left, Right, Next, Previous} {
		if got := m.InDirection(25, dir, true); got != 0 {
			t.Errorf("%s from 25 = %d, want 0", dir, got)
		}
	}
	if got := m.Next(5, false); got != 0 {
		t.Fatalf("Next(5) = %d, want 0", got)
	}
}

func TestDirections_EmptyManager(t *testing.T) {
	m := newTestManager(Options{})
	for _, dir := range []Direction{Up, Down, Left, Right, Next, Previous} {
		if got := m.InDirection(0, dir, true); got != 0 {
			t.Errorf("%s on empty manager = %d", dir, got)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"up": Up, "Above": Up, "down": Down, "below": Down,
		"left": Left, " right ": Right, "next": Next, "prev": Previous, "previous": Previous,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil {
			t.Errorf("ParseDirection(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDirection(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestTrigger(t *testing.T) {
	m := newTestManager(Options{})
	m.SetCount(4)

	if m.Trigger(Action{Direction: Left}) {
		t.Fatalf("left from 1 without wrapping should not move")
	}
	m.SetNavigationWrappingAround(true)
	if !m.Trigger(Action{Direction: Left}) || m.Current() != 2 {
		t.Fatalf("left with wrapping: current = %d, want 2", m.Current())
	}
	if !m.Trigger(Action{Desktop: 4}) || m.Current() != 4 {
		t.Fatalf("switch to 4: current = %d", m.Current())
	}
	if m.Trigger(Action{Desktop: 9}) {
		t.Fatalf("switch to missing desktop should fail")
	}
}
