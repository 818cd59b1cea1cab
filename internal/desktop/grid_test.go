package desktop

import "testing"

func TestGridUpdate_HorizontalFillsRows(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: 3, Height: 2}, Horizontal, 5)

	want := map[Point]uint{
		{0, 0}: 1, {1, 0}: 2, {2, 0}: 3,
		{0, 1}: 4, {1, 1}: 5, {2, 1}: 0,
	}
	for p, id := range want {
		if got := g.At(p); got != id {
			t.Errorf("At(%v) = %d, want %d", p, got, id)
		}
	}
}

func TestGridUpdate_VerticalFillsColumns(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: 3, Height: 2}, Vertical, 5)

	want := map[Point]uint{
		{0, 0}: 1, {0, 1}: 2,
		{1, 0}: 3, {1, 1}: 4,
		{2, 0}: 5, {2, 1}: 0,
	}
	for p, id := range want {
		if got := g.At(p); got != id {
			t.Errorf("At(%v) = %d, want %d", p, got, id)
		}
	}
}

func TestGridCoordsRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		size        Size
		orientation Orientation
		count       uint
	}{
		{name: "single", size: Size{1, 1}, orientation: Horizontal, count: 1},
		{name: "2x2", size: Size{2, 2}, orientation: Horizontal, count: 4},
		{name: "3x2 partial", size: Size{3, 2}, orientation: Horizontal, count: 5},
		{name: "vertical 4x3", size: Size{4, 3}, orientation: Vertical, count: 11},
		{name: "single row", size: Size{20, 1}, orientation: Horizontal, count: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid()
			g.Update(tt.size, tt.orientation, tt.count)
			for d := uint(1); d <= tt.count; d++ {
				if got := g.At(g.GridCoords(d)); got != d {
					t.Fatalf("At(GridCoords(%d)) = %d", d, got)
				}
			}
		})
	}
}

func TestGridAt_OutOfBoundsReturnsZero(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: 2, Height: 2}, Horizontal, 4)

	for _, p := range []Point{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {-5, -5}, {100, 100}} {
		if got := g.At(p); got != 0 {
			t.Errorf("At(%v) = %d, want 0", p, got)
		}
	}
}

func TestGridUpdate_UndersizedLeavesTrailingDesktopsWithoutCell(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: 2, Height: 2}, Horizontal, 5)

	if got := g.GridCoords(5); got != (Point{-1, -1}) {
		t.Fatalf("GridCoords(5) = %v, want (-1,-1)", got)
	}
	if got := g.At(Point{1, 1}); got != 4 {
		t.Fatalf("At(1,1) = %d, want 4", got)
	}
	if got := g.At(Point{2, 1}); got != 0 {
		t.Fatalf("At(2,1) = %d, want 0", got)
	}
}

func TestGridCoords_ZeroAndUnknown(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: 2, Height: 1}, Horizontal, 2)

	if got := g.GridCoords(0); got != (Point{-1, -1}) {
		t.Errorf("GridCoords(0) = %v", got)
	}
	if got := g.GridCoords(3); got != (Point{-1, -1}) {
		t.Errorf("GridCoords(3) = %v", got)
	}
}

func TestGridUpdate_NegativeSizeIsEmpty(t *testing.T) {
	g := NewGrid()
	g.Update(Size{Width: -1, Height: 3}, Horizontal, 2)

	if g.Width() != 0 || g.Height() != 3 {
		t.Fatalf("size = %v", g.Size())
	}
	if got := g.At(Point{0, 0}); got != 0 {
		t.Fatalf("At(0,0) = %d", got)
	}
}
