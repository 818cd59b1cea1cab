package desktop

// Orientation selects how desktop numbers are laid out in a Grid.
type Orientation int

const (
	// Horizontal fills the grid row by row.
	Horizontal Orientation = iota
	// Vertical fills the grid column by column.
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Point is a cell coordinate in a Grid.
type Point struct {
	X int
	Y int
}

// Size is a grid size in cells.
type Size struct {
	Width  int
	Height int
}

// Grid maps desktop numbers onto a two-dimensional arrangement used for
// spatial navigation. Cell value 0 means the cell holds no desktop.
type Grid struct {
	size        Size
	orientation Orientation
	cells       []uint
}

// NewGrid returns an empty grid with the default 1x2 size.
func NewGrid() *Grid {
	return &Grid{
		size:  Size{Width: 1, Height: 2},
		cells: make([]uint, 2),
	}
}

// Update rebuilds the grid for desktops 1..count. If the grid has fewer cells
// than count, the trailing desktops get no cell.
func (g *Grid) Update(size Size, orientation Orientation, count uint) {
	if size.Width < 0 {
		size.Width = 0
	}
	if size.Height < 0 {
		size.Height = 0
	}
	g.size = size
	g.orientation = orientation
	g.cells = make([]uint, size.Width*size.Height)

	next := uint(1)
	if orientation == Vertical {
		for x := 0; x < size.Width; x++ {
			for y := 0; y < size.Height && next <= count; y++ {
				g.cells[y*size.Width+x] = next
				next++
			}
		}
		return
	}
	for i := 0; i < len(g.cells) && next <= count; i++ {
		g.cells[i] = next
		next++
	}
}

// At returns the desktop number at p, or 0 when p is outside the grid or the
// cell is empty.
func (g *Grid) At(p Point) uint {
	if p.X < 0 || p.Y < 0 || p.X >= g.size.Width || p.Y >= g.size.Height {
		return 0
	}
	return g.cells[p.Y*g.size.Width+p.X]
}

// GridCoords returns the coordinates of desktop id, or (-1,-1) if it has no
// cell.
func (g *Grid) GridCoords(id uint) Point {
	if id == 0 {
		return Point{X: -1, Y: -1}
	}
	for i, cell := range g.cells {
		if cell == id {
			return Point{X: i % g.size.Width, Y: i / g.size.Width}
		}
	}
	return Point{X: -1, Y: -1}
}

// Size returns the dimensions set by the last Update.
func (g *Grid) Size() Size { return g.size }

// Width is the number of columns.
func (g *Grid) Width() int { return g.size.Width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.size.Height }

// Orientation reports how the last Update filled the grid.
func (g *Grid) Orientation() Orientation { return g.orientation }
