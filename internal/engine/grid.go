package engine

import "sort"

const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Cell is a grid or shape cell: 0 is empty, 1..7 is the color id of a piece type.
type Cell uint8

const Empty Cell = 0

// Filled reports whether the cell holds a block.
func (c Cell) Filled() bool {
	return c != Empty
}

// Point is a position in grid coordinates, y growing downwards.
type Point struct {
	X int
	Y int
}

// Grid is the settled playing field. Its dimensions are fixed at creation.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// NewGrid creates an all-empty grid.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height}
	g.cells = make([][]Cell, height)
	for y := range g.cells {
		g.cells[y] = make([]Cell, width)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At returns the cell at (x, y), or Empty when the coordinate is outside the field.
func (g *Grid) At(x, y int) Cell {
	if !g.inside(x, y) {
		return Empty
	}
	return g.cells[y][x]
}

// Set writes a cell; coordinates outside the field are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.inside(x, y) {
		return
	}
	g.cells[y][x] = c
}

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Blocked reports whether a block may not occupy (x, y). Columns outside the
// field and rows below the floor are blocked; rows above the top edge are open
// so pieces can spawn and rotate partly outside the field.
func (g *Grid) Blocked(x, y int) bool {
	if x < 0 || x >= g.width || y >= g.height {
		return true
	}
	if y < 0 {
		return false
	}
	return g.cells[y][x].Filled()
}

// Merge writes every occupied cell of shape into the grid at pos. It does not
// check for collisions. Cells above the top edge are dropped.
func (g *Grid) Merge(shape Shape, pos Point) {
	shape.Each(func(local Point, c Cell) {
		g.Set(pos.X+local.X, pos.Y+local.Y, c)
	})
}

// RowFull reports whether row y has no empty cell.
func (g *Grid) RowFull(y int) bool {
	if y < 0 || y >= g.height {
		return false
	}
	for _, c := range g.cells[y] {
		if !c.Filled() {
			return false
		}
	}
	return true
}

// FullRows returns the indices of all full rows, bottom to top.
func (g *Grid) FullRows() []int {
	var rows []int
	for y := g.height - 1; y >= 0; y-- {
		if g.RowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// RemoveRows deletes the given rows and inserts as many empty rows at the top.
// Survivors keep their relative order. Duplicates and out-of-range indices are
// ignored. Returns the number of rows removed.
func (g *Grid) RemoveRows(rows []int) int {
	doomed := make([]int, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for _, y := range rows {
		if y < 0 || y >= g.height || seen[y] {
			continue
		}
		seen[y] = true
		doomed = append(doomed, y)
	}
	if len(doomed) == 0 {
		return 0
	}
	// Highest index first so earlier removals never shift a pending index.
	sort.Sort(sort.Reverse(sort.IntSlice(doomed)))
	kept := g.cells
	for _, y := range doomed {
		kept = append(kept[:y:y], kept[y+1:]...)
	}
	fresh := make([][]Cell, 0, g.height)
	for range doomed {
		fresh = append(fresh, make([]Cell, g.width))
	}
	g.cells = append(fresh, kept...)
	return len(doomed)
}

// Rows returns a copy of the grid cells indexed [y][x].
func (g *Grid) Rows() [][]Cell {
	out := make([][]Cell, g.height)
	for y, row := range g.cells {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for _, row := range g.cells {
		for x := range row {
			row[x] = Empty
		}
	}
}
