package engine

import "strings"

// PieceType identifies one of the seven standard pieces. Its value doubles as
// the color id written into the grid.
type PieceType int

const (
	PieceI PieceType = iota + 1
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// PieceTypes lists every piece type in catalog order.
var PieceTypes = []PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}

var pieceNames = map[PieceType]string{
	PieceI: "I",
	PieceJ: "J",
	PieceL: "L",
	PieceO: "O",
	PieceS: "S",
	PieceT: "T",
	PieceZ: "Z",
}

func (p PieceType) String() string {
	if name, ok := pieceNames[p]; ok {
		return name
	}
	return "?"
}

// Valid reports whether p is one of the seven standard pieces.
func (p PieceType) Valid() bool {
	return p >= PieceI && p <= PieceZ
}

// Color returns the cell value a piece of this type leaves in the grid.
func (p PieceType) Color() Cell {
	return Cell(p)
}

// ParsePieceType maps a single letter (case-insensitive) to its piece type.
func ParsePieceType(s string) (PieceType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for p, name := range pieceNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// Shape is an immutable N×N block pattern. Transformations return new values.
type Shape struct {
	size  int
	cells []Cell
}

// NewShape builds a shape from square rows. It panics if rows are not square.
func NewShape(rows [][]Cell) Shape {
	n := len(rows)
	cells := make([]Cell, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			panic("engine: shape rows must form a square")
		}
		cells = append(cells, row...)
	}
	return Shape{size: n, cells: cells}
}

// Size returns N, which is both the width and the height of the bounding box.
func (s Shape) Size() int { return s.size }

// Width is the bounding box width used for centring and kick bounds.
func (s Shape) Width() int { return s.size }

// At returns the cell at local (x, y), Empty outside the box.
func (s Shape) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= s.size || y >= s.size {
		return Empty
	}
	return s.cells[y*s.size+x]
}

// Each calls fn for every occupied cell with its local coordinate.
func (s Shape) Each(fn func(local Point, c Cell)) {
	for i, c := range s.cells {
		if c.Filled() {
			fn(Point{X: i % s.size, Y: i / s.size}, c)
		}
	}
}

// Rotate returns the shape turned 90° clockwise: transpose, then mirror each row.
func (s Shape) Rotate() Shape {
	n := s.size
	out := make([]Cell, len(s.cells))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[x*n+(n-1-y)] = s.cells[y*n+x]
		}
	}
	return Shape{size: n, cells: out}
}

// Equal reports whether both shapes have the same size and cells.
func (s Shape) Equal(other Shape) bool {
	if s.size != other.size {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the shape as rows indexed [y][x].
func (s Shape) Rows() [][]Cell {
	out := make([][]Cell, s.size)
	for y := range out {
		out[y] = append([]Cell(nil), s.cells[y*s.size:(y+1)*s.size]...)
	}
	return out
}

// Bottom returns the lowest occupied local row, or -1 for an empty shape.
func (s Shape) Bottom() int {
	bottom := -1
	s.Each(func(local Point, _ Cell) {
		if local.Y > bottom {
			bottom = local.Y
		}
	})
	return bottom
}

func (s Shape) String() string {
	var b strings.Builder
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			if s.At(x, y).Filled() {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < s.size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var catalog = map[PieceType]Shape{
	PieceI: NewShape([][]Cell{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}),
	PieceJ: NewShape([][]Cell{
		{2, 0, 0},
		{2, 2, 2},
		{0, 0, 0},
	}),
	PieceL: NewShape([][]Cell{
		{0, 0, 3},
		{3, 3, 3},
		{0, 0, 0},
	}),
	PieceO: NewShape([][]Cell{
		{4, 4},
		{4, 4},
	}),
	PieceS: NewShape([][]Cell{
		{0, 5, 5},
		{5, 5, 0},
		{0, 0, 0},
	}),
	PieceT: NewShape([][]Cell{
		{0, 6, 0},
		{6, 6, 6},
		{0, 0, 0},
	}),
	PieceZ: NewShape([][]Cell{
		{7, 7, 0},
		{0, 7, 7},
		{0, 0, 0},
	}),
}

// ShapeOf returns the canonical spawn orientation of p. Shapes are values, so
// callers can never alter the catalog through the result.
func ShapeOf(p PieceType) Shape {
	return catalog[p]
}
