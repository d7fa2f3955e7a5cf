package engine

// Collides reports whether shape placed at pos overlaps a blocked grid cell.
func Collides(g *Grid, shape Shape, pos Point) bool {
	n := shape.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !shape.At(x, y).Filled() {
				continue
			}
			if g.Blocked(pos.X+x, pos.Y+y) {
				return true
			}
		}
	}
	return false
}

// DropPosition projects shape straight down from pos and returns the lowest
// position it can reach without colliding. pos itself is assumed legal.
func DropPosition(g *Grid, shape Shape, pos Point) Point {
	if shape.Bottom() < 0 {
		return pos
	}
	for !Collides(g, shape, Point{X: pos.X, Y: pos.Y + 1}) {
		pos.Y++
	}
	return pos
}

// SpawnX returns the column that centres a box of the given width on the grid.
func SpawnX(g *Grid, width int) int {
	return (g.Width() - width) / 2
}
