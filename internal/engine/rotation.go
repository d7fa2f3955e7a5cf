package engine

// ResolveRotation turns shape clockwise and searches for a legal position.
//
// The rotated shape is tried at pos first, then shifted sideways by a running
// offset 1, -2, 3, -4, ... (so x+1, x-1, x+2, x-2, ...) until the next offset
// would exceed the shape width. This is a small horizontal search, not an SRS
// kick table.
//
// When the search is exhausted the rotation is rejected: the original shape is
// returned with x reset to the centred spawn column and y unchanged, unless
// that column collides, in which case pos is returned untouched. The boolean
// reports whether the rotation was applied.
func ResolveRotation(g *Grid, shape Shape, pos Point) (Shape, Point, bool) {
	rotated := shape.Rotate()
	candidate := pos
	offset := 1
	for Collides(g, rotated, candidate) {
		candidate.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > rotated.Width() {
			return shape, rejectedPosition(g, shape, pos), false
		}
	}
	return rotated, candidate, true
}

func rejectedPosition(g *Grid, shape Shape, pos Point) Point {
	centred := Point{X: SpawnX(g, shape.Width()), Y: pos.Y}
	if Collides(g, shape, centred) {
		return pos
	}
	return centred
}
