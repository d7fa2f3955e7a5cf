package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// legalByHand restates the placement rule cell by cell.
func legalByHand(g *Grid, shape Shape, pos Point) bool {
	legal := true
	shape.Each(func(local Point, _ Cell) {
		x, y := pos.X+local.X, pos.Y+local.Y
		switch {
		case x < 0 || x >= g.Width() || y >= g.Height():
			legal = false
		case y >= 0 && g.At(x, y).Filled():
			legal = false
		}
	})
	return legal
}

func TestCollides_MatchesCellRule(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(10, 20)
	for y := 10; y < 20; y++ {
		for x := 0; x < 10; x++ {
			if rng.Intn(3) == 0 {
				g.Set(x, y, Cell(rng.Intn(7)+1))
			}
		}
	}

	for _, p := range PieceTypes {
		shape := ShapeOf(p)
		for turn := 0; turn < 4; turn++ {
			for y := -4; y <= 21; y++ {
				for x := -4; x <= 11; x++ {
					pos := Point{X: x, Y: y}
					want := !legalByHand(g, shape, pos)
					if got := Collides(g, shape, pos); got != want {
						t.Fatalf("%s turn %d at %v: Collides=%v, want %v", p, turn, pos, got, want)
					}
				}
			}
			shape = shape.Rotate()
		}
	}
}

func TestCollides_PartlyAboveTopIsLegal(t *testing.T) {
	g := NewGrid(10, 20)
	assert.False(t, Collides(g, ShapeOf(PieceI).Rotate(), Point{X: 3, Y: -2}))
}

func TestDropPosition(t *testing.T) {
	g := NewGrid(10, 20)
	assert.Equal(t, Point{X: 3, Y: 18}, DropPosition(g, ShapeOf(PieceT), Point{X: 3, Y: 0}))

	g.Set(4, 12, Cell(PieceZ))
	assert.Equal(t, Point{X: 3, Y: 10}, DropPosition(g, ShapeOf(PieceT), Point{X: 3, Y: 0}))

	assert.Equal(t, Point{X: 1, Y: 2}, DropPosition(g, Shape{}, Point{X: 1, Y: 2}))
}

func TestSpawnX(t *testing.T) {
	g := NewGrid(10, 20)
	assert.Equal(t, 3, SpawnX(g, ShapeOf(PieceI).Width()))
	assert.Equal(t, 3, SpawnX(g, ShapeOf(PieceT).Width()))
	assert.Equal(t, 4, SpawnX(g, ShapeOf(PieceO).Width()))
}
