package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ColorsMatchTypes(t *testing.T) {
	for _, p := range PieceTypes {
		shape := ShapeOf(p)
		count := 0
		shape.Each(func(_ Point, c Cell) {
			count++
			assert.Equal(t, p.Color(), c, "piece %s", p)
		})
		assert.Equal(t, 4, count, "piece %s should have four blocks", p)
	}
}

func TestCatalog_Sizes(t *testing.T) {
	assert.Equal(t, 4, ShapeOf(PieceI).Size())
	assert.Equal(t, 2, ShapeOf(PieceO).Size())
	for _, p := range []PieceType{PieceJ, PieceL, PieceS, PieceT, PieceZ} {
		assert.Equal(t, 3, ShapeOf(p).Size(), "piece %s", p)
	}
}

func TestShape_RotateFourTimesIsIdentity(t *testing.T) {
	for _, p := range PieceTypes {
		t.Run(p.String(), func(t *testing.T) {
			original := ShapeOf(p)
			s := original
			for i := 0; i < 4; i++ {
				s = s.Rotate()
			}
			assert.True(t, original.Equal(s))
		})
	}
}

func TestShape_RotateIsClockwise(t *testing.T) {
	got := ShapeOf(PieceT).Rotate()
	assert.Equal(t, ".#.\n.##\n.#.", got.String())

	got = ShapeOf(PieceJ).Rotate()
	assert.Equal(t, ".##\n.#.\n.#.", got.String())
}

func TestShape_RotateLeavesCatalogUntouched(t *testing.T) {
	before := ShapeOf(PieceL).String()
	_ = ShapeOf(PieceL).Rotate().Rotate()
	assert.Equal(t, before, ShapeOf(PieceL).String())
}

func TestShape_RowsIsACopy(t *testing.T) {
	rows := ShapeOf(PieceS).Rows()
	rows[0][0] = Cell(PieceZ)
	assert.Equal(t, Empty, ShapeOf(PieceS).At(0, 0))
}

func TestShape_Bottom(t *testing.T) {
	assert.Equal(t, 1, ShapeOf(PieceI).Bottom())
	assert.Equal(t, 1, ShapeOf(PieceO).Bottom())
	assert.Equal(t, 3, ShapeOf(PieceI).Rotate().Bottom())
	assert.Equal(t, -1, Shape{}.Bottom())
}

func TestNewShape_PanicsOnRagged(t *testing.T) {
	require.Panics(t, func() {
		NewShape([][]Cell{{1, 1}, {1}})
	})
}

func TestParsePieceType(t *testing.T) {
	p, ok := ParsePieceType("t")
	require.True(t, ok)
	assert.Equal(t, PieceT, p)

	_, ok = ParsePieceType("X")
	assert.False(t, ok)
	assert.Equal(t, "?", PieceType(0).String())
	assert.False(t, PieceType(8).Valid())
}
