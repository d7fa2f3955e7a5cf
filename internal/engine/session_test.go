package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession(WithSeed(1))
	assert.Equal(t, PhaseNotStarted, s.Phase())
	assert.False(t, s.Started())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, time.Second, s.DropInterval())
	assert.Equal(t, 10, s.Grid().Width())
	assert.Equal(t, 20, s.Grid().Height())
}

func TestSession_IntentsIgnoredBeforeStart(t *testing.T) {
	s := NewSession(WithSeed(1))
	assert.False(t, s.Move(1))
	assert.False(t, s.SoftDrop())
	assert.False(t, s.HardDrop())
	assert.False(t, s.Rotate())
	s.Tick(time.Minute)
	assert.Equal(t, time.Duration(0), s.Clock())
	assert.Equal(t, PhaseNotStarted, s.Phase())
}

func TestSession_StartOnlyOnce(t *testing.T) {
	s := NewSession(WithRandomizer(NewSequence(PieceT)))
	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
	assert.Equal(t, PhasePlaying, s.Phase())
}

func TestSession_SpawnCentred(t *testing.T) {
	tests := []struct {
		piece PieceType
		want  Point
	}{
		{PieceI, Point{X: 3, Y: 0}},
		{PieceO, Point{X: 4, Y: 0}},
		{PieceT, Point{X: 3, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.piece.String(), func(t *testing.T) {
			s := newStartedSession(t, tt.piece)
			assert.Equal(t, tt.piece, s.Piece().Type)
			assert.Equal(t, tt.want, s.Piece().Pos)
			assert.True(t, ShapeOf(tt.piece).Equal(s.Piece().Shape))
		})
	}
}

func TestSession_Gravity(t *testing.T) {
	s := newStartedSession(t, PieceT)

	s.Tick(time.Second)
	assert.Equal(t, 0, s.Piece().Pos.Y, "gravity waits until the interval is exceeded")

	s.Tick(time.Millisecond)
	assert.Equal(t, 1, s.Piece().Pos.Y)
	assert.Equal(t, 1001*time.Millisecond, s.Clock())
}

func TestSession_NegativeTickIsZero(t *testing.T) {
	s := newStartedSession(t, PieceT)
	s.Tick(-5 * time.Second)
	assert.Equal(t, time.Duration(0), s.Clock())
	assert.Equal(t, Point{X: 3, Y: 0}, s.Piece().Pos)
}

func TestSession_Move(t *testing.T) {
	s := newStartedSession(t, PieceT)
	assert.True(t, s.Move(-1))
	assert.Equal(t, 2, s.Piece().Pos.X)
	assert.False(t, s.Move(2), "only single-column moves are accepted")
	assert.False(t, s.Move(0))

	for s.Move(-1) {
	}
	assert.Equal(t, 0, s.Piece().Pos.X)
	for s.Move(1) {
	}
	assert.Equal(t, 7, s.Piece().Pos.X)
}

func TestSession_SoftDrop(t *testing.T) {
	s := newStartedSession(t, PieceT)
	s.Tick(900 * time.Millisecond)
	require.True(t, s.SoftDrop())
	assert.Equal(t, 1, s.Piece().Pos.Y)

	// The gravity counter restarted, so another 900ms does not drop the piece.
	s.Tick(900 * time.Millisecond)
	assert.Equal(t, 1, s.Piece().Pos.Y)

	for s.SoftDrop() {
	}
	assert.Equal(t, 18, s.Piece().Pos.Y)
	assert.Equal(t, 1, s.Stats().Pieces, "soft drop never locks")

	s.Tick(200 * time.Millisecond)
	require.Equal(t, 200*time.Millisecond, s.LockDelayElapsed())
	assert.False(t, s.SoftDrop())
	assert.Equal(t, 200*time.Millisecond, s.LockDelayElapsed(), "a grounded soft drop leaves the lock delay alone")
	assert.Equal(t, 18, s.Piece().Pos.Y)
}

func TestSession_LockDelay(t *testing.T) {
	s := newStartedSession(t, PieceO)
	for s.SoftDrop() {
	}
	require.Equal(t, 18, s.Piece().Pos.Y)

	s.Tick(200 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, s.LockDelayElapsed())

	require.True(t, s.Move(-1))
	assert.Equal(t, time.Duration(0), s.LockDelayElapsed(), "a successful move restarts the lock delay")

	s.Tick(499 * time.Millisecond)
	assert.Equal(t, 1, s.Stats().Pieces)
	assert.Equal(t, Point{X: 3, Y: 18}, s.Piece().Pos)

	s.Tick(time.Millisecond)
	assert.Equal(t, 2, s.Stats().Pieces)
	assert.Equal(t, Point{X: 4, Y: 0}, s.Piece().Pos)
	for _, p := range []Point{{3, 18}, {4, 18}, {3, 19}, {4, 19}} {
		assert.Equal(t, Cell(PieceO), s.Grid().At(p.X, p.Y), "%v", p)
	}
}

func TestSession_RotateResetsLockDelay(t *testing.T) {
	s := newStartedSession(t, PieceT)
	// Stubs under the T's wings hold it at y=17 with room below its stem, so
	// the three-row rotation fits.
	s.grid.Set(3, 19, Cell(PieceL))
	s.grid.Set(5, 19, Cell(PieceL))
	for s.SoftDrop() {
	}
	require.Equal(t, Point{X: 3, Y: 17}, s.Piece().Pos)
	s.Tick(300 * time.Millisecond)
	require.Equal(t, 300*time.Millisecond, s.LockDelayElapsed())

	require.True(t, s.Rotate())
	assert.Equal(t, time.Duration(0), s.LockDelayElapsed())
	assert.True(t, ShapeOf(PieceT).Rotate().Equal(s.Piece().Shape))
}

func TestSession_HardDropRests(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, p := range PieceTypes {
		for x := -1; x < 10; x++ {
			s := newStartedSession(t, p)
			for y := 8; y < 20; y++ {
				for cx := 0; cx < 10; cx++ {
					if rng.Intn(4) == 0 {
						s.grid.Set(cx, y, Cell(PieceZ))
					}
				}
			}
			target := Point{X: x, Y: 0}
			if Collides(s.grid, s.piece.Shape, target) {
				continue
			}
			s.piece.Pos = target
			before := cloneGrid(s.grid)
			shape := s.piece.Shape
			ghost := s.Ghost()

			require.True(t, s.HardDrop())

			assert.False(t, Collides(before, shape, ghost), "%s x=%d", p, x)
			assert.True(t, Collides(before, shape, Point{X: ghost.X, Y: ghost.Y + 1}), "%s x=%d should rest", p, x)
			shape.Each(func(local Point, c Cell) {
				assert.Equal(t, c, s.grid.At(ghost.X+local.X, ghost.Y+local.Y))
			})
			assert.Equal(t, time.Duration(0), s.LockDelayElapsed())
		}
	}
}

func TestSession_HardDropEvent(t *testing.T) {
	s := newStartedSession(t, PieceI)
	require.True(t, s.HardDrop())
	assert.Equal(t, []Event{{Kind: EventLocked, Piece: PieceI, HardDrop: true}}, s.TakeEvents())
	assert.Empty(t, s.TakeEvents())
}

func TestSession_Ghost(t *testing.T) {
	s := newStartedSession(t, PieceT)
	assert.Equal(t, Point{X: 3, Y: 18}, s.Ghost())
	s.grid.Set(4, 15, Cell(PieceJ))
	assert.Equal(t, Point{X: 3, Y: 13}, s.Ghost())
}

func TestSession_GameOverOnBlockedSpawn(t *testing.T) {
	s := NewSession(WithRandomizer(NewSequence(PieceT)))
	for x := 3; x <= 5; x++ {
		s.grid.Set(x, 1, Cell(PieceL))
	}
	require.NoError(t, s.Start())
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.True(t, s.Over())
	assert.Equal(t, []Event{{Kind: EventGameOver, Level: 1}}, s.TakeEvents())

	frozen := s.Snapshot()
	s.Tick(10 * time.Second)
	assert.False(t, s.Move(-1))
	assert.False(t, s.Move(1))
	assert.False(t, s.SoftDrop())
	assert.False(t, s.HardDrop())
	assert.False(t, s.Rotate())
	assert.Equal(t, frozen, s.Snapshot())
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
}

func TestSession_GameOverAfterStacking(t *testing.T) {
	s := newStartedSession(t, PieceO)
	for i := 0; i < 20 && !s.Over(); i++ {
		s.HardDrop()
	}
	require.True(t, s.Over())
	assert.Equal(t, 11, s.Stats().Pieces, "ten O pieces fill the centre columns, the eleventh spawns blocked")
	assert.Equal(t, 0, s.Score())
}

func TestSession_Restart(t *testing.T) {
	s := newStartedSession(t, PieceI, PieceO)
	s.HardDrop()
	s.Tick(300 * time.Millisecond)
	require.Equal(t, PieceO, s.Piece().Type)

	s.Restart()

	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Lines())
	assert.Equal(t, time.Duration(0), s.Clock())
	assert.Equal(t, 1, s.Stats().Pieces)
	assert.Equal(t, PieceI, s.Piece().Type, "the randomizer carries on across restarts")
	for _, row := range s.Grid().Rows() {
		for _, c := range row {
			assert.Equal(t, Empty, c)
		}
	}
}

func TestSession_RestartAfterGameOver(t *testing.T) {
	s := newStartedSession(t, PieceO)
	for !s.Over() {
		s.HardDrop()
	}
	s.Restart()
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Empty(t, s.Grid().FullRows())
	assert.Equal(t, Point{X: 4, Y: 0}, s.Piece().Pos)
}
