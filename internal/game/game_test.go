package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockfall/internal/engine"
)

func newOGame(t *testing.T) (*Game, time.Time) {
	t.Helper()
	g := NewGame(10*time.Millisecond, engine.WithRandomizer(engine.NewSequence(engine.PieceO)))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.Start(now))
	return g, now
}

func TestNewGame(t *testing.T) {
	g := NewGame(0)
	assert.NotEmpty(t, g.ID)
	assert.NotEmpty(t, g.OwnerID)
	assert.NotEqual(t, g.ID, g.OwnerID)
	assert.Equal(t, DefaultFrameInterval, g.frame)
	assert.Equal(t, StatusNotStarted, g.Status())
	assert.False(t, g.IsOwner(""))
	assert.True(t, g.IsOwner(g.OwnerID))

	_, ok := g.NextTimer(time.Now())
	assert.False(t, ok, "no ticking before start")
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"left", ActionLeft},
		{"ArrowLeft", ActionLeft},
		{"right", ActionRight},
		{"down", ActionDown},
		{"drop", ActionDrop},
		{"space", ActionDrop},
		{"rotate", ActionRotate},
		{" ArrowUp ", ActionRotate},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAction("jump")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestGame_Start(t *testing.T) {
	g, now := newOGame(t)
	assert.Equal(t, StatusPlaying, g.Status())

	next, ok := g.NextTimer(now)
	require.True(t, ok)
	assert.Equal(t, now.Add(10*time.Millisecond), next)

	assert.ErrorIs(t, g.Start(now), engine.ErrAlreadyStarted)
}

func TestGame_AdvanceAppliesGravity(t *testing.T) {
	g, now := newOGame(t)

	events := g.Advance(now.Add(500 * time.Millisecond))
	assert.Empty(t, events, "nothing visible changed")

	events = g.Advance(now.Add(1001 * time.Millisecond))
	assert.Equal(t, []string{EventBoard}, events)
	assert.Equal(t, 1, g.Snapshot(now.Add(1001*time.Millisecond)).Board.Piece.Pos.Y)
}

func TestGame_AdvanceIgnoresClockGoingBackwards(t *testing.T) {
	g, now := newOGame(t)
	g.Advance(now.Add(300 * time.Millisecond))
	g.Advance(now)
	snap := g.Snapshot(now.Add(300 * time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, snap.Board.Clock)
}

func TestGame_Apply(t *testing.T) {
	g, now := newOGame(t)

	events, err := g.Apply(ActionLeft, now)
	require.NoError(t, err)
	assert.Equal(t, []string{EventBoard}, events)
	assert.Equal(t, 3, g.Snapshot(now).Board.Piece.Pos.X)

	events, err = g.Apply(ActionRotate, now)
	require.NoError(t, err)
	assert.Equal(t, []string{EventBoard}, events, "an O rotation still counts as a move")

	events, err = g.Apply(ActionDrop, now)
	require.NoError(t, err)
	assert.Equal(t, []string{EventBoard}, events)
	snap := g.Snapshot(now)
	assert.Len(t, snap.Board.Pieces, 7)
	assert.Equal(t, engine.Cell(engine.PieceO), snap.Board.Rows[19][3])

	_, err = g.Apply(Action("jump"), now)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestGame_ApplyBeforeStartIsIgnored(t *testing.T) {
	g := NewGame(time.Millisecond)
	events, err := g.Apply(ActionLeft, time.Now())
	require.NoError(t, err)
	assert.Empty(t, events)
}

// fillBottomRows drops five O pieces side by side, filling rows 18 and 19.
func fillBottomRows(t *testing.T, g *Game, now time.Time) {
	t.Helper()
	for _, dx := range []int{-4, -2, 0, 2, 4} {
		action := ActionRight
		steps := dx
		if dx < 0 {
			action = ActionLeft
			steps = -dx
		}
		for i := 0; i < steps; i++ {
			_, err := g.Apply(action, now)
			require.NoError(t, err)
		}
		_, err := g.Apply(ActionDrop, now)
		require.NoError(t, err)
	}
}

func TestGame_LineClearPublishesScore(t *testing.T) {
	g, now := newOGame(t)
	fillBottomRows(t, g, now)

	snap := g.Snapshot(now)
	assert.Equal(t, []int{19, 18}, snap.Board.Flashing)
	assert.Equal(t, 0, snap.Board.Score)

	events := g.Advance(now.Add(600 * time.Millisecond))
	assert.Contains(t, events, EventScore)
	assert.Contains(t, events, EventBoard)

	snap = g.Snapshot(now.Add(600 * time.Millisecond))
	assert.Equal(t, 20, snap.Board.Score)
	assert.Equal(t, 2, snap.Board.Lines)
	assert.Empty(t, snap.Board.Flashing)
}

func TestGame_GameOverAndRestart(t *testing.T) {
	g, now := newOGame(t)

	var events []string
	for i := 0; i < 20 && g.Status() == StatusPlaying; i++ {
		var err error
		events, err = g.Apply(ActionDrop, now)
		require.NoError(t, err)
	}
	require.Equal(t, StatusGameOver, g.Status())
	assert.Contains(t, events, EventStatus)
	assert.Equal(t, now, g.EndedAt())

	_, ok := g.NextTimer(now)
	assert.False(t, ok)

	snap := g.Snapshot(now)
	assert.Equal(t, StatusGameOver, snap.Status)
	assert.Equal(t, 1, snap.GamesPlayed)

	later := now.Add(time.Minute)
	g.Restart(later)
	assert.Equal(t, StatusPlaying, g.Status())
	assert.True(t, g.EndedAt().IsZero())
	snap = g.Snapshot(later)
	assert.Equal(t, 1, snap.GamesPlayed)
	assert.Equal(t, time.Duration(0), snap.Board.Clock)
	assert.Equal(t, 0, snap.Board.Score)
}

func TestGame_BestScoreSurvivesRestart(t *testing.T) {
	g, now := newOGame(t)
	fillBottomRows(t, g, now)
	g.Advance(now.Add(600 * time.Millisecond))

	g.Restart(now.Add(time.Second))
	snap := g.Snapshot(now.Add(time.Second))
	assert.Equal(t, 20, snap.Best)
	assert.Equal(t, 0, snap.Board.Score)
}
