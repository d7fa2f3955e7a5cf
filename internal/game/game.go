package game

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"blockfall/internal/engine"
	"blockfall/pkg/realtime"
)

const (
	StatusNotStarted = "not_started"
	StatusPlaying    = "playing"
	StatusGameOver   = "game_over"
)

// Event names published to subscribers.
const (
	EventBoard  = "board"
	EventScore  = "score"
	EventStatus = "status"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrNotOwner      = errors.New("not the game owner")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is a player intent sent over the wire.
type Action string

const (
	ActionLeft   Action = "left"
	ActionRight  Action = "right"
	ActionDown   Action = "down"
	ActionDrop   Action = "drop"
	ActionRotate Action = "rotate"
)

// ParseAction accepts an action name or one of the usual key names for it.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "arrowleft":
		return ActionLeft, nil
	case "right", "arrowright":
		return ActionRight, nil
	case "down", "arrowdown":
		return ActionDown, nil
	case "drop", "space", " ":
		return ActionDrop, nil
	case "rotate", "up", "arrowup":
		return ActionRotate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Game wraps one engine session for concurrent use by HTTP handlers and the tick loop.
type Game struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	OwnerID   string
	frame     time.Duration
	session   *engine.Session
	clock     realtime.Clock
	last      frameKey
	best      int
	played    int
	endedAt   time.Time
}

// frameKey captures what gravity and the flash timer can change between
// frames. The board is only republished when it differs.
type frameKey struct {
	phase        engine.Phase
	pos          engine.Point
	pieces       int
	flashing     int
	flashVisible bool
}

// NewGame creates a game that is waiting to be started. frame is the tick cadence.
func NewGame(frame time.Duration, opts ...engine.Option) *Game {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	g := &Game{
		ID:        newID(),
		CreatedAt: time.Now().UTC(),
		OwnerID:   newID(),
		frame:     frame,
		session:   engine.NewSession(opts...),
	}
	g.last = g.keyLocked()
	return g
}

// IsOwner reports whether the given player ID owns the game.
func (g *Game) IsOwner(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return playerID != "" && playerID == g.OwnerID
}

// Start spawns the first piece and starts the clock at now.
func (g *Game) Start(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.session.Start(); err != nil {
		return fmt.Errorf("start game %s: %w", g.ID, err)
	}
	g.clock.Reset()
	g.clock.Advance(now)
	g.session.TakeEvents()
	g.last = g.keyLocked()
	return nil
}

// Restart throws the current board away and starts over, keeping the best score.
func (g *Game) Restart(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recordLocked()
	g.session.Restart()
	g.endedAt = time.Time{}
	g.clock.Reset()
	g.clock.Advance(now)
	g.session.TakeEvents()
	g.last = g.keyLocked()
}

// Apply feeds one player intent to the session after catching up with now.
// It returns the events subscribers should be told about.
func (g *Game) Apply(action Action, now time.Time) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked(now)
	if g.session.Phase() != engine.PhasePlaying {
		return g.collectLocked(now), nil
	}
	var moved bool
	switch action {
	case ActionLeft:
		moved = g.session.Move(-1)
	case ActionRight:
		moved = g.session.Move(1)
	case ActionDown:
		moved = g.session.SoftDrop()
	case ActionDrop:
		moved = g.session.HardDrop()
	case ActionRotate:
		moved = g.session.Rotate()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	events := g.collectLocked(now)
	if moved && !contains(events, EventBoard) {
		events = append(events, EventBoard)
		g.last = g.keyLocked()
	}
	return events, nil
}

// Advance feeds the wall-clock time since the previous call into the session
// and returns the events subscribers should be told about.
func (g *Game) Advance(now time.Time) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked(now)
	return g.collectLocked(now)
}

func (g *Game) advanceLocked(now time.Time) {
	elapsed := g.clock.Advance(now)
	if g.session.Phase() == engine.PhasePlaying {
		g.session.Tick(elapsed)
	}
}

// collectLocked drains engine events and maps them to subscriber events.
func (g *Game) collectLocked(now time.Time) []string {
	var out []string
	add := func(name string) {
		if !contains(out, name) {
			out = append(out, name)
		}
	}
	for _, e := range g.session.TakeEvents() {
		switch e.Kind {
		case engine.EventLocked:
			add(EventBoard)
		case engine.EventLinesCleared, engine.EventLevelUp:
			add(EventBoard)
			add(EventScore)
		case engine.EventGameOver:
			add(EventBoard)
			add(EventScore)
			add(EventStatus)
		}
	}
	if key := g.keyLocked(); key != g.last {
		if key.phase != g.last.phase {
			add(EventStatus)
		}
		add(EventBoard)
		g.last = key
	}
	g.noteEndLocked(now)
	return out
}

func (g *Game) keyLocked() frameKey {
	return frameKey{
		phase:        g.session.Phase(),
		pos:          g.session.Piece().Pos,
		pieces:       g.session.Stats().Pieces,
		flashing:     len(g.session.FlashingRows()),
		flashVisible: g.session.FlashVisible(),
	}
}

func (g *Game) noteEndLocked(now time.Time) {
	if g.session.Over() && g.endedAt.IsZero() {
		g.endedAt = now
	}
}

func (g *Game) recordLocked() {
	if !g.session.Started() {
		return
	}
	g.played++
	if s := g.session.Score(); s > g.best {
		g.best = s
	}
}

// NextTimer returns when the tick loop should run next; false once the game is not playing.
func (g *Game) NextTimer(now time.Time) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session.Phase() != engine.PhasePlaying {
		return time.Time{}, false
	}
	return now.Add(g.frame), true
}

// Status returns the game's phase as a status string.
func (g *Game) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return statusOf(g.session.Phase())
}

// EndedAt returns when the game ended, zero while it has not.
func (g *Game) EndedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endedAt
}

// Snapshot captures the state needed for rendering, after catching up with now.
type Snapshot struct {
	ID          string
	Status      string
	CreatedAt   time.Time
	Board       engine.Snapshot
	Best        int
	GamesPlayed int
}

// Snapshot returns a consistent view of the game at now.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked(now)
	g.noteEndLocked(now)
	best := g.best
	played := g.played
	if g.session.Over() {
		played++
		if s := g.session.Score(); s > best {
			best = s
		}
	}
	return Snapshot{
		ID:          g.ID,
		Status:      statusOf(g.session.Phase()),
		CreatedAt:   g.CreatedAt,
		Board:       g.session.Snapshot(),
		Best:        best,
		GamesPlayed: played,
	}
}

func statusOf(p engine.Phase) string {
	switch p {
	case engine.PhasePlaying:
		return StatusPlaying
	case engine.PhaseGameOver:
		return StatusGameOver
	default:
		return StatusNotStarted
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newID() string {
	// 10 bytes -> 16 chars of base32, short and url-safe.
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(encoder.EncodeToString(buf))
}
