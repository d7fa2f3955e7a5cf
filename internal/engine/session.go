package engine

import (
	"errors"
	"time"

	"blockfall/pkg/realtime"
)

// Phase is the top-level state of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

var ErrAlreadyStarted = errors.New("session already started")

// Piece is the active, player-controlled piece.
type Piece struct {
	Type  PieceType
	Shape Shape
	Pos   Point
}

// Session owns one game: the grid, the active piece, timers and score. It is
// not safe for concurrent use; hosts that share a session must serialize calls.
type Session struct {
	grid       *Grid
	randomizer Randomizer
	piece      Piece
	phase      Phase

	score        int
	level        int
	dropInterval time.Duration

	clock       time.Duration
	dropCounter time.Duration
	lockDelay   time.Duration

	flashing []int
	flash    realtime.Deadline

	stats  Stats
	events []Event
}

// Option configures a Session.
type Option func(*Session)

// WithRandomizer replaces the uniform randomizer.
func WithRandomizer(r Randomizer) Option {
	return func(s *Session) {
		if r != nil {
			s.randomizer = r
		}
	}
}

// WithSeed seeds the uniform randomizer.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.randomizer = NewRandomizer(seed)
	}
}

// NewSession creates a session in PhaseNotStarted with an empty standard grid.
func NewSession(opts ...Option) *Session {
	s := &Session{randomizer: NewRandomizer(0)}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.grid = NewGrid(DefaultWidth, DefaultHeight)
	s.piece = Piece{}
	s.phase = PhaseNotStarted
	s.score = 0
	s.updateLevel()
	s.clock = 0
	s.dropCounter = 0
	s.lockDelay = 0
	s.flashing = nil
	s.flash.Disarm()
	s.stats = newStats()
	s.events = nil
}

// Start spawns the first piece and enters PhasePlaying. It only works once.
func (s *Session) Start() error {
	if s.phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}
	s.phase = PhasePlaying
	s.spawn()
	return nil
}

// Restart discards the whole game state and starts a fresh game.
func (s *Session) Restart() {
	s.reset()
	_ = s.Start()
}

// Tick advances the session by elapsed engine time. Negative values count as zero.
func (s *Session) Tick(elapsed time.Duration) {
	if s.phase != PhasePlaying {
		return
	}
	if elapsed < 0 {
		elapsed = 0
	}
	s.clock += elapsed

	if s.flash.Due(s.clock) {
		s.clearRows()
		s.liftPiece()
	}

	s.dropCounter += elapsed
	if s.dropCounter > s.dropInterval {
		s.dropCounter = 0
		if s.shift(0, 1) {
			s.lockDelay = 0
			return
		}
	}

	if s.canFall() {
		s.lockDelay = 0
		return
	}
	s.lockDelay += elapsed
	if s.lockDelay >= LockDelay {
		s.lock(false)
	}
}

// Move shifts the active piece one column; dir must be -1 or 1.
func (s *Session) Move(dir int) bool {
	if s.phase != PhasePlaying || (dir != -1 && dir != 1) {
		return false
	}
	if !s.shift(dir, 0) {
		return false
	}
	s.lockDelay = 0
	return true
}

// SoftDrop moves the active piece one row down and restarts the gravity counter.
func (s *Session) SoftDrop() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.dropCounter = 0
	if !s.shift(0, 1) {
		return false
	}
	s.lockDelay = 0
	return true
}

// HardDrop drops the active piece to the lowest legal row and locks it at once.
func (s *Session) HardDrop() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.piece.Pos = DropPosition(s.grid, s.piece.Shape, s.piece.Pos)
	s.lock(true)
	return true
}

// Rotate turns the active piece clockwise through ResolveRotation.
func (s *Session) Rotate() bool {
	if s.phase != PhasePlaying {
		return false
	}
	shape, pos, ok := ResolveRotation(s.grid, s.piece.Shape, s.piece.Pos)
	s.piece.Shape = shape
	s.piece.Pos = pos
	if ok {
		s.lockDelay = 0
	}
	return ok
}

// Ghost returns where the active piece would land if dropped now.
func (s *Session) Ghost() Point {
	if s.phase == PhaseNotStarted {
		return s.piece.Pos
	}
	return DropPosition(s.grid, s.piece.Shape, s.piece.Pos)
}

func (s *Session) shift(dx, dy int) bool {
	next := Point{X: s.piece.Pos.X + dx, Y: s.piece.Pos.Y + dy}
	if Collides(s.grid, s.piece.Shape, next) {
		return false
	}
	s.piece.Pos = next
	return true
}

func (s *Session) canFall() bool {
	return !Collides(s.grid, s.piece.Shape, Point{X: s.piece.Pos.X, Y: s.piece.Pos.Y + 1})
}

// lock merges the active piece, resolves any clear still flashing, sweeps for
// new full rows and spawns the next piece.
func (s *Session) lock(hard bool) {
	s.grid.Merge(s.piece.Shape, s.piece.Pos)
	s.emit(Event{Kind: EventLocked, Piece: s.piece.Type, HardDrop: hard})
	if s.flash.Armed() {
		s.clearRows()
	}
	s.sweep()
	s.lockDelay = 0
	s.dropCounter = 0
	s.spawn()
}

func (s *Session) spawn() {
	kind := s.randomizer.Next()
	if !kind.Valid() {
		kind = PieceI
	}
	shape := ShapeOf(kind)
	s.piece = Piece{
		Type:  kind,
		Shape: shape,
		Pos:   Point{X: SpawnX(s.grid, shape.Width()), Y: 0},
	}
	s.stats.recordSpawn(kind)
	if Collides(s.grid, s.piece.Shape, s.piece.Pos) {
		s.gameOver()
	}
}

func (s *Session) gameOver() {
	if s.flash.Armed() {
		s.clearRows()
	}
	s.phase = PhaseGameOver
	s.emit(Event{Kind: EventGameOver, Level: s.level, Points: s.score})
}

func (s *Session) updateLevel() {
	s.level = LevelFor(s.score)
	s.dropInterval = DropIntervalFor(s.level)
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Started() bool { return s.phase != PhaseNotStarted }
func (s *Session) Over() bool { return s.phase == PhaseGameOver }
func (s *Session) Score() int { return s.score }
func (s *Session) Level() int { return s.level }
func (s *Session) Lines() int { return s.stats.Lines }
func (s *Session) DropInterval() time.Duration { return s.dropInterval }
func (s *Session) LockDelayElapsed() time.Duration { return s.lockDelay }
func (s *Session) Clock() time.Duration { return s.clock }
func (s *Session) Piece() Piece { return s.piece }
func (s *Session) Stats() *Stats { return &s.stats }

// Grid exposes the settled field. Callers outside the engine should treat it as read-only.
func (s *Session) Grid() *Grid { return s.grid }
