package game

import (
	"fmt"
	"log"
	"time"

	"blockfall/internal/engine"
	"blockfall/pkg/realtime"
)

// DefaultFrameInterval is the tick cadence used when none is configured.
const DefaultFrameInterval = 16 * time.Millisecond

// Config tunes a Store.
type Config struct {
	// FrameInterval is how often a playing game is ticked.
	FrameInterval time.Duration
	// Seed fixes the piece randomizer of every new game when non-zero.
	Seed int64
}

// Store holds games and delegates to realtime.RoomStore for broadcast and tick loops.
type Store struct {
	r   *realtime.RoomStore[*Game]
	cfg Config
}

// NewStore creates an in-memory game store.
func NewStore(cfg Config) *Store {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	return &Store{r: realtime.NewRoomStore[*Game](), cfg: cfg}
}

// CreateGame registers a new game that waits for its owner to start it.
func (s *Store) CreateGame() *Game {
	var opts []engine.Option
	if s.cfg.Seed != 0 {
		opts = append(opts, engine.WithSeed(s.cfg.Seed))
	}
	g := NewGame(s.cfg.FrameInterval, opts...)
	s.r.Create(g.ID, g)
	log.Printf("game created game=%s", g.ID)
	return g
}

// GetGame returns a game by ID if it exists.
func (s *Store) GetGame(id string) (*Game, bool) {
	room, ok := s.r.Get(id)
	if !ok || room.State == nil {
		return nil, false
	}
	return room.State, true
}

// Delete stops a game's loop, disconnects its watchers and forgets it.
func (s *Store) Delete(id string) {
	s.r.Delete(id)
}

// Broadcaster returns the broadcaster for a game.
func (s *Store) Broadcaster(id string) *realtime.Broadcaster {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a game update.
func (s *Store) Publish(id string, events ...string) {
	s.r.Publish(id, events...)
}

// Start starts a game on behalf of playerID and launches its tick loop.
func (s *Store) Start(id, playerID string, now time.Time) error {
	g, err := s.owned(id, playerID)
	if err != nil {
		return err
	}
	if err := g.Start(now); err != nil {
		return err
	}
	s.EnsureTickLoop(id)
	s.Publish(id, EventStatus, EventBoard, EventScore)
	log.Printf("game started game=%s", id)
	return nil
}

// Restart resets a game on behalf of playerID and relaunches its tick loop.
func (s *Store) Restart(id, playerID string, now time.Time) error {
	g, err := s.owned(id, playerID)
	if err != nil {
		return err
	}
	g.Restart(now)
	s.r.Stop(id)
	s.EnsureTickLoop(id)
	s.Publish(id, EventStatus, EventBoard, EventScore)
	log.Printf("game restarted game=%s", id)
	return nil
}

// Input applies a raw action on behalf of playerID and publishes what changed.
func (s *Store) Input(id, playerID, raw string, now time.Time) ([]string, error) {
	g, err := s.owned(id, playerID)
	if err != nil {
		return nil, err
	}
	action, err := ParseAction(raw)
	if err != nil {
		return nil, err
	}
	events, err := g.Apply(action, now)
	if err != nil {
		return nil, err
	}
	s.Publish(id, events...)
	return events, nil
}

func (s *Store) owned(id, playerID string) (*Game, error) {
	g, ok := s.GetGame(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if !g.IsOwner(playerID) {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotOwner)
	}
	return g, nil
}

// EnsureTickLoop starts the frame loop for a game if not already running. The
// loop exits on its own once the game is over.
func (s *Store) EnsureTickLoop(id string) {
	getState := func() *Game {
		g, _ := s.GetGame(id)
		return g
	}
	tick := func(state *Game, now time.Time) (time.Time, []string, bool) {
		if state == nil {
			return time.Time{}, nil, true
		}
		events := state.Advance(now)
		next, ok := state.NextTimer(now)
		if !ok {
			if contains(events, EventStatus) {
				log.Printf("game over game=%s", id)
			}
			return time.Time{}, events, true
		}
		return next, events, false
	}
	s.r.RunLoop(id, getState, tick)
}

// TickLoopRunning reports whether a game's frame loop is active.
func (s *Store) TickLoopRunning(id string) bool {
	return s.r.Running(id)
}

// Prune deletes games that never started or that ended, once they are older
// than maxAge. It returns how many were removed.
func (s *Store) Prune(now time.Time, maxAge time.Duration) int {
	removed := 0
	for _, id := range s.r.IDs() {
		g, ok := s.GetGame(id)
		if !ok {
			continue
		}
		idle := g.CreatedAt
		switch g.Status() {
		case StatusPlaying:
			continue
		case StatusGameOver:
			idle = g.EndedAt()
		}
		if now.Sub(idle) < maxAge {
			continue
		}
		s.Delete(id)
		removed++
	}
	if removed > 0 {
		log.Printf("pruned games count=%d", removed)
	}
	return removed
}
