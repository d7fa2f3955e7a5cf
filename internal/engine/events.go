package engine

// EventKind classifies something that happened inside a tick or intent.
type EventKind int

const (
	EventLocked EventKind = iota + 1
	EventLinesCleared
	EventLevelUp
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventLocked:
		return "locked"
	case EventLinesCleared:
		return "lines_cleared"
	case EventLevelUp:
		return "level_up"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a notification for frontends (sound cues, push updates). It never
// carries state that is not also visible in a Snapshot.
type Event struct {
	Kind     EventKind
	Piece    PieceType
	HardDrop bool
	Rows     int
	Points   int
	Level    int
}

const maxPendingEvents = 64

func (s *Session) emit(e Event) {
	if len(s.events) >= maxPendingEvents {
		s.events = append(s.events[:0], s.events[1:]...)
	}
	s.events = append(s.events, e)
}

// TakeEvents returns the events raised since the previous call and forgets them.
func (s *Session) TakeEvents() []Event {
	events := s.events
	s.events = nil
	return events
}
