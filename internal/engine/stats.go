package engine

import "github.com/kamstrup/intmap"

// Stats counts what happened during a session.
type Stats struct {
	spawned *intmap.Map[PieceType, int]
	Lines   int
	Pieces  int
	Clears  [5]int // Clears[k] counts clears of k rows; index 0 is unused
}

func newStats() Stats {
	return Stats{spawned: intmap.New[PieceType, int](len(PieceTypes))}
}

func (s *Stats) recordSpawn(p PieceType) {
	n, _ := s.spawned.Get(p)
	s.spawned.Put(p, n+1)
	s.Pieces++
}

func (s *Stats) recordClear(rows int) {
	s.Lines += rows
	if rows > 0 && rows < len(s.Clears) {
		s.Clears[rows]++
	}
}

// Spawned returns how many pieces of type p have spawned.
func (s *Stats) Spawned(p PieceType) int {
	if s.spawned == nil {
		return 0
	}
	n, _ := s.spawned.Get(p)
	return n
}

// PieceCount pairs a piece type with its spawn count.
type PieceCount struct {
	Type  PieceType
	Count int
}

// Distribution returns spawn counts for all seven types in catalog order.
func (s *Stats) Distribution() []PieceCount {
	out := make([]PieceCount, 0, len(PieceTypes))
	for _, p := range PieceTypes {
		out = append(out, PieceCount{Type: p, Count: s.Spawned(p)})
	}
	return out
}
