package engine

import (
	"math/rand"
	"time"
)

// Randomizer chooses the type of each spawned piece.
type Randomizer interface {
	Next() PieceType
}

// UniformRandomizer picks each piece independently and uniformly from the seven types.
type UniformRandomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a uniform randomizer. A zero seed seeds from the clock.
func NewRandomizer(seed int64) *UniformRandomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &UniformRandomizer{rng: rand.New(rand.NewSource(seed))}
}

func (r *UniformRandomizer) Next() PieceType {
	return PieceTypes[r.rng.Intn(len(PieceTypes))]
}

// Sequence replays a fixed list of piece types, cycling when it runs out.
// Useful for demos and reproducible games.
type Sequence struct {
	types []PieceType
	next  int
}

// NewSequence returns a randomizer that yields types in order. Invalid types
// are skipped; an empty list falls back to the catalog order.
func NewSequence(types ...PieceType) *Sequence {
	valid := make([]PieceType, 0, len(types))
	for _, p := range types {
		if p.Valid() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		valid = append(valid, PieceTypes...)
	}
	return &Sequence{types: valid}
}

func (s *Sequence) Next() PieceType {
	p := s.types[s.next%len(s.types)]
	s.next++
	return p
}
