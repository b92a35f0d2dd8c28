package engine

import "math/rand/v2"

// Source creates cards. It owns the id counter and the random stream, so one
// Source must be shared by everything that creates cards in a session.
type Source struct {
	next CardID
	rng  *rand.Rand
}

// NewSource returns a Source whose random stream is fully determined by seed.
// The first card it creates has id 1.
func NewSource(seed uint64) *Source {
	return &Source{
		next: 1,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// nextID hands out the next id. Ids are never reused, even for cards that are
// later deleted by an undo.
func (s *Source) nextID() CardID {
	id := s.next
	s.next++
	return id
}

// Issued returns how many ids the source has handed out.
func (s *Source) Issued() int { return int(s.next - 1) }

// Random creates a card with a uniformly random rank and suit at pos.
func (s *Source) Random(pos Position) Card {
	return Card{
		ID:   s.nextID(),
		Rank: Rank(s.rng.IntN(NumRanks)),
		Suit: Suit(s.rng.IntN(NumSuits)),
		Pos:  pos,
	}
}

// FromSpec creates a card copying rank, suit and position from a level record.
func (s *Source) FromSpec(spec CardSpec) Card {
	return Card{
		ID:   s.nextID(),
		Rank: spec.Rank,
		Suit: spec.Suit,
		Pos:  spec.Pos,
	}
}

// IntN exposes the source's random stream for level generation so a single
// seed reproduces a whole session.
func (s *Source) IntN(n int) int { return s.rng.IntN(n) }
