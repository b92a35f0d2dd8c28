// Package engine implements the rules of the card-matching game.
//
// Cards live in a single arena keyed by id; the zones (playfield, hand,
// reserve, bottom) hold ids only, so moving a card between zones is an index
// update and no container ever owns a card another container also owns.
// Every state-changing action returns an inverse record that the undo stack
// replays to restore the prior state exactly.
package engine

import (
	"maps"
	"slices"
)

// GameState owns every card of a game and the four zones referencing them.
// Cards in the removed sink stay in the arena so discards can be undone.
type GameState struct {
	cards     map[CardID]Card
	playfield []CardID // membership matters, order kept for stable snapshots
	hand      []CardID // display order
	reserve   []CardID // last element is the next draw
	bottom    CardID   // NoCard when empty
}

// NewGameState returns an empty state.
func NewGameState() *GameState {
	return &GameState{cards: make(map[CardID]Card)}
}

// ---------------------------------------------------------------------------
// Zone mutation primitives
// ---------------------------------------------------------------------------

// AddToPlayfield stores c with zone Playfield and appends it to the playfield.
// The caller guarantees c is not already in another container.
func (g *GameState) AddToPlayfield(c Card) {
	c.Zone = ZonePlayfield
	g.cards[c.ID] = c
	g.playfield = append(g.playfield, c.ID)
}

// AddToHand stores c with zone Hand and appends it to the hand.
func (g *GameState) AddToHand(c Card) {
	c.Zone = ZoneHand
	g.cards[c.ID] = c
	g.hand = append(g.hand, c.ID)
}

// AddToReserve stores c with zone Reserve and pushes it on top of the reserve.
func (g *GameState) AddToReserve(c Card) {
	c.Zone = ZoneReserve
	g.cards[c.ID] = c
	g.reserve = append(g.reserve, c.ID)
}

// RemoveFromPlayfield drops id from the playfield container. It reports
// whether the id was there. The card stays in the arena.
func (g *GameState) RemoveFromPlayfield(id CardID) bool {
	return removeID(&g.playfield, id)
}

// RemoveFromHand drops id from the hand container.
func (g *GameState) RemoveFromHand(id CardID) bool {
	return removeID(&g.hand, id)
}

// RemoveFromReserve drops id from anywhere in the reserve.
func (g *GameState) RemoveFromReserve(id CardID) bool {
	return removeID(&g.reserve, id)
}

// DrawFromReserve pops the top reserve card. ok is false when the reserve is
// empty, which is a normal terminal condition rather than an error.
func (g *GameState) DrawFromReserve() (c Card, ok bool) {
	n := len(g.reserve)
	if n == 0 {
		return Card{}, false
	}
	id := g.reserve[n-1]
	g.reserve = g.reserve[:n-1]
	return g.cards[id], true
}

// SetBottom makes c the bottom card. The previous bottom card, if any, is not
// relocated here; that is the caller's job.
func (g *GameState) SetBottom(c Card) {
	c.Zone = ZoneBottom
	g.cards[c.ID] = c
	g.bottom = c.ID
}

// ClearBottom leaves the game without a bottom card.
func (g *GameState) ClearBottom() { g.bottom = NoCard }

// Bottom returns the bottom card.
func (g *GameState) Bottom() (Card, bool) {
	if g.bottom == NoCard {
		return Card{}, false
	}
	c, ok := g.cards[g.bottom]
	return c, ok
}

// Discard moves c to the removed sink at pos. It must already be out of its
// container.
func (g *GameState) Discard(c Card, pos Position) {
	c.Zone = ZoneRemoved
	c.Pos = pos
	g.cards[c.ID] = c
}

// Delete erases id from every container and from the arena. Only cards that
// never existed before an undone action are deleted.
func (g *GameState) Delete(id CardID) {
	removeID(&g.playfield, id)
	removeID(&g.hand, id)
	removeID(&g.reserve, id)
	if g.bottom == id {
		g.bottom = NoCard
	}
	delete(g.cards, id)
}

// FindByID looks a card up across the four live zones. The bottom card is
// checked first since nearly every click compares against it. Cards in the
// removed sink are not found.
func (g *GameState) FindByID(id CardID) (Card, bool) {
	if id == NoCard {
		return Card{}, false
	}
	if g.bottom == id {
		return g.cards[id], true
	}
	c, ok := g.cards[id]
	if !ok || c.Zone == ZoneRemoved {
		return Card{}, false
	}
	return c, true
}

// Card returns any card of the arena, including removed ones.
func (g *GameState) Card(id CardID) (Card, bool) {
	c, ok := g.cards[id]
	return c, ok
}

// containerOf returns the id slice backing zone z, or nil for zones that
// are not ordered containers.
func (g *GameState) containerOf(z Zone) *[]CardID {
	switch z {
	case ZonePlayfield:
		return &g.playfield
	case ZoneHand:
		return &g.hand
	case ZoneReserve:
		return &g.reserve
	}
	return nil
}

// indexOf returns the position of id within zone z, or -1.
func (g *GameState) indexOf(z Zone, id CardID) int {
	list := g.containerOf(z)
	if list == nil {
		return -1
	}
	return slices.Index(*list, id)
}

// insertAt places c into zone z at idx, clamped to the container length.
func (g *GameState) insertAt(z Zone, idx int, c Card) {
	list := g.containerOf(z)
	if list == nil {
		return
	}
	c.Zone = z
	g.cards[c.ID] = c
	if idx < 0 || idx > len(*list) {
		idx = len(*list)
	}
	*list = slices.Insert(*list, idx, c.ID)
}

// detach takes id out of whatever live container holds it and returns the
// card. ok is false if the id is not in the arena.
func (g *GameState) detach(id CardID) (Card, bool) {
	c, ok := g.cards[id]
	if !ok {
		return Card{}, false
	}
	switch c.Zone {
	case ZoneBottom:
		if g.bottom == id {
			g.bottom = NoCard
		}
	case ZonePlayfield, ZoneHand, ZoneReserve:
		removeID(g.containerOf(c.Zone), id)
	}
	return c, true
}

func removeID(list *[]CardID, id CardID) bool {
	i := slices.Index(*list, id)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// PlayfieldLen returns the number of playfield cards.
func (g *GameState) PlayfieldLen() int { return len(g.playfield) }

// HandLen returns the number of hand cards.
func (g *GameState) HandLen() int { return len(g.hand) }

// ReserveLen returns the number of reserve cards.
func (g *GameState) ReserveLen() int { return len(g.reserve) }

// CardCount returns the number of cards in the arena, removed ones included.
func (g *GameState) CardCount() int { return len(g.cards) }

// Snapshot is a complete copy of the four zones handed to the presentation
// layer after every change. It shares nothing with the state.
type Snapshot struct {
	Playfield []Card
	Hand      []Card
	Bottom    *Card
	Reserve   []Card
}

// Snapshot copies the current zones in container order.
func (g *GameState) Snapshot() Snapshot {
	s := Snapshot{
		Playfield: g.cardsOf(g.playfield),
		Hand:      g.cardsOf(g.hand),
		Reserve:   g.cardsOf(g.reserve),
	}
	if b, ok := g.Bottom(); ok {
		s.Bottom = &b
	}
	return s
}

func (g *GameState) cardsOf(ids []CardID) []Card {
	out := make([]Card, len(ids))
	for i, id := range ids {
		out[i] = g.cards[id]
	}
	return out
}

// Removed returns the cards in the removed sink ordered by id.
func (g *GameState) Removed() []Card {
	var out []Card
	for _, id := range slices.Sorted(maps.Keys(g.cards)) {
		if c := g.cards[id]; c.Zone == ZoneRemoved {
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Clone / Equal / Hash
// ---------------------------------------------------------------------------

// Clone returns a deep copy of the state.
func (g *GameState) Clone() *GameState {
	return &GameState{
		cards:     maps.Clone(g.cards),
		playfield: slices.Clone(g.playfield),
		hand:      slices.Clone(g.hand),
		reserve:   slices.Clone(g.reserve),
		bottom:    g.bottom,
	}
}

// Equal reports whether two states hold the same cards, with the same zones
// and positions, in the same container order.
func (g *GameState) Equal(o *GameState) bool {
	return g.bottom == o.bottom &&
		slices.Equal(g.playfield, o.playfield) &&
		slices.Equal(g.hand, o.hand) &&
		slices.Equal(g.reserve, o.reserve) &&
		maps.Equal(g.cards, o.cards)
}

// StateHash returns a 64-bit FNV-1a hash of the full state. Equal states hash
// equally.
func (g *GameState) StateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	mix := func(v uint64) {
		h ^= v
		h *= prime
	}
	for _, list := range [][]CardID{g.playfield, g.hand, g.reserve} {
		for _, id := range list {
			mix(uint64(id))
		}
		mix(uint64(len(list)) << 32)
	}
	mix(uint64(g.bottom) << 16)
	for _, id := range slices.Sorted(maps.Keys(g.cards)) {
		c := g.cards[id]
		mix(uint64(c.ID))
		mix(uint64(c.Rank) | uint64(c.Suit)<<8 | uint64(c.Zone)<<16)
		mix(uint64(int64(c.Pos.X*1000)) ^ uint64(int64(c.Pos.Y*1000))<<1)
	}
	return h
}
