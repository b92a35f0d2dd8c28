package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayout is returned by Deal when a level record is out of range.
var ErrInvalidLayout = errors.New("invalid layout")

// Engine applies player intents to a GameState and keeps the undo stack.
// It is not safe for concurrent use.
type Engine struct {
	state  *GameState
	source *Source
	undo   *UndoManager
	rules  Rules
}

// New creates an engine with an empty state. src supplies every card the
// engine creates, both at deal time and when refilling the playfield.
func New(rules Rules, src *Source) *Engine {
	return &Engine{
		state:  NewGameState(),
		source: src,
		undo:   NewUndoManager(rules.undoDepth()),
		rules:  rules,
	}
}

// State returns the live state. Callers must treat it as read-only.
func (e *Engine) State() *GameState { return e.state }

// Snapshot copies the current zones.
func (e *Engine) Snapshot() Snapshot { return e.state.Snapshot() }

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }

// CanUndo reports whether an action can be undone.
func (e *Engine) CanUndo() bool { return e.undo.CanUndo() }

// UndoLen returns the number of undoable actions.
func (e *Engine) UndoLen() int { return e.undo.Len() }

// ---------------------------------------------------------------------------
// Deal
// ---------------------------------------------------------------------------

// Deal replaces the current game with a fresh one built from l. The layout is
// validated as a whole first; on error the current game is left untouched.
// The top reserve card becomes the bottom card without an undo record, and
// the undo stack is cleared.
func (e *Engine) Deal(l Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}

	g := NewGameState()
	for _, spec := range l.Playfield {
		g.AddToPlayfield(e.source.FromSpec(spec))
	}
	for _, spec := range l.Hand {
		g.AddToHand(e.source.FromSpec(spec))
	}
	for _, spec := range l.Reserve {
		g.AddToReserve(e.source.FromSpec(spec))
	}

	if c, ok := g.DrawFromReserve(); ok {
		c.Pos = e.rules.BottomSlot
		g.SetBottom(c)
	} else if e.rules.BottomFromHand && len(g.hand) > 0 {
		id := g.hand[len(g.hand)-1]
		g.RemoveFromHand(id)
		c := g.cards[id]
		c.Pos = e.rules.BottomSlot
		g.SetBottom(c)
	}

	e.state = g
	e.undo.Clear()
	return nil
}

func validateLayout(l Layout) error {
	zones := []struct {
		name  string
		specs []CardSpec
	}{
		{"playfield", l.Playfield},
		{"hand", l.Hand},
		{"reserve", l.Reserve},
	}
	for _, z := range zones {
		for i, s := range z.specs {
			if !s.Rank.Valid() {
				return fmt.Errorf("%w: %s card %d: rank %d out of range", ErrInvalidLayout, z.name, i, s.Rank)
			}
			if !s.Suit.Valid() {
				return fmt.Errorf("%w: %s card %d: suit %d out of range", ErrInvalidLayout, z.name, i, s.Suit)
			}
			if !finite(s.Pos.X) || !finite(s.Pos.Y) {
				return fmt.Errorf("%w: %s card %d: position is not finite", ErrInvalidLayout, z.name, i)
			}
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// ---------------------------------------------------------------------------
// Intents
// ---------------------------------------------------------------------------

// Click dispatches a click on card id by the zone it is in: the bottom card
// draws from the reserve, playfield and hand cards attempt a match, anything
// else is rejected.
func (e *Engine) Click(id CardID) Outcome {
	c, ok := e.state.FindByID(id)
	if !ok {
		if _, exists := e.state.Card(id); exists {
			return rejected(RejectNotPlayable)
		}
		return rejected(RejectNotFound)
	}
	switch c.Zone {
	case ZoneBottom:
		return e.DrawFromReserve()
	case ZonePlayfield, ZoneHand:
		return e.AttemptMatch(id)
	default:
		return rejected(RejectNotPlayable)
	}
}

// AttemptMatch moves card id onto the bottom if its rank is adjacent to the
// bottom card's. A playfield card leaves a freshly drawn random card in its
// place; a hand card does not.
func (e *Engine) AttemptMatch(id CardID) Outcome {
	b, ok := e.state.Bottom()
	if !ok {
		return rejected(RejectNoBottom)
	}
	c, ok := e.state.FindByID(id)
	if !ok {
		return rejected(RejectNotFound)
	}
	if c.Zone != ZonePlayfield && c.Zone != ZoneHand {
		return rejected(RejectNotPlayable)
	}
	if !CanMatch(c.Rank, b.Rank) {
		return rejected(RejectNoMatch)
	}

	rec := MatchRecord{
		MovedCardID:      c.ID,
		OriginalPosition: c.Pos,
		OriginalZone:     c.Zone,
		OriginalIndex:    e.state.indexOf(c.Zone, c.ID),
	}
	e.state.detach(c.ID)
	rec.ReplacedCardID = e.relocateBottom()

	c.Pos = e.rules.BottomSlot
	e.state.SetBottom(c)

	if rec.OriginalZone == ZonePlayfield {
		spawned := e.source.Random(rec.OriginalPosition)
		e.state.AddToPlayfield(spawned)
		rec.SpawnedCardID = spawned.ID
	}

	e.undo.Push(rec)
	return Outcome{
		OK:         true,
		Record:     rec,
		Animations: []Animation{{Kind: AnimMove, CardID: c.ID, Target: e.rules.BottomSlot}},
	}
}

// DrawFromReserve puts the top reserve card on the bottom. Rank adjacency
// does not apply to draws.
func (e *Engine) DrawFromReserve() Outcome {
	n, ok := e.state.DrawFromReserve()
	if !ok {
		return rejected(RejectReserveEmpty)
	}
	rec := DrawRecord{DrawnCardID: n.ID, OriginalPosition: n.Pos}
	rec.ReplacedCardID = e.relocateBottom()

	n.Pos = e.rules.BottomSlot
	e.state.SetBottom(n)

	e.undo.Push(rec)
	return Outcome{
		OK:         true,
		Record:     rec,
		Animations: []Animation{{Kind: AnimMove, CardID: n.ID, Target: e.rules.BottomSlot}},
	}
}

// relocateBottom moves the current bottom card out of the way according to
// the relocation rule and returns its id, or NoCard if there was none.
func (e *Engine) relocateBottom() CardID {
	b, ok := e.state.Bottom()
	if !ok {
		return NoCard
	}
	e.state.ClearBottom()
	switch e.rules.Relocation {
	case RelocateDiscard:
		e.state.Discard(b, e.rules.DiscardSlot)
	default:
		// Under the reserve so every reserve card comes up before it does.
		b.Pos = e.rules.ReserveSlot
		e.state.insertAt(ZoneReserve, 0, b)
	}
	return b.ID
}

// MatchableCards returns the ids of playfield and hand cards that would match
// the current bottom card, in playfield-then-hand order.
func (e *Engine) MatchableCards() []CardID {
	b, ok := e.state.Bottom()
	if !ok {
		return nil
	}
	var ids []CardID
	for _, list := range [][]CardID{e.state.playfield, e.state.hand} {
		for _, id := range list {
			if CanMatch(e.state.cards[id].Rank, b.Rank) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ---------------------------------------------------------------------------
// Undo
// ---------------------------------------------------------------------------

// Undo reverses the most recent action. Missing cards referenced by the record
// are skipped and reported in Outcome.Anomalies; the undo still succeeds.
func (e *Engine) Undo() Outcome {
	rec, ok := e.undo.Pop()
	if !ok {
		return rejected(RejectNothingToUndo)
	}
	out := Outcome{OK: true, Record: rec}
	switch r := rec.(type) {
	case MatchRecord:
		e.undoMatch(r, &out)
	case DrawRecord:
		e.undoDraw(r, &out)
	}
	return out
}

func (e *Engine) undoMatch(r MatchRecord, out *Outcome) {
	if r.SpawnedCardID != NoCard {
		if _, ok := e.state.Card(r.SpawnedCardID); ok {
			e.state.Delete(r.SpawnedCardID)
		} else {
			out.Anomalies = append(out.Anomalies, fmt.Sprintf("spawned card %d not found", r.SpawnedCardID))
		}
	}

	moved, ok := e.state.detach(r.MovedCardID)
	e.restoreBottom(r.ReplacedCardID, out)
	if !ok {
		out.Anomalies = append(out.Anomalies, fmt.Sprintf("moved card %d not found", r.MovedCardID))
		return
	}
	if e.state.containerOf(r.OriginalZone) == nil {
		out.Anomalies = append(out.Anomalies, fmt.Sprintf("moved card %d has no container for zone %s", r.MovedCardID, r.OriginalZone))
		e.state.Discard(moved, moved.Pos)
		return
	}
	moved.Pos = r.OriginalPosition
	e.state.insertAt(r.OriginalZone, r.OriginalIndex, moved)
	out.Animations = append(out.Animations, Animation{Kind: AnimUndo, CardID: moved.ID, Target: r.OriginalPosition})
}

func (e *Engine) undoDraw(r DrawRecord, out *Outcome) {
	drawn, ok := e.state.detach(r.DrawnCardID)
	// Under the recycle rule the replaced card is at the bottom of the reserve.
	e.restoreBottom(r.ReplacedCardID, out)
	if !ok {
		out.Anomalies = append(out.Anomalies, fmt.Sprintf("drawn card %d not found", r.DrawnCardID))
		return
	}
	drawn.Pos = r.OriginalPosition
	e.state.AddToReserve(drawn)
	out.Animations = append(out.Animations, Animation{Kind: AnimUndo, CardID: drawn.ID, Target: r.OriginalPosition})
}

// restoreBottom makes card id the bottom card again, wherever the relocation
// rule put it. With NoCard, or if the card is gone, the bottom is cleared.
func (e *Engine) restoreBottom(id CardID, out *Outcome) {
	if id == NoCard {
		e.dropBottom(out)
		return
	}
	c, ok := e.state.detach(id)
	if !ok {
		e.dropBottom(out)
		out.Anomalies = append(out.Anomalies, fmt.Sprintf("replaced card %d not found, bottom cleared", id))
		return
	}
	e.dropBottom(out)
	c.Pos = e.rules.BottomSlot
	e.state.SetBottom(c)
}

// dropBottom empties the bottom slot. Normally the undo already detached the
// card sitting there; anything still present is an orphan and goes to the
// removed sink so its zone keeps matching a container.
func (e *Engine) dropBottom(out *Outcome) {
	b, ok := e.state.Bottom()
	if !ok {
		return
	}
	e.state.ClearBottom()
	e.state.Discard(b, e.rules.DiscardSlot)
	out.Anomalies = append(out.Anomalies, fmt.Sprintf("orphaned bottom card %d removed", b.ID))
}
