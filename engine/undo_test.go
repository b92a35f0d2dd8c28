package engine

import (
	"math/rand/v2"
	"testing"
)

// TestUndoManagerLIFO verifies pop order and emptiness.
func TestUndoManagerLIFO(t *testing.T) {
	u := NewUndoManager(5)
	if u.CanUndo() {
		t.Fatal("new manager should be empty")
	}
	if _, ok := u.Pop(); ok {
		t.Fatal("Pop on empty manager should report false")
	}
	for i := 1; i <= 3; i++ {
		u.Push(DrawRecord{DrawnCardID: CardID(i)})
	}
	if top, _ := u.Peek(); top.(DrawRecord).DrawnCardID != 3 {
		t.Errorf("Peek: want 3, got %v", top)
	}
	for want := 3; want >= 1; want-- {
		r, ok := u.Pop()
		if !ok || r.(DrawRecord).DrawnCardID != CardID(want) {
			t.Fatalf("Pop: want %d, got %v ok=%v", want, r, ok)
		}
	}
	if u.CanUndo() {
		t.Error("manager should be empty after popping everything")
	}
}

// TestUndoManagerEvictsOldest verifies the cap and FIFO eviction.
func TestUndoManagerEvictsOldest(t *testing.T) {
	u := NewUndoManager(3)
	for i := 1; i <= 10; i++ {
		u.Push(DrawRecord{DrawnCardID: CardID(i)})
		if u.Len() > u.Cap() {
			t.Fatalf("Len %d exceeds Cap %d", u.Len(), u.Cap())
		}
	}
	for want := 10; want >= 8; want-- {
		r, _ := u.Pop()
		if got := r.(DrawRecord).DrawnCardID; got != CardID(want) {
			t.Errorf("Pop: want %d, got %d", want, got)
		}
	}
	if u.CanUndo() {
		t.Error("evicted records should be gone")
	}
}

// TestUndoManagerDefaultsAndClear covers the default cap and Clear.
func TestUndoManagerDefaultsAndClear(t *testing.T) {
	u := NewUndoManager(0)
	if u.Cap() != DefaultUndoDepth {
		t.Errorf("Cap: want %d, got %d", DefaultUndoDepth, u.Cap())
	}
	u.Push(MatchRecord{MovedCardID: 1})
	u.Clear()
	if u.CanUndo() || u.Len() != 0 {
		t.Error("Clear left records behind")
	}
}

// TestEngineUndoDepth verifies the engine honours Rules.UndoDepth.
func TestEngineUndoDepth(t *testing.T) {
	rules := DefaultRules()
	rules.UndoDepth = 2
	e := newTestEngine(t, rules)
	for i := 0; i < 5; i++ {
		e.state.AddToReserve(card(CardID(i+1), RankTwo, SuitClubs))
	}
	for i := 0; i < 4; i++ {
		if out := e.DrawFromReserve(); !out.OK {
			t.Fatalf("draw %d rejected: %s", i, out.Reason)
		}
	}
	if e.UndoLen() != 2 {
		t.Errorf("UndoLen: want 2, got %d", e.UndoLen())
	}
	e.Undo()
	e.Undo()
	if out := e.Undo(); out.OK || out.Reason != RejectNothingToUndo {
		t.Errorf("third undo: want RejectNothingToUndo, got %+v", out)
	}
}

// TestUndoSequenceRestoresEachStep plays a mixed sequence and unwinds it,
// checking every intermediate state on the way back.
func TestUndoSequenceRestoresEachStep(t *testing.T) {
	for _, reloc := range []Relocation{RelocateRecycle, RelocateDiscard} {
		t.Run(reloc.String(), func(t *testing.T) {
			rules := DefaultRules()
			rules.Relocation = reloc
			e := New(rules, NewSource(3))
			if err := e.Deal(testLayout()); err != nil {
				t.Fatalf("Deal: %v", err)
			}

			rng := rand.New(rand.NewPCG(11, 12))
			history := []*GameState{e.state.Clone()}
			for step := 0; step < 40; step++ {
				out := randomAction(e, rng)
				if out.OK {
					history = append(history, e.state.Clone())
				}
			}
			for i := len(history) - 2; i >= 0; i-- {
				out := e.Undo()
				if !out.OK {
					t.Fatalf("undo to step %d rejected: %s", i, out.Reason)
				}
				if len(out.Anomalies) != 0 {
					t.Fatalf("undo to step %d anomalies: %v", i, out.Anomalies)
				}
				if !e.state.Equal(history[i]) {
					t.Fatalf("state after undo to step %d differs", i)
				}
			}
			if e.CanUndo() {
				t.Error("undo stack should be empty after unwinding")
			}
		})
	}
}

// TestUndoAnomalySkipsMissingCards verifies undo survives a record whose
// cards are gone and clears the bottom instead of failing.
func TestUndoAnomalySkipsMissingCards(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	e.undo.Push(MatchRecord{
		MovedCardID:    901,
		OriginalZone:   ZonePlayfield,
		ReplacedCardID: 902,
		SpawnedCardID:  903,
	})
	setBottom(e, card(1, RankTwo, SuitClubs))

	out := e.Undo()
	if !out.OK {
		t.Fatalf("undo rejected: %s", out.Reason)
	}
	// spawned, orphaned bottom, replaced, moved
	if len(out.Anomalies) != 4 {
		t.Errorf("anomalies: want 4, got %v", out.Anomalies)
	}
	if _, ok := e.state.Bottom(); ok {
		t.Error("bottom should be cleared when the replaced card is missing")
	}
	if c, _ := e.state.Card(1); c.Zone != ZoneRemoved {
		t.Errorf("orphaned bottom zone: want removed, got %s", c.Zone)
	}

	// Undo remains usable afterwards.
	e.state.AddToReserve(card(2, RankFive, SuitClubs))
	assertRoundTrip(t, e, e.DrawFromReserve)
}

// testLayout is a small level mirroring the built-in default.
func testLayout() Layout {
	spec := func(r Rank, s Suit, x, y float64) CardSpec {
		return CardSpec{Rank: r, Suit: s, Pos: Position{X: x, Y: y}}
	}
	return Layout{
		Playfield: []CardSpec{
			spec(RankKing, SuitClubs, 250, 1000),
			spec(RankThree, SuitClubs, 300, 800),
			spec(RankThree, SuitDiamonds, 350, 600),
			spec(RankThree, SuitClubs, 850, 1000),
			spec(RankThree, SuitClubs, 800, 800),
			spec(RankTwo, SuitSpades, 750, 600),
		},
		Hand: []CardSpec{spec(RankThree, SuitClubs, 200, 150)},
		Reserve: []CardSpec{
			spec(RankSix, SuitDiamonds, 0, 0),
			spec(RankNine, SuitHearts, 0, 0),
			spec(RankFour, SuitSpades, 0, 0),
			spec(RankJack, SuitClubs, 0, 0),
			spec(RankEight, SuitDiamonds, 0, 0),
			spec(RankFive, SuitHearts, 0, 0),
			spec(RankTen, SuitSpades, 0, 0),
			spec(RankSeven, SuitClubs, 0, 0),
		},
	}
}

// randomAction picks a match when one is available, otherwise draws.
func randomAction(e *Engine, rng *rand.Rand) Outcome {
	ids := e.MatchableCards()
	if len(ids) > 0 && rng.IntN(3) > 0 {
		return e.AttemptMatch(ids[rng.IntN(len(ids))])
	}
	return e.DrawFromReserve()
}
