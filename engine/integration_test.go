//go:build integration

package engine

// integration_test.go: long random-play soak tests using only the public API:
// New, Deal, Click, AttemptMatch, DrawFromReserve, Undo, MatchableCards.
//
// Run: go test -tags integration -run TestIntegration ./engine

import (
	"math/rand/v2"
	"testing"
)

// TestIntegrationUndoAtEveryNode: clone, act, undo, compare, then act again.
func TestIntegrationUndoAtEveryNode(t *testing.T) {
	const numGames = 20
	const maxSteps = 400

	for gameIdx := 0; gameIdx < numGames; gameIdx++ {
		rules := DefaultRules()
		if gameIdx%2 == 1 {
			rules.Relocation = RelocateDiscard
		}
		e := New(rules, NewSource(uint64(gameIdx)))
		if err := e.Deal(testLayout()); err != nil {
			t.Fatalf("game %d: Deal: %v", gameIdx, err)
		}
		rng := rand.New(rand.NewPCG(uint64(gameIdx), 1234))

		for step := 0; step < maxSteps; step++ {
			ids := e.MatchableCards()
			var act func() Outcome
			if len(ids) > 0 && rng.IntN(4) > 0 {
				id := ids[rng.IntN(len(ids))]
				act = func() Outcome { return e.Click(id) }
			} else {
				act = e.DrawFromReserve
			}

			before := e.State().Clone()
			out := act()
			if !out.OK {
				if !e.State().Equal(before) {
					t.Fatalf("game %d step %d: rejected action changed state", gameIdx, step)
				}
				break
			}
			undo := e.Undo()
			if !undo.OK || len(undo.Anomalies) != 0 {
				t.Fatalf("game %d step %d: undo failed: %+v", gameIdx, step, undo)
			}
			if !e.State().Equal(before) {
				t.Fatalf("game %d step %d: state differs after undo", gameIdx, step)
			}

			// Apply again for real.
			act()
			if e.UndoLen() > rules.UndoDepth {
				t.Fatalf("game %d step %d: undo stack %d exceeds %d", gameIdx, step, e.UndoLen(), rules.UndoDepth)
			}
		}
	}
}

// TestIntegrationRecycleReachesEveryCard: under the recycle rule the
// reserve never runs dry and every card in it keeps coming back up.
func TestIntegrationRecycleReachesEveryCard(t *testing.T) {
	e := New(DefaultRules(), NewSource(77))
	if err := e.Deal(testLayout()); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	snap := e.Snapshot()
	cycle := len(snap.Reserve) + 1
	counts := map[CardID]int{snap.Bottom.ID: 0}
	for _, c := range snap.Reserve {
		counts[c.ID] = 0
	}

	const rounds = 100
	for step := 0; step < rounds*cycle; step++ {
		if out := e.DrawFromReserve(); !out.OK {
			t.Fatalf("step %d: draw rejected: %s", step, out.Reason)
		}
		b, _ := e.state.Bottom()
		if _, ok := counts[b.ID]; !ok {
			t.Fatalf("step %d: unexpected bottom card %d", step, b.ID)
		}
		counts[b.ID]++
	}
	for id, n := range counts {
		if n != rounds {
			t.Errorf("card %d came up %d times, want %d", id, n, rounds)
		}
	}
}
