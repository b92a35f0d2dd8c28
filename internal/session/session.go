// Package session wraps an engine with an identity, a lock, logging and an
// event sink so a front end can drive a game one intent at a time.
package session

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/CaBe71/Card-Matching-Game/engine"
	"github.com/CaBe71/Card-Matching-Game/internal/level"
)

// Sink receives every event a session emits. It is called with the session
// lock held and must not call back into the session.
type Sink func(Event)

// Session is one player's game.
type Session struct {
	ID uuid.UUID

	mu     sync.Mutex
	engine *engine.Engine
	source *engine.Source
	log    *logrus.Entry
	sink   Sink

	started bool
	moves   int
}

// New creates a session with its own card source. Nothing is dealt until
// NewGame is called. A nil logger discards output; a nil sink drops events.
func New(rules engine.Rules, seed uint64, log *logrus.Logger, sink Sink) *Session {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if sink == nil {
		sink = func(Event) {}
	}
	id := uuid.New()
	src := engine.NewSource(seed)
	return &Session{
		ID:     id,
		engine: engine.New(rules, src),
		source: src,
		log:    log.WithField("session", id.String()),
		sink:   sink,
	}
}

// NewGame deals a new game from l, replacing any game in progress.
func (s *Session) NewGame(l engine.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start(l)
}

// NewRandomGame deals a generated level drawn from the session's own source.
func (s *Session) NewRandomGame(difficulty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := level.Generate(s.source, difficulty)
	s.log.WithField("difficulty", difficulty).Debug("Generated level.")
	return s.start(cfg.Layout())
}

// start deals l. Caller holds s.mu.
func (s *Session) start(l engine.Layout) error {
	if err := s.engine.Deal(l); err != nil {
		s.log.WithError(err).Warn("Deal rejected.")
		return err
	}
	s.started = true
	s.moves = 0

	state := s.view()
	s.log.WithFields(logrus.Fields{
		"playfield": len(state.Playfield),
		"hand":      len(state.Hand),
		"reserve":   state.ReserveSize,
	}).Info("Game started.")
	s.sink(Event{Type: EventGameStart, SessionID: s.ID, State: &state})
	return nil
}

// Click forwards a card click. A click on the bottom card is reported as a
// draw.
func (s *Session) Click(id engine.CardID) engine.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.engine.Click(id)
	action := "click"
	if _, ok := out.Record.(engine.DrawRecord); ok {
		action = "draw"
	}
	return s.apply(action, out, logrus.Fields{"card": id})
}

// Draw draws from the reserve onto the bottom.
func (s *Session) Draw() engine.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply("draw", s.engine.DrawFromReserve(), nil)
}

// Undo reverts the most recent action.
func (s *Session) Undo() engine.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.apply("undo", s.engine.Undo(), nil)
	if out.OK && len(out.Anomalies) > 0 {
		for _, a := range out.Anomalies {
			s.log.WithField("anomaly", a).Warn("Undo skipped a step.")
		}
		s.sink(Event{Type: EventAnomaly, SessionID: s.ID, Action: "undo", Anomalies: out.Anomalies})
	}
	return out
}

// apply logs and publishes the result of an engine intent. Caller holds s.mu.
func (s *Session) apply(action string, out engine.Outcome, fields logrus.Fields) engine.Outcome {
	entry := s.log.WithField("action", action)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if !out.OK {
		entry.WithField("reason", out.Reason.String()).Debug("Intent rejected.")
		s.sink(Event{Type: EventRejected, SessionID: s.ID, Action: action, Reason: out.Reason.String()})
		return out
	}

	if action == "undo" {
		s.moves--
	} else {
		s.moves++
	}
	entry.WithField("moves", s.moves).Debug("Intent applied.")

	if anims := animationViews(out.Animations); anims != nil {
		s.sink(Event{Type: EventAnimate, SessionID: s.ID, Action: action, Animations: anims})
	}
	state := s.view()
	s.sink(Event{Type: EventSnapshot, SessionID: s.ID, Action: action, State: &state})
	return out
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CanUndo()
}

// Hint lists the cards that would match the bottom card right now.
func (s *Session) Hint() []engine.CardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.MatchableCards()
}

// Started reports whether a game has been dealt.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// State returns the current client view.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Publish sends a fresh snapshot to the sink without changing anything.
func (s *Session) Publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.view()
	s.sink(Event{Type: EventSnapshot, SessionID: s.ID, Action: "state", State: &state})
}

// view builds the client view. Caller holds s.mu.
func (s *Session) view() StateView {
	snap := s.engine.Snapshot()
	v := StateView{
		SessionID:   s.ID,
		Playfield:   cardViews(snap.Playfield),
		Hand:        cardViews(snap.Hand),
		Reserve:     cardViews(snap.Reserve),
		ReserveSize: len(snap.Reserve),
		CanUndo:     s.engine.CanUndo(),
		UndoDepth:   s.engine.UndoLen(),
		Moves:       s.moves,
		Matchable:   s.engine.MatchableCards(),
	}
	if v.Matchable == nil {
		v.Matchable = []engine.CardID{}
	}
	if snap.Bottom != nil {
		b := cardView(*snap.Bottom)
		v.Bottom = &b
	}
	return v
}
