package session

import (
	"github.com/google/uuid"

	"github.com/CaBe71/Card-Matching-Game/engine"
)

// EventType names an outgoing event.
type EventType string

const (
	EventGameStart EventType = "game_start" // A layout was dealt.
	EventSnapshot  EventType = "snapshot"   // Full state after a change.
	EventAnimate   EventType = "animate"    // Advisory card movements.
	EventRejected  EventType = "rejected"   // An intent changed nothing.
	EventAnomaly   EventType = "anomaly"    // Undo skipped a step.
)

// CardView is a card as presented to clients.
type CardView struct {
	ID   engine.CardID `json:"id"`
	Rank string        `json:"rank"`
	Suit string        `json:"suit"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
}

// AnimationView is an animation hint with its direction spelled out.
type AnimationView struct {
	Kind   string        `json:"kind"`
	CardID engine.CardID `json:"cardId"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

// StateView is the client-facing snapshot of a game.
type StateView struct {
	SessionID   uuid.UUID       `json:"sessionId"`
	Playfield   []CardView      `json:"playfield"`
	Hand        []CardView      `json:"hand"`
	Bottom      *CardView       `json:"bottom,omitempty"`
	Reserve     []CardView      `json:"reserve"`
	ReserveSize int             `json:"reserveSize"`
	CanUndo     bool            `json:"canUndo"`
	UndoDepth   int             `json:"undoDepth"`
	Moves       int             `json:"moves"`
	Matchable   []engine.CardID `json:"matchable"`
}

// Event is the envelope delivered to the sink.
type Event struct {
	Type       EventType       `json:"type"`
	SessionID  uuid.UUID       `json:"sessionId"`
	Action     string          `json:"action,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Animations []AnimationView `json:"animations,omitempty"`
	Anomalies  []string        `json:"anomalies,omitempty"`
	State      *StateView      `json:"state,omitempty"`
}

func cardView(c engine.Card) CardView {
	return CardView{
		ID:   c.ID,
		Rank: c.Rank.String(),
		Suit: c.Suit.String(),
		X:    c.Pos.X,
		Y:    c.Pos.Y,
	}
}

func cardViews(cards []engine.Card) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = cardView(c)
	}
	return out
}

func animationViews(anims []engine.Animation) []AnimationView {
	if len(anims) == 0 {
		return nil
	}
	out := make([]AnimationView, len(anims))
	for i, a := range anims {
		kind := "move"
		if a.Kind == engine.AnimUndo {
			kind = "undo"
		}
		out[i] = AnimationView{Kind: kind, CardID: a.CardID, X: a.Target.X, Y: a.Target.Y}
	}
	return out
}
