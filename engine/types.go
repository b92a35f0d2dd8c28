package engine

import "fmt"

// Rank is a card face value. Ace is 0 and King is 12.
type Rank uint8

const (
	RankAce   Rank = 0
	RankTwo   Rank = 1
	RankThree Rank = 2
	RankFour  Rank = 3
	RankFive  Rank = 4
	RankSix   Rank = 5
	RankSeven Rank = 6
	RankEight Rank = 7
	RankNine  Rank = 8
	RankTen   Rank = 9
	RankJack  Rank = 10
	RankQueen Rank = 11
	RankKing  Rank = 12

	NumRanks = 13
)

// Valid reports whether r is one of the 13 ranks.
func (r Rank) Valid() bool { return r < NumRanks }

// String returns the short face label ("A", "2".."10", "J", "Q", "K").
func (r Rank) String() string {
	switch r {
	case RankAce:
		return "A"
	case RankTen:
		return "10"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	}
	if r < RankTen {
		return fmt.Sprintf("%d", int(r)+1)
	}
	return "?"
}

// Suit of a card.
type Suit uint8

const (
	SuitClubs    Suit = 0
	SuitDiamonds Suit = 1
	SuitHearts   Suit = 2
	SuitSpades   Suit = 3

	NumSuits = 4
)

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s < NumSuits }

// String returns the single-letter suit code.
func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitDiamonds:
		return "D"
	case SuitHearts:
		return "H"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

// Zone names the container a card currently lives in.
type Zone uint8

const (
	ZonePlayfield Zone = iota // 0
	ZoneHand                  // 1
	ZoneReserve               // 2
	ZoneBottom                // 3
	ZoneRemoved               // 4: discarded, kept for undo
)

func (z Zone) String() string {
	switch z {
	case ZonePlayfield:
		return "playfield"
	case ZoneHand:
		return "hand"
	case ZoneReserve:
		return "reserve"
	case ZoneBottom:
		return "bottom"
	case ZoneRemoved:
		return "removed"
	default:
		return fmt.Sprintf("zone(%d)", uint8(z))
	}
}

// CardID uniquely identifies a card for the lifetime of a Source.
type CardID uint32

// NoCard is the zero CardID; real ids start at 1.
const NoCard CardID = 0

// Position is a layout coordinate supplied by the level and echoed back to the
// presentation layer. The engine never interprets it beyond copying.
type Position struct {
	X float64
	Y float64
}

// Card is a single card. ID, Rank and Suit never change after creation;
// Pos and Zone are mutated only by the engine.
type Card struct {
	ID   CardID
	Rank Rank
	Suit Suit
	Pos  Position
	Zone Zone
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s#%d", c.Rank, c.Suit, c.ID)
}

// CardSpec is one level record: a card to create at a position.
type CardSpec struct {
	Rank Rank
	Suit Suit
	Pos  Position
}

// Layout is the full set of card records for a level, per spawn zone.
// Reserve is ordered bottom-to-top: the last record is drawn first.
type Layout struct {
	Playfield []CardSpec
	Hand      []CardSpec
	Reserve   []CardSpec
}

// RejectReason explains why an intent produced no state change.
type RejectReason uint8

const (
	RejectNone          RejectReason = iota // 0
	RejectNotFound                          // 1: id is not in any live container
	RejectNotPlayable                       // 2: card is in the reserve or removed sink
	RejectNoBottom                          // 3
	RejectNoMatch                           // 4
	RejectReserveEmpty                      // 5
	RejectNothingToUndo                     // 6
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectNotFound:
		return "card not found"
	case RejectNotPlayable:
		return "card not playable"
	case RejectNoBottom:
		return "no bottom card"
	case RejectNoMatch:
		return "no match"
	case RejectReserveEmpty:
		return "reserve empty"
	case RejectNothingToUndo:
		return "nothing to undo"
	default:
		return fmt.Sprintf("reject(%d)", uint8(r))
	}
}

// AnimKind distinguishes forward moves from undo moves.
type AnimKind uint8

const (
	AnimMove AnimKind = iota
	AnimUndo
)

// Animation is an advisory "move card to target" hint for the presentation
// layer. The engine state is authoritative regardless of whether it is played.
type Animation struct {
	Kind   AnimKind
	CardID CardID
	Target Position
}

// Outcome is the result of a player intent. A rejected intent has OK false,
// a Reason, and leaves the state untouched.
type Outcome struct {
	OK         bool
	Reason     RejectReason
	Record     UndoRecord
	Animations []Animation
	// Anomalies lists restoration steps skipped during an undo because the
	// record referenced a card no longer where it should be.
	Anomalies []string
}

func rejected(r RejectReason) Outcome { return Outcome{Reason: r} }
