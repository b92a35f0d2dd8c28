package engine

// Relocation decides where a displaced bottom card goes.
type Relocation uint8

const (
	// RelocateRecycle puts the old bottom card under the reserve.
	RelocateRecycle Relocation = iota
	// RelocateDiscard moves the old bottom card to the removed sink.
	RelocateDiscard
)

func (r Relocation) String() string {
	switch r {
	case RelocateRecycle:
		return "recycle"
	case RelocateDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Layout slots for a 1080x2080 table.
var (
	DefaultBottomSlot  = Position{X: 540, Y: 290}
	DefaultDiscardSlot = Position{X: -1000, Y: -1000}
	DefaultReserveSlot = Position{X: 0, Y: 0}
)

// DefaultUndoDepth is the undo stack capacity when Rules.UndoDepth is 0.
const DefaultUndoDepth = 50

// Rules holds configurable game settings.
type Rules struct {
	UndoDepth      int // 0 = DefaultUndoDepth
	Relocation     Relocation
	BottomSlot     Position
	DiscardSlot    Position
	ReserveSlot    Position
	BottomFromHand bool // if true and the reserve is empty at deal, the last hand card becomes the bottom
}

// DefaultRules returns the standard rules.
func DefaultRules() Rules {
	return Rules{
		UndoDepth:      DefaultUndoDepth,
		Relocation:     RelocateRecycle,
		BottomSlot:     DefaultBottomSlot,
		DiscardSlot:    DefaultDiscardSlot,
		ReserveSlot:    DefaultReserveSlot,
		BottomFromHand: true,
	}
}

// undoDepth returns the effective undo capacity, treating 0 as the default.
func (r *Rules) undoDepth() int {
	if r.UndoDepth <= 0 {
		return DefaultUndoDepth
	}
	return r.UndoDepth
}

// CanMatch reports whether two ranks are one apart. Ace and King are also
// adjacent; no other pair wraps.
func CanMatch(a, b Rank) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	if a+1 == b || b+1 == a {
		return true
	}
	return (a == RankAce && b == RankKing) || (a == RankKing && b == RankAce)
}
