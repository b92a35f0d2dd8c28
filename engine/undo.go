package engine

// UndoRecord describes an applied action well enough to reverse it. The two
// variants are MatchRecord and DrawRecord; records are values and never
// change after creation.
type UndoRecord interface {
	undoRecord()
}

// MatchRecord reverses a match of a playfield or hand card onto the bottom.
type MatchRecord struct {
	MovedCardID      CardID
	OriginalPosition Position
	OriginalZone     Zone
	OriginalIndex    int    // index within the original container
	ReplacedCardID   CardID // NoCard if there was no bottom card
	SpawnedCardID    CardID // NoCard unless the card came from the playfield
}

// DrawRecord reverses a draw from the reserve onto the bottom.
type DrawRecord struct {
	DrawnCardID      CardID
	OriginalPosition Position
	ReplacedCardID   CardID // NoCard if there was no bottom card
}

func (MatchRecord) undoRecord() {}
func (DrawRecord) undoRecord()  {}

// UndoManager is a bounded LIFO of undo records. Pushing past capacity drops
// the oldest record.
type UndoManager struct {
	records []UndoRecord
	max     int
}

// NewUndoManager returns an empty stack holding at most max records. A max of
// 0 or less means DefaultUndoDepth.
func NewUndoManager(max int) *UndoManager {
	if max <= 0 {
		max = DefaultUndoDepth
	}
	return &UndoManager{records: make([]UndoRecord, 0, max), max: max}
}

// Push appends r, evicting the oldest record when the stack is full.
func (u *UndoManager) Push(r UndoRecord) {
	if len(u.records) >= u.max {
		copy(u.records, u.records[1:])
		u.records = u.records[:len(u.records)-1]
	}
	u.records = append(u.records, r)
}

// Pop removes and returns the newest record.
func (u *UndoManager) Pop() (UndoRecord, bool) {
	n := len(u.records)
	if n == 0 {
		return nil, false
	}
	r := u.records[n-1]
	u.records[n-1] = nil
	u.records = u.records[:n-1]
	return r, true
}

// Peek returns the newest record without removing it.
func (u *UndoManager) Peek() (UndoRecord, bool) {
	if len(u.records) == 0 {
		return nil, false
	}
	return u.records[len(u.records)-1], true
}

// CanUndo reports whether any record is available.
func (u *UndoManager) CanUndo() bool { return len(u.records) > 0 }

// Len returns the number of stored records.
func (u *UndoManager) Len() int { return len(u.records) }

// Cap returns the configured capacity.
func (u *UndoManager) Cap() int { return u.max }

// Clear drops every record.
func (u *UndoManager) Clear() {
	clear(u.records)
	u.records = u.records[:0]
}
