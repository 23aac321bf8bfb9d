package seating

import "errors"

// ErrGenderMismatch is returned when a swap pairs seats from the two
// gendered layouts. The operation is refused and no updates are produced.
var ErrGenderMismatch = errors.New("seats belong to different genders")

// SentinelLabel is the temporary parking label used by the three-step swap.
// The backing store enforces seat uniqueness per course and gender, so a
// direct exchange of two occupied seats would collide on the first write;
// the first occupant parks here until the second has moved. The sentinel
// never survives into the final state.
const SentinelLabel = "X-SWAP"

// Seat is one side of a manual swap: a label plus the gender context it was
// selected in (labels carry no gender marker of their own) and its occupant,
// nil when the seat is empty.
type Seat struct {
	Label    string
	Gender   Gender
	Occupant *Student
}

// Update is a single seat write the caller must apply. Updates from Swap
// are ordered and must be applied in sequence.
type Update struct {
	StudentID string `json:"student_id"`
	Seat      string `json:"seat"`
	Lock      bool   `json:"lock"`
}

// Swap exchanges two seats picked by an operator. Manual placement is
// sticky: every moved student comes out locked so later auto-assignment
// runs leave them alone.
//
// Both empty is a no-op. One occupant moves directly into the empty label.
// Two occupants exchange via the sentinel so no intermediate write reuses a
// label that is still taken.
func Swap(a, b Seat) ([]Update, error) {
	if a.Gender != b.Gender {
		return nil, ErrGenderMismatch
	}
	switch {
	case a.Occupant == nil && b.Occupant == nil:
		return nil, nil
	case a.Occupant != nil && b.Occupant == nil:
		return []Update{{StudentID: a.Occupant.ID, Seat: b.Label, Lock: true}}, nil
	case a.Occupant == nil && b.Occupant != nil:
		return []Update{{StudentID: b.Occupant.ID, Seat: a.Label, Lock: true}}, nil
	default:
		return []Update{
			{StudentID: a.Occupant.ID, Seat: SentinelLabel, Lock: true},
			{StudentID: b.Occupant.ID, Seat: a.Label, Lock: true},
			{StudentID: a.Occupant.ID, Seat: b.Label, Lock: true},
		}, nil
	}
}
