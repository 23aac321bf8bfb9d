// Package seating implements the hall seat-assignment engine used during
// course check-in: priority scoring from course history, seat label
// generation for the gendered two-block hall layout, the packing algorithm
// that places students into seats, and the manual swap operation.
//
// Everything in this package is pure. The engine receives a snapshot of the
// roster and the hall geometry, and returns proposed seat labels; persistence
// of the results is the caller's job. Repeated runs over the same snapshot
// produce identical output.
package seating

import "strings"

// Gender partitions every seat pool. A hall has two fully independent
// layouts, one per gender, and labels never cross between them.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// SpecialSeating is a non-floor seat category requested for medical or
// comfort reasons. Students with any request other than None draw seats
// from the dedicated special column block.
type SpecialSeating string

const (
	SeatNone     SpecialSeating = "NONE"
	SeatChowky   SpecialSeating = "CHOWKY"
	SeatChair    SpecialSeating = "CHAIR"
	SeatBackRest SpecialSeating = "BACKREST"
)

// StatusAttending is the only participant status eligible for assignment.
const StatusAttending = "ATTENDING"

// Student carries the subset of a participant record the engine needs.
type Student struct {
	ID               string // opaque stable identifier, join key for updates
	FullName         string
	Gender           Gender
	ConfirmationCode string // first characters encode the category, see CategoryOf
	Age              int    // minor tie-breaking signal
	CoursesHistory   string // free-form prior-course text, see HistoryScore
	SpecialSeating   SpecialSeating
	CurrentSeat      string // empty when unseated
	SeatLocked       bool   // locked seats are never moved or reused
	Status           string
}

// WantsSpecialSeat reports whether the student requested a special-block seat.
func (s Student) WantsSpecialSeat() bool {
	return s.SpecialSeating == SeatChowky || s.SpecialSeating == SeatChair || s.SpecialSeating == SeatBackRest
}

// Category classifies a student by confirmation-code prefix.
type Category int

const (
	CategoryNew Category = iota // first-time attendee
	CategoryOld                 // returning attendee
	CategoryStaff               // service staff, excluded from auto-assignment
)

// CategoryOf derives the category from a confirmation code. Codes beginning
// with SM or SF mark service staff; otherwise O or S marks a returning
// student and N a new one. Unrecognized codes fall back to new so that a
// badly entered code degrades the student's priority instead of dropping
// them from the run.
func CategoryOf(confirmationCode string) Category {
	code := strings.ToUpper(strings.TrimSpace(confirmationCode))
	switch {
	case strings.HasPrefix(code, "SM"), strings.HasPrefix(code, "SF"):
		return CategoryStaff
	case strings.HasPrefix(code, "O"), strings.HasPrefix(code, "S"):
		return CategoryOld
	case strings.HasPrefix(code, "N"):
		return CategoryNew
	default:
		return CategoryNew
	}
}

// Eligible reports whether the student participates in auto-assignment:
// attending status and not service staff.
func (s Student) Eligible() bool {
	return s.Status == StatusAttending && CategoryOf(s.ConfirmationCode) != CategoryStaff
}
