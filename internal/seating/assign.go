package seating

import "sort"

// Assignment proposes one seat for one student. The caller persists each
// proposal as an independent idempotent write.
type Assignment struct {
	StudentID string `json:"student_id"`
	Seat      string `json:"seat"`
}

// Result is the outcome of one Assign run. Unassigned counts students for
// whom no seat remained; running out of capacity is not an error, but the
// caller must surface the count instead of silently dropping anyone.
type Result struct {
	Assignments []Assignment `json:"assignments"`
	Unassigned  int          `json:"unassigned"`
}

// Assign packs students into the given seat pools. It is invoked once per
// gender with that gender's pools; pools never intersect across genders.
// Callers pass only eligible students (attending, not service staff).
//
// Phases, in order:
//
//  1. Students holding a locked seat keep it, and their labels are withdrawn
//     from both pools so nobody else can receive them.
//  2. The rest are ordered by descending priority score (stable on ties).
//  3. Special-seating requests are resolved first against the special pool,
//     falling back to the standard pool when it runs dry: a special-needs
//     student is never refused while any capacity remains anywhere.
//  4. Remaining students split into returning and new. Returning students
//     take standard seats in raw generation order; they are few enough that
//     scattering them does not disturb the visual layout.
//  5. The leftover standard pool is re-sorted column-then-row so the larger
//     new-student population fills contiguously, then consumed in priority
//     order.
//
// Seat pools are consumed by index cursor; the input slices are not mutated.
func Assign(students []Student, standardSeats, specialSeats []string, mode ScoreMode) Result {
	locked := make(map[string]bool)
	unlocked := make([]Student, 0, len(students))
	for _, s := range students {
		if s.SeatLocked && s.CurrentSeat != "" {
			locked[s.CurrentSeat] = true
			continue
		}
		unlocked = append(unlocked, s)
	}

	standard := withoutLabels(standardSeats, locked)
	special := withoutLabels(specialSeats, locked)

	// Precompute scores once so the stable sort compares cached values.
	scores := make(map[string]float64, len(unlocked))
	for _, s := range unlocked {
		scores[s.ID] = PriorityScore(s, mode)
	}
	sort.SliceStable(unlocked, func(i, j int) bool {
		return scores[unlocked[i].ID] > scores[unlocked[j].ID]
	})

	var specialReq, normal []Student
	for _, s := range unlocked {
		if s.WantsSpecialSeat() {
			specialReq = append(specialReq, s)
		} else {
			normal = append(normal, s)
		}
	}

	res := Result{}
	specialCur, standardCur := 0, 0

	// Special requests drain the special pool, then overflow into the front
	// of the standard pool.
	for _, s := range specialReq {
		switch {
		case specialCur < len(special):
			res.Assignments = append(res.Assignments, Assignment{StudentID: s.ID, Seat: special[specialCur]})
			specialCur++
		case standardCur < len(standard):
			res.Assignments = append(res.Assignments, Assignment{StudentID: s.ID, Seat: standard[standardCur]})
			standardCur++
		default:
			res.Unassigned++
		}
	}

	var oldCat, newCat []Student
	for _, s := range normal {
		if CategoryOf(s.ConfirmationCode) == CategoryOld {
			oldCat = append(oldCat, s)
		} else {
			newCat = append(newCat, s)
		}
	}

	// Returning students consume the standard pool in generation order.
	for _, s := range oldCat {
		if standardCur < len(standard) {
			res.Assignments = append(res.Assignments, Assignment{StudentID: s.ID, Seat: standard[standardCur]})
			standardCur++
		} else {
			res.Unassigned++
		}
	}

	// Re-sort whatever is left before seating new students.
	remaining := append([]string(nil), standard[standardCur:]...)
	sort.Slice(remaining, func(i, j int) bool { return labelLess(remaining[i], remaining[j]) })

	for i, s := range newCat {
		if i < len(remaining) {
			res.Assignments = append(res.Assignments, Assignment{StudentID: s.ID, Seat: remaining[i]})
		} else {
			res.Unassigned++
		}
	}
	return res
}

// withoutLabels copies labels, dropping any in the excluded set.
func withoutLabels(labels []string, excluded map[string]bool) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !excluded[l] {
			out = append(out, l)
		}
	}
	return out
}
