package handler

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhammaseva/center-console/internal/repository"
	"github.com/dhammaseva/center-console/internal/seating"
)

func rosterRow(code, gender, status, seat string, locked bool) repository.Participant {
	p := repository.Participant{
		PublicID:         "p-" + code,
		FullName:         code,
		Gender:           gender,
		ConfirmationCode: code,
		Status:           status,
		SeatLocked:       locked,
	}
	if seat != "" {
		p.SeatLabel = sql.NullString{String: seat, Valid: true}
	}
	return p
}

func TestSplitRoster(t *testing.T) {
	roster := []repository.Participant{
		rosterRow("N-1", "MALE", seating.StatusAttending, "A1", false),
		rosterRow("N-2", "MALE", seating.StatusAttending, "A2", true),
		rosterRow("N-3", "MALE", seating.StatusAttending, "", false),
		rosterRow("SM-1", "MALE", seating.StatusAttending, "B1", true),
		rosterRow("SM-2", "MALE", seating.StatusAttending, "B2", false),
		rosterRow("O-1", "MALE", "CANCELLED", "A3", true),
		rosterRow("N-9", "FEMALE", seating.StatusAttending, "A1", false),
	}

	split := splitRoster(roster, "MALE")

	t.Run("eligible students feed the engine", func(t *testing.T) {
		ids := make([]string, 0, len(split.students))
		for _, s := range split.students {
			ids = append(ids, s.ID)
		}
		require.ElementsMatch(t, []string{"p-N-1", "p-N-2", "p-N-3"}, ids)
	})

	t.Run("only unlocked eligible seats are stale", func(t *testing.T) {
		staleIDs := make([]string, 0, len(split.stale))
		for _, s := range split.stale {
			staleIDs = append(staleIDs, s.ID)
		}
		// N-1 holds an unlocked seat, the cancelled O-1 vacates even though
		// locked. N-2 is locked and must never receive an update.
		require.ElementsMatch(t, []string{"p-N-1", "p-O-1"}, staleIDs)
	})

	t.Run("attending staff are neither seated nor unseated", func(t *testing.T) {
		for _, s := range split.students {
			require.NotEqual(t, "p-SM-1", s.ID)
			require.NotEqual(t, "p-SM-2", s.ID)
		}
		for _, s := range split.stale {
			require.NotEqual(t, "p-SM-1", s.ID)
			require.NotEqual(t, "p-SM-2", s.ID)
		}
	})

	t.Run("staff seats are reserved regardless of lock flag", func(t *testing.T) {
		require.True(t, split.reserved["B1"])
		require.True(t, split.reserved["B2"])
		require.Len(t, split.reserved, 2)
	})

	t.Run("other gender rows are ignored", func(t *testing.T) {
		for _, s := range split.students {
			require.NotEqual(t, "p-N-9", s.ID)
		}
	})
}

func TestWithoutReserved(t *testing.T) {
	pool := []string{"A1", "A2", "B1", "B2"}

	t.Run("empty reservation returns pool unchanged", func(t *testing.T) {
		require.Equal(t, pool, withoutReserved(pool, nil))
		require.Equal(t, pool, withoutReserved(pool, map[string]bool{}))
	})

	t.Run("reserved labels are dropped in order", func(t *testing.T) {
		got := withoutReserved(pool, map[string]bool{"B1": true})
		require.Equal(t, []string{"A1", "A2", "B2"}, got)
	})
}

// A fresh run over pools with a staff-held label withdrawn must never hand
// that label to a student, so the uniqueness key cannot be violated.
func TestAssignSkipsStaffHeldSeat(t *testing.T) {
	roster := []repository.Participant{
		rosterRow("SM-1", "MALE", seating.StatusAttending, "A1", true),
		rosterRow("N-1", "MALE", seating.StatusAttending, "", false),
		rosterRow("N-2", "MALE", seating.StatusAttending, "", false),
	}
	split := splitRoster(roster, "MALE")
	geo := seating.Geometry{StandardCols: 1, SpecialCols: 0, Rows: 3}

	res := seating.Assign(split.students,
		withoutReserved(geo.StandardLabels(), split.reserved),
		withoutReserved(geo.SpecialLabels(), split.reserved), seating.ScoreSum)

	require.Len(t, res.Assignments, 2)
	for _, a := range res.Assignments {
		require.NotEqual(t, "A1", a.Seat)
	}
	require.Empty(t, split.stale)
}
