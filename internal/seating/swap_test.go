package seating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapRejectsGenderMismatch(t *testing.T) {
	a := Seat{Label: "A1", Gender: Male}
	b := Seat{Label: "A1", Gender: Female}
	updates, err := Swap(a, b)
	require.ErrorIs(t, err, ErrGenderMismatch)
	require.Empty(t, updates)
}

func TestSwapBothEmpty(t *testing.T) {
	updates, err := Swap(Seat{Label: "A1", Gender: Male}, Seat{Label: "B2", Gender: Male})
	require.NoError(t, err)
	require.Empty(t, updates)
}

func TestSwapSingleOccupied(t *testing.T) {
	x := Student{ID: "x"}
	t.Run("occupied first", func(t *testing.T) {
		updates, err := Swap(
			Seat{Label: "B7", Gender: Male, Occupant: &x},
			Seat{Label: "C2", Gender: Male},
		)
		require.NoError(t, err)
		require.Equal(t, []Update{{StudentID: "x", Seat: "C2", Lock: true}}, updates)
	})

	t.Run("occupied second", func(t *testing.T) {
		updates, err := Swap(
			Seat{Label: "C2", Gender: Male},
			Seat{Label: "B7", Gender: Male, Occupant: &x},
		)
		require.NoError(t, err)
		require.Equal(t, []Update{{StudentID: "x", Seat: "C2", Lock: true}}, updates)
	})
}

func TestSwapBothOccupied(t *testing.T) {
	x := Student{ID: "x"}
	y := Student{ID: "y"}
	updates, err := Swap(
		Seat{Label: "B7", Gender: Female, Occupant: &x},
		Seat{Label: "C2", Gender: Female, Occupant: &y},
	)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	// Applying the updates in order against a uniqueness-enforcing store
	// must never collide, and the sentinel must not survive.
	occupied := map[string]string{"B7": "x", "C2": "y"}
	seatOf := map[string]string{"x": "B7", "y": "C2"}
	for _, u := range updates {
		if holder, taken := occupied[u.Seat]; taken {
			require.Equal(t, u.StudentID, holder, "write to %s collides", u.Seat)
		}
		delete(occupied, seatOf[u.StudentID])
		occupied[u.Seat] = u.StudentID
		seatOf[u.StudentID] = u.Seat
		require.True(t, u.Lock)
	}
	require.Equal(t, "C2", seatOf["x"])
	require.Equal(t, "B7", seatOf["y"])
	require.NotContains(t, occupied, SentinelLabel)
}
