package seating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeometryValidate(t *testing.T) {
	t.Run("accepts a typical layout", func(t *testing.T) {
		require.NoError(t, Geometry{StandardCols: 8, SpecialCols: 2, Rows: 10}.Validate())
	})

	t.Run("rejects non-positive rows", func(t *testing.T) {
		require.ErrorIs(t, Geometry{StandardCols: 2, SpecialCols: 1, Rows: 0}.Validate(), ErrBadGeometry)
		require.ErrorIs(t, Geometry{StandardCols: 2, SpecialCols: 1, Rows: -3}.Validate(), ErrBadGeometry)
	})

	t.Run("rejects empty and negative column counts", func(t *testing.T) {
		require.ErrorIs(t, Geometry{Rows: 5}.Validate(), ErrBadGeometry)
		require.ErrorIs(t, Geometry{StandardCols: -1, SpecialCols: 2, Rows: 5}.Validate(), ErrBadGeometry)
	})

	t.Run("rejects layouts past the 26-letter alphabet", func(t *testing.T) {
		require.ErrorIs(t, Geometry{StandardCols: 20, SpecialCols: 7, Rows: 5}.Validate(), ErrBadGeometry)
		require.NoError(t, Geometry{StandardCols: 20, SpecialCols: 6, Rows: 5}.Validate())
	})
}

func TestColumnCodes(t *testing.T) {
	g := Geometry{StandardCols: 5, SpecialCols: 2, Rows: 3}

	require.Equal(t, []string{"A", "B", "C", "D", "E"}, g.StandardColumnCodes())
	// Special columns continue the alphabet after the standard block.
	require.Equal(t, []string{"CW-F", "CW-G"}, g.SpecialColumnCodes())
}

func TestGenerateLabels(t *testing.T) {
	t.Run("rows nest inside columns", func(t *testing.T) {
		got := GenerateLabels([]string{"A", "B"}, 3)
		require.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, got)
	})

	t.Run("no duplicates across the full label space", func(t *testing.T) {
		g := Geometry{StandardCols: 4, SpecialCols: 3, Rows: 12}
		seen := map[string]bool{}
		all := append(g.StandardLabels(), g.SpecialLabels()...)
		for _, l := range all {
			require.False(t, seen[l], "duplicate label %s", l)
			seen[l] = true
		}
		require.Len(t, all, (4+3)*12)
	})
}

func TestSplitLabel(t *testing.T) {
	cases := []struct {
		label string
		col   string
		row   int
		ok    bool
	}{
		{"B4", "B", 4, true},
		{"CW-A12", "CW-A", 12, true},
		{"A1", "A", 1, true},
		{"A0", "", 0, false},
		{"12", "", 0, false},
		{"B", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		col, row, ok := splitLabel(tc.label)
		require.Equal(t, tc.ok, ok, "label %q", tc.label)
		require.Equal(t, tc.col, col, "label %q", tc.label)
		require.Equal(t, tc.row, row, "label %q", tc.label)
	}
}

func TestLabelLess(t *testing.T) {
	t.Run("column first then numeric row", func(t *testing.T) {
		require.True(t, labelLess("A2", "B1"))
		require.True(t, labelLess("A2", "A10")) // numeric, not lexicographic, rows
		require.False(t, labelLess("B1", "A9"))
	})

	t.Run("column codes compare lexicographically across blocks", func(t *testing.T) {
		// The re-sort only ever sees standard labels, but the comparator is
		// total: CW-A orders before Z because C < Z.
		require.True(t, labelLess("CW-A1", "Z1"))
	})
}
