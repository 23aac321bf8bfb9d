package seating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoScale(t *testing.T) {
	t.Run("rows clamp to the lower bound", func(t *testing.T) {
		g := AutoScale(0, 10, 10) // ceil(10/8)=2 -> clamped to 8
		require.Equal(t, 8, g.Rows)
	})

	t.Run("rows clamp to the upper bound", func(t *testing.T) {
		g := AutoScale(0, 10, 200) // ceil(200/8)=25 -> clamped to 14
		require.Equal(t, 14, g.Rows)
	})

	t.Run("rows track headcount inside the bounds", func(t *testing.T) {
		g := AutoScale(0, 10, 80) // ceil(80/8)=10
		require.Equal(t, 10, g.Rows)
	})

	t.Run("special block always gets at least one column", func(t *testing.T) {
		g := AutoScale(0, 40, 80)
		require.Equal(t, 1, g.SpecialCols)
	})

	t.Run("standard block carries one spare column", func(t *testing.T) {
		g := AutoScale(5, 40, 80) // rows=10: ceil(40/10)+1 = 5
		require.Equal(t, 5, g.StandardCols)
		require.Equal(t, 1, g.SpecialCols) // ceil(5/10) = 1
	})

	t.Run("proposal covers every student", func(t *testing.T) {
		special, normal := 17, 93
		g := AutoScale(special, normal, special+normal)
		require.GreaterOrEqual(t, g.SpecialCols*g.Rows, special)
		require.GreaterOrEqual(t, g.StandardCols*g.Rows, normal)
	})
}
