package seating

// Row bounds for the auto-scale heuristic. Halls shorter than eight rows
// waste width; longer than fourteen the back rows lose sight of the teacher.
const (
	minScaleRows = 8
	maxScaleRows = 14
	rowDivisor   = 8
)

// AutoScale proposes a hall geometry for the given headcounts. It is a
// sizing heuristic only: the operator reviews the proposal, persists it,
// and re-runs assignment. Rows come from ceil(maxStudents/8) clamped to
// [8,14]; the special block gets at least one column, and the standard
// block always carries one spare column of slack.
func AutoScale(specialCount, normalCount, maxStudents int) Geometry {
	rows := ceilDiv(maxStudents, rowDivisor)
	if rows < minScaleRows {
		rows = minScaleRows
	}
	if rows > maxScaleRows {
		rows = maxScaleRows
	}
	specialCols := ceilDiv(specialCount, rows)
	if specialCols < 1 {
		specialCols = 1
	}
	return Geometry{
		StandardCols: ceilDiv(normalCount, rows) + 1,
		SpecialCols:  specialCols,
		Rows:         rows,
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
