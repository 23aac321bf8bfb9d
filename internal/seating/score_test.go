package seating

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryScoreSumMode(t *testing.T) {
	t.Run("counted keywords add up", func(t *testing.T) {
		require.Equal(t, 3.0, HistoryScore("10D:2 SAT:1", ScoreSum))
	})

	t.Run("pure numeric text parses directly", func(t *testing.T) {
		require.Equal(t, 7.0, HistoryScore("7", ScoreSum))
		require.Equal(t, 7.0, HistoryScore(" 7 ", ScoreSum))
	})

	t.Run("garbage scores zero", func(t *testing.T) {
		require.Equal(t, 0.0, HistoryScore("garbage", ScoreSum))
		require.Equal(t, 0.0, HistoryScore("", ScoreSum))
	})

	t.Run("count before keyword", func(t *testing.T) {
		require.Equal(t, 3.0, HistoryScore("3x10D", ScoreSum))
	})

	t.Run("bare keyword counts once", func(t *testing.T) {
		require.Equal(t, 2.0, HistoryScore("10D SAT", ScoreSum))
	})

	t.Run("unmatched text around keywords is ignored", func(t *testing.T) {
		require.Equal(t, 4.0, HistoryScore("did 10D:3 plus one 20D at Igatpuri", ScoreSum))
	})
}

func TestHistoryScoreHierarchyMode(t *testing.T) {
	t.Run("one 20-day outranks any number of 10-days", func(t *testing.T) {
		require.Greater(t,
			HistoryScore("20D:1", ScoreHierarchy),
			HistoryScore("10D:999", ScoreHierarchy))
	})

	t.Run("weights stack across types", func(t *testing.T) {
		require.Equal(t, 1e6+2*100, HistoryScore("20D:1 10D:2", ScoreHierarchy))
	})

	t.Run("synonyms map to their class weight", func(t *testing.T) {
		require.Equal(t, HistoryScore("SAT", ScoreHierarchy), HistoryScore("SATI", ScoreHierarchy))
		require.Equal(t, HistoryScore("10D", ScoreHierarchy), HistoryScore("TEN", ScoreHierarchy))
		require.Equal(t, HistoryScore("SVC", ScoreHierarchy), HistoryScore("SERV", ScoreHierarchy))
	})

	t.Run("satipatthana is not double counted as SAT", func(t *testing.T) {
		require.Equal(t, 1e4, HistoryScore("SATIPATTHANA", ScoreHierarchy))
	})

	t.Run("plain number scores zero", func(t *testing.T) {
		require.Equal(t, 0.0, HistoryScore("7", ScoreHierarchy))
	})

	t.Run("course ladder is strictly ordered", func(t *testing.T) {
		// Adjacent weights sit two orders of magnitude apart, so one course
		// of a type outranks up to 99 of the type below it.
		ladder := []string{"SVC", "10D", "SAT", "20D", "30D", "45D", "60D"}
		for i := 1; i < len(ladder); i++ {
			require.Greater(t,
				HistoryScore(ladder[i], ScoreHierarchy),
				HistoryScore(ladder[i-1]+":99", ScoreHierarchy),
				"%s should outrank 99 of %s", ladder[i], ladder[i-1])
		}
	})
}

func TestPriorityScore(t *testing.T) {
	old := Student{ID: "a", ConfirmationCode: "O-12", Age: 40, CoursesHistory: "10D:2"}
	new_ := Student{ID: "b", ConfirmationCode: "N-7", Age: 40, CoursesHistory: "10D:2"}

	t.Run("old category adds flat bonus", func(t *testing.T) {
		require.Equal(t, PriorityScore(new_, ScoreSum)+50, PriorityScore(old, ScoreSum))
	})

	t.Run("age breaks remaining ties only", func(t *testing.T) {
		older := old
		older.Age = 60
		require.Greater(t, PriorityScore(older, ScoreSum), PriorityScore(old, ScoreSum))
		// A single extra course is still worth more than any age gap.
		moreCourses := old
		moreCourses.CoursesHistory = "10D:3"
		moreCourses.Age = 0
		require.Greater(t, PriorityScore(moreCourses, ScoreSum), PriorityScore(older, ScoreSum))
	})
}

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		code string
		want Category
	}{
		{"O-101", CategoryOld},
		{"S-4", CategoryOld},
		{"N-55", CategoryNew},
		{"SM-1", CategoryStaff},
		{"SF-2", CategoryStaff},
		{"sm-3", CategoryStaff},
		{"", CategoryNew},
		{"X9", CategoryNew},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CategoryOf(tc.code), "code %q", tc.code)
	}
}

func TestEligible(t *testing.T) {
	s := Student{ConfirmationCode: "N-1", Status: StatusAttending}
	require.True(t, s.Eligible())

	s.Status = "CANCELLED"
	require.False(t, s.Eligible())

	staff := Student{ConfirmationCode: "SM-1", Status: StatusAttending}
	require.False(t, staff.Eligible())
}
