package seating

import (
	"regexp"
	"strconv"
	"strings"
)

// ScoreMode selects how the course-history text is turned into a number.
type ScoreMode string

const (
	// ScoreSum counts total courses attended, all types equal. Used for
	// 10-day courses where seniority is plain experience.
	ScoreSum ScoreMode = "sum"
	// ScoreHierarchy weights course types so a longer course always outranks
	// any quantity of shorter ones. Used for every other course.
	ScoreHierarchy ScoreMode = "hierarchy"
)

// oldStudentBonus dominates history-score ties between old and new students.
const oldStudentBonus = 50

// courseClass groups the keyword aliases that denote one course type
// together with its hierarchy-mode weight. Aliases are matched longest
// first so that SATI is not consumed as SAT followed by a stray I.
type courseClass struct {
	aliases []string
	weight  float64
}

// Weights are spaced by powers of ten so the ordering is lexicographic:
// one 20-day course outranks any realistic number of 10-day courses.
var courseClasses = []courseClass{
	{aliases: []string{"60D"}, weight: 1e12},
	{aliases: []string{"45D"}, weight: 1e10},
	{aliases: []string{"30D"}, weight: 1e8},
	{aliases: []string{"20D"}, weight: 1e6},
	{aliases: []string{"SATIPATTHANA", "SATI", "SAT", "STP"}, weight: 1e4},
	{aliases: []string{"10-DAY", "TEN", "10D"}, weight: 100},
	{aliases: []string{"SERV", "SVC", "TSC", "OLD"}, weight: 1},
}

// Per-alias matchers, compiled once. Three forms are recognized:
// a count before the keyword ("3x10D"), a count after it ("10D:3"),
// and the bare keyword (counts as one).
type aliasMatcher struct {
	class    int
	prefixed *regexp.Regexp // (\d+) x KW
	suffixed *regexp.Regexp // KW : (\d+)
	bare     *regexp.Regexp
}

var aliasMatchers = buildAliasMatchers()

func buildAliasMatchers() []aliasMatcher {
	var out []aliasMatcher
	for ci, cls := range courseClasses {
		for _, a := range cls.aliases {
			kw := regexp.QuoteMeta(a)
			out = append(out, aliasMatcher{
				class:    ci,
				prefixed: regexp.MustCompile(`(\d+)\s*[xX]\s*` + kw + `\b`),
				suffixed: regexp.MustCompile(`\b` + kw + `\s*:\s*(\d+)`),
				bare:     regexp.MustCompile(`\b` + kw + `\b`),
			})
		}
	}
	return out
}

// extractCounts scans free-form history text and returns how many courses of
// each class it mentions. Matched segments are consumed so an alias cannot
// be counted twice; anything unmatched contributes nothing. The scan never
// fails: operators type this text by hand and garbage must score zero, not
// block a check-in.
func extractCounts(text string) []int {
	counts := make([]int, len(courseClasses))
	rest := strings.ToUpper(text)
	for _, m := range aliasMatchers {
		rest = consumeCounted(m.prefixed, rest, &counts[m.class])
		rest = consumeCounted(m.suffixed, rest, &counts[m.class])
		rest = consumeBare(m.bare, rest, &counts[m.class])
	}
	return counts
}

// consumeCounted adds the captured number of every match to total and blanks
// the matched span out of s.
func consumeCounted(re *regexp.Regexp, s string, total *int) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if n, err := strconv.Atoi(sub[1]); err == nil {
			*total += n
		}
		return strings.Repeat(" ", len(match))
	})
}

// consumeBare adds one per occurrence and blanks the matched span.
func consumeBare(re *regexp.Regexp, s string, total *int) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		*total++
		return strings.Repeat(" ", len(match))
	})
}

// HistoryScore derives the numeric priority of a course-history text.
//
// In sum mode a purely numeric text is taken at face value; otherwise every
// recognized course keyword contributes its count, unweighted. In hierarchy
// mode counts are multiplied by the class weights above. Unparseable text
// scores zero in both modes.
func HistoryScore(text string, mode ScoreMode) float64 {
	trimmed := strings.TrimSpace(text)
	if mode == ScoreSum {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
	}
	counts := extractCounts(trimmed)
	var score float64
	for i, n := range counts {
		if mode == ScoreHierarchy {
			score += float64(n) * courseClasses[i].weight
		} else {
			score += float64(n)
		}
	}
	return score
}

// PriorityScore is the total ordering key used by Assign: the history score
// in the mode appropriate to the running course, plus a flat bonus for
// returning students, plus age/100 as a final tie-breaker. The bonus
// guarantees category dominates ties within comparable histories, and age
// only separates students that are otherwise equal.
func PriorityScore(s Student, mode ScoreMode) float64 {
	score := HistoryScore(s.CoursesHistory, mode)
	if CategoryOf(s.ConfirmationCode) == CategoryOld {
		score += oldStudentBonus
	}
	return score + float64(s.Age)/100
}
