package seating

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// specialPrefix marks special-block (chowky/chair/backrest) columns.
const specialPrefix = "CW-"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Geometry describes one gender's hall layout: a standard block of floor
// columns followed by a special block, both sharing the same row count.
type Geometry struct {
	StandardCols int `json:"standard_cols"`
	SpecialCols  int `json:"special_cols"`
	Rows         int `json:"rows"`
}

// ErrBadGeometry is wrapped by every Validate failure.
var ErrBadGeometry = errors.New("invalid hall geometry")

// Validate rejects a geometry that cannot yield a well-formed label space.
// The single-letter alphabet caps total columns at 26; beyond that the code
// refuses the configuration outright rather than silently truncating or
// inventing double-letter columns the hall charts do not use. Geometry is
// validated when the operator edits it, never mid-assignment.
func (g Geometry) Validate() error {
	if g.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrBadGeometry, g.Rows)
	}
	if g.StandardCols < 0 || g.SpecialCols < 0 {
		return fmt.Errorf("%w: negative column count", ErrBadGeometry)
	}
	total := g.StandardCols + g.SpecialCols
	if total == 0 {
		return fmt.Errorf("%w: no columns configured", ErrBadGeometry)
	}
	if total > len(alphabet) {
		return fmt.Errorf("%w: %d columns exceed the 26-letter limit", ErrBadGeometry, total)
	}
	return nil
}

// StandardColumnCodes returns the standard-block column codes A, B, C, ...
func (g Geometry) StandardColumnCodes() []string {
	codes := make([]string, 0, g.StandardCols)
	for i := 0; i < g.StandardCols; i++ {
		codes = append(codes, string(alphabet[i]))
	}
	return codes
}

// SpecialColumnCodes returns the special-block codes, which continue the
// alphabet after the standard block under the CW- prefix: with five standard
// columns the special block starts at CW-F.
func (g Geometry) SpecialColumnCodes() []string {
	codes := make([]string, 0, g.SpecialCols)
	for i := 0; i < g.SpecialCols; i++ {
		codes = append(codes, specialPrefix+string(alphabet[g.StandardCols+i]))
	}
	return codes
}

// GenerateLabels produces every code+row combination, rows 1..rows nested
// inside each column in the given column order.
func GenerateLabels(columnCodes []string, rows int) []string {
	labels := make([]string, 0, len(columnCodes)*rows)
	for _, code := range columnCodes {
		for row := 1; row <= rows; row++ {
			labels = append(labels, code+strconv.Itoa(row))
		}
	}
	return labels
}

// StandardLabels is the standard-block seat pool in generation order.
func (g Geometry) StandardLabels() []string {
	return GenerateLabels(g.StandardColumnCodes(), g.Rows)
}

// SpecialLabels is the special-block seat pool in generation order.
func (g Geometry) SpecialLabels() []string {
	return GenerateLabels(g.SpecialColumnCodes(), g.Rows)
}

// splitLabel separates a seat label into its column code and 1-based row,
// e.g. "B4" -> ("B", 4) and "CW-A12" -> ("CW-A", 12).
func splitLabel(label string) (col string, row int, ok bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(label) {
		return "", 0, false
	}
	row, err := strconv.Atoi(label[i:])
	if err != nil || row < 1 {
		return "", 0, false
	}
	return label[:i], row, true
}

// labelLess orders labels by column code lexicographically, then by row
// ascending numerically. This is the comparator used to re-sort the leftover
// standard pool before new-student assignment so that block fills
// left-to-right, top-to-bottom whatever holes earlier phases left behind.
// Malformed labels sort last by plain string comparison.
func labelLess(a, b string) bool {
	ac, ar, aok := splitLabel(a)
	bc, br, bok := splitLabel(b)
	if !aok || !bok {
		if aok != bok {
			return aok
		}
		return a < b
	}
	if ac != bc {
		return strings.Compare(ac, bc) < 0
	}
	return ar < br
}
