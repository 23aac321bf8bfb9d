package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// HallGeometry stores one gender's hall layout for a course: how many
// standard and special (CW) columns, and how many rows both blocks share.
// The browser console used to keep this in local storage; here it is a
// course-keyed record the seating engine receives as plain input.
type HallGeometry struct {
	ID           uint64    `json:"-"`
	CourseID     uint64    `json:"course_id"`
	Gender       string    `json:"gender"` // MALE | FEMALE
	StandardCols int       `json:"standard_cols"`
	SpecialCols  int       `json:"special_cols"`
	Rows         int       `json:"rows"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrGeometryNotFound is returned when no layout was saved for the
// course/gender pair yet.
var ErrGeometryNotFound = errors.New("hall geometry not found")

// GeometryRepo persists hall layouts keyed by course and gender.
type GeometryRepo struct {
	db *sql.DB
}

// NewGeometryRepo constructs a GeometryRepo with the given DB handle.
func NewGeometryRepo(db *sql.DB) *GeometryRepo {
	return &GeometryRepo{db: db}
}

// Get retrieves the saved layout for one gender of a course.
func (r *GeometryRepo) Get(ctx context.Context, courseID uint64, gender string) (*HallGeometry, error) {
	const q = `SELECT id, course_id, gender, standard_cols, special_cols, seat_rows, updated_at
	           FROM hall_geometries WHERE course_id = ? AND gender = ?`
	var g HallGeometry
	err := r.db.QueryRowContext(ctx, q, courseID, gender).Scan(
		&g.ID, &g.CourseID, &g.Gender, &g.StandardCols, &g.SpecialCols, &g.Rows, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGeometryNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Upsert inserts or replaces the layout for a course/gender pair. Callers
// validate the geometry before saving; this method only persists it.
func (r *GeometryRepo) Upsert(ctx context.Context, g *HallGeometry) error {
	const q = `INSERT INTO hall_geometries (course_id, gender, standard_cols, special_cols, seat_rows)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               standard_cols = VALUES(standard_cols),
	               special_cols  = VALUES(special_cols),
	               seat_rows     = VALUES(seat_rows),
	               updated_at    = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, g.CourseID, g.Gender, g.StandardCols, g.SpecialCols, g.Rows)
	return err
}
