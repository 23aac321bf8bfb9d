package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Course represents one residential course run at the center. CourseType
// drives the seating priority mode: a TEN_DAY course counts total prior
// courses, everything longer uses the weighted hierarchy.
type Course struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	CourseType  string    `json:"course_type"` // TEN_DAY | SATIPATTHANA | TWENTY_DAY | THIRTY_DAY | FORTYFIVE_DAY | SIXTY_DAY
	StartDate   string    `json:"start_date"`  // YYYY-MM-DD
	EndDate     string    `json:"end_date"`
	MaxStudents uint32    `json:"max_students"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrCourseNotFound is returned when a course lookup yields no rows.
var ErrCourseNotFound = errors.New("course not found")

// CourseRepo provides methods to work with courses in the database.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo constructs a CourseRepo with the given DB handle.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create inserts a course. On success the course's ID is populated.
func (r *CourseRepo) Create(ctx context.Context, c *Course) error {
	const q = `INSERT INTO courses (name, course_type, start_date, end_date, max_students)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.CourseType, c.StartDate, c.EndDate, c.MaxStudents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID retrieves a course by its id.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*Course, error) {
	const q = `SELECT id, name, course_type, start_date, end_date, max_students,
	                  is_active, created_at, updated_at
	           FROM courses WHERE id = ?`
	var c Course
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.CourseType, &c.StartDate, &c.EndDate, &c.MaxStudents,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List retrieves courses, newest start date first. When activeOnly is set,
// finished or archived courses are skipped.
func (r *CourseRepo) List(ctx context.Context, activeOnly bool) ([]Course, error) {
	q := `SELECT id, name, course_type, start_date, end_date, max_students,
	             is_active, created_at, updated_at
	      FROM courses`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY start_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(
			&c.ID, &c.Name, &c.CourseType, &c.StartDate, &c.EndDate, &c.MaxStudents,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites the editable fields of a course.
func (r *CourseRepo) Update(ctx context.Context, c *Course) error {
	const q = `UPDATE courses
	           SET name = ?, course_type = ?, start_date = ?, end_date = ?,
	               max_students = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.CourseType, c.StartDate, c.EndDate, c.MaxStudents, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Participants reference courses with ON DELETE
// CASCADE, so the roster goes with it.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}
