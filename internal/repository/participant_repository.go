package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"time"

	"github.com/google/uuid"
)

// Participant mirrors a row of the `participants` table. PublicID is the
// opaque identifier handed to clients and used as the join key for seat
// writes; the numeric ID stays internal. SeatLabel is NULL while the
// student is unseated.
type Participant struct {
	ID               uint64         `json:"-"`
	PublicID         string         `json:"id"` // participants.public_id (UUID)
	CourseID         uint64         `json:"course_id"`
	FullName         string         `json:"full_name"`
	Gender           string         `json:"gender"` // MALE | FEMALE
	ConfirmationCode string         `json:"confirmation_code"`
	Age              uint32         `json:"age"`
	CoursesHistory   string         `json:"courses_history"`
	SpecialSeating   string         `json:"special_seating"` // NONE | CHOWKY | CHAIR | BACKREST
	SeatLabel        sql.NullString `json:"-"`
	SeatLocked       bool           `json:"seat_locked"`
	Status           string         `json:"status"` // ATTENDING | CANCELLED | LEFT
	ArrivedAt        sql.NullTime   `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ErrParticipantNotFound is returned when a participant lookup yields no rows.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrSeatTaken is returned when a seat write violates the per-course,
// per-gender seat uniqueness key.
var ErrSeatTaken = errors.New("seat already taken")

// ParticipantRepo provides methods to work with participants in the database.
type ParticipantRepo struct {
	db *sql.DB
}

// NewParticipantRepo constructs a ParticipantRepo with the given DB handle.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

const participantCols = `id, public_id, course_id, full_name, gender, confirmation_code,
	age, courses_history, special_seating, seat_label, seat_locked, status,
	arrived_at, created_at, updated_at`

func scanParticipant(row interface{ Scan(...any) error }, p *Participant) error {
	return row.Scan(
		&p.ID, &p.PublicID, &p.CourseID, &p.FullName, &p.Gender, &p.ConfirmationCode,
		&p.Age, &p.CoursesHistory, &p.SpecialSeating, &p.SeatLabel, &p.SeatLocked,
		&p.Status, &p.ArrivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
}

// Create registers a participant on a course. A fresh public UUID is issued
// here; on success ID and PublicID are populated. Registering a confirmation
// code already present on the course violates the (course_id,
// confirmation_code) unique key and surfaces as ErrConflict.
func (r *ParticipantRepo) Create(ctx context.Context, p *Participant) error {
	p.PublicID = uuid.NewString()
	const q = `INSERT INTO participants
	           (public_id, course_id, full_name, gender, confirmation_code, age,
	            courses_history, special_seating, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.PublicID, p.CourseID, p.FullName, p.Gender, p.ConfirmationCode, p.Age,
		p.CoursesHistory, p.SpecialSeating, p.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByPublicID retrieves a participant by the opaque identifier clients use.
func (r *ParticipantRepo) GetByPublicID(ctx context.Context, publicID string) (*Participant, error) {
	q := `SELECT ` + participantCols + ` FROM participants WHERE public_id = ?`
	var p Participant
	if err := scanParticipant(r.db.QueryRowContext(ctx, q, publicID), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByCourse retrieves the full roster of a course ordered by name.
func (r *ParticipantRepo) ListByCourse(ctx context.Context, courseID uint64) ([]Participant, error) {
	q := `SELECT ` + participantCols + ` FROM participants
	      WHERE course_id = ? ORDER BY full_name, id`
	rows, err := r.db.QueryContext(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Participant
	for rows.Next() {
		var p Participant
		if err := scanParticipant(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindBySeat resolves the occupant of a seat label within one course and
// gender, or ErrParticipantNotFound when the seat is empty.
func (r *ParticipantRepo) FindBySeat(ctx context.Context, courseID uint64, gender, seatLabel string) (*Participant, error) {
	q := `SELECT ` + participantCols + ` FROM participants
	      WHERE course_id = ? AND gender = ? AND seat_label = ?`
	var p Participant
	if err := scanParticipant(r.db.QueryRowContext(ctx, q, courseID, gender, seatLabel), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update rewrites the editable registration fields of a participant.
func (r *ParticipantRepo) Update(ctx context.Context, p *Participant) error {
	const q = `UPDATE participants
	           SET full_name = ?, gender = ?, confirmation_code = ?, age = ?,
	               courses_history = ?, special_seating = ?, status = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE public_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.FullName, p.Gender, p.ConfirmationCode, p.Age,
		p.CoursesHistory, p.SpecialSeating, p.Status, p.PublicID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// UpdateSeat persists one seat write: label (NULL clears the seat) plus the
// lock flag. Each call is an independent idempotent upsert of these two
// fields, which is the contract the seating workspace relies on. A
// duplicate-key violation on the (course_id, gender, seat_label) unique key
// surfaces as ErrSeatTaken.
func (r *ParticipantRepo) UpdateSeat(ctx context.Context, publicID string, seatLabel sql.NullString, locked bool) error {
	const q = `UPDATE participants
	           SET seat_label = ?, seat_locked = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE public_id = ?`
	res, err := r.db.ExecContext(ctx, q, seatLabel, locked, publicID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero when the row already holds these exact
		// values; distinguish a genuinely missing participant.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM participants WHERE public_id = ?)`, publicID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrParticipantNotFound
		}
	}
	return nil
}

// SetLocked toggles only the lock flag, leaving the seat label untouched.
func (r *ParticipantRepo) SetLocked(ctx context.Context, publicID string, locked bool) error {
	const q = `UPDATE participants SET seat_locked = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE public_id = ?`
	res, err := r.db.ExecContext(ctx, q, locked, publicID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// SetArrived stamps the gate arrival time once; repeated calls keep the
// first timestamp.
func (r *ParticipantRepo) SetArrived(ctx context.Context, publicID string) (time.Time, error) {
	const q = `UPDATE participants SET arrived_at = COALESCE(arrived_at, UTC_TIMESTAMP()),
	           updated_at = CURRENT_TIMESTAMP
	           WHERE public_id = ?`
	if _, err := r.db.ExecContext(ctx, q, publicID); err != nil {
		return time.Time{}, err
	}
	var arrived sql.NullTime
	if err := r.db.QueryRowContext(ctx,
		`SELECT arrived_at FROM participants WHERE public_id = ?`, publicID).Scan(&arrived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrParticipantNotFound
		}
		return time.Time{}, err
	}
	return arrived.Time, nil
}

// Delete removes a participant record. A participant who has checked in at
// the gate is part of the course's audit trail and cannot be deleted, only
// cancelled; attempting it returns ErrForbidden.
func (r *ParticipantRepo) Delete(ctx context.Context, publicID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM participants WHERE public_id = ? AND arrived_at IS NULL`, publicID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM participants WHERE public_id = ?)`, publicID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrForbidden
		}
		return ErrParticipantNotFound
	}
	return nil
}
