package repository

import (
	"context"
	"database/sql"
	"time"
)

// Purchase is one line of the small-purchase ledger kept per participant
// during a course (soap, laundry tokens, books). Settled at departure.
type Purchase struct {
	ID            uint64    `json:"id"`
	ParticipantID uint64    `json:"-"`
	Item          string    `json:"item"`
	AmountCents   uint32    `json:"amount_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// PurchaseRepo provides methods to work with the purchase ledger.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo constructs a PurchaseRepo with the given DB handle.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// Create appends a ledger line. On success the purchase's ID is populated.
func (r *PurchaseRepo) Create(ctx context.Context, p *Purchase) error {
	const q = `INSERT INTO purchases (participant_id, item, amount_cents) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ParticipantID, p.Item, p.AmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListByParticipant retrieves a participant's ledger, oldest first.
func (r *PurchaseRepo) ListByParticipant(ctx context.Context, participantID uint64) ([]Purchase, error) {
	const q = `SELECT id, participant_id, item, amount_cents, created_at
	           FROM purchases WHERE participant_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.ParticipantID, &p.Item, &p.AmountCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TotalByParticipant sums the outstanding ledger in cents.
func (r *PurchaseRepo) TotalByParticipant(ctx context.Context, participantID uint64) (uint64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents), 0) FROM purchases WHERE participant_id = ?`
	var total uint64
	if err := r.db.QueryRowContext(ctx, q, participantID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
