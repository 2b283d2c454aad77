package repository // repository defines data access for payments

import (
	"context"
	"database/sql"

	"github.com/skyfare/flight-reservation/internal/model"
)

// PaymentRepo records payments against bookings. There is no gateway
// round-trip here; a payment row is a status-flag write made after the
// booking transaction has committed.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create inserts a payment row with status 'success' and reads it back to
// populate DB-side defaults.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, method, status) VALUES (?, ?, ?, 'success')`
	res, err := r.db.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Method)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT status, payment_time FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.Status, &p.PaymentTime)
}

// ListByBooking returns all payments recorded for a booking.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, method, status, payment_time
	           FROM payments WHERE booking_id = ? ORDER BY payment_time`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.Status, &p.PaymentTime); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
