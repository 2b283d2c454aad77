package repository // repository defines data access for bookings and their passengers

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/skyfare/flight-reservation/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for bookings and booking_passengers.
// A booking groups one or more passenger rows created in the same
// transaction; passenger rows are never updated after creation.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within an existing transaction. It populates
// the generated ID, status and booking time on the provided record. The
// caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, flight_id, booking_reference) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.FlightID, b.Reference)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to populate DB-side defaults.
	const sel = `SELECT status, booking_time FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.Status, &b.CreatedAt)
}

// CreatePassengersBulkTx inserts all passenger rows of a booking in a single
// statement within the provided transaction. Passing an empty slice has no
// effect and returns nil.
func (r *BookingRepo) CreatePassengersBulkTx(ctx context.Context, tx *sql.Tx, passengers []model.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	query := `INSERT INTO booking_passengers (booking_id, name, age, gender, seat_id) VALUES `
	args := make([]interface{}, 0, len(passengers)*5)
	for i, p := range passengers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, p.BookingID, p.Name, p.Age, p.Gender, p.SeatID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a booking by its id regardless of owner. Callers enforce
// ownership.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, flight_id, booking_reference, status, booking_time
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.UserID, &b.FlightID, &b.Reference, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus transitions a booking to the given status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CountActivePassengers counts the passenger rows of active (status =
// 'booked') bookings on a flight. The capacity guard compares this number
// against a proposed aircraft's declared capacity.
func (r *BookingRepo) CountActivePassengers(ctx context.Context, flightID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM booking_passengers bp
	           JOIN bookings b ON b.id = bp.booking_id
	           WHERE b.flight_id = ? AND b.status = 'booked'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, flightID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// PassengerDetail is a passenger row joined with its seat number for display.
type PassengerDetail struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Age        *uint32 `json:"age,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	SeatID     *uint64 `json:"seat_id,omitempty"`
	SeatNumber *string `json:"seat_number,omitempty"`
}

// BookingDetail is a booking with its passenger rows, as returned to the
// booking owner.
type BookingDetail struct {
	ID          uint64            `json:"id"`
	Reference   string            `json:"booking_reference"`
	FlightID    uint64            `json:"flight_id"`
	Status      string            `json:"status"`
	BookingTime time.Time         `json:"booking_time"`
	Passengers  []PassengerDetail `json:"passengers"`
}

// ListByUser returns all bookings of a user, newest first, with passengers
// populated through a single IN(...) query.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT id, booking_reference, flight_id, status, booking_time
	           FROM bookings
	           WHERE user_id = ?
	           ORDER BY booking_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.Reference, &d.FlightID, &d.Status, &d.BookingTime); err != nil {
			return nil, err
		}
		d.Passengers = []PassengerDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	passQ := `SELECT bp.booking_id, bp.id, bp.name, bp.age, bp.gender, bp.seat_id, s.seat_number
	          FROM booking_passengers bp
	          LEFT JOIN seats s ON s.id = bp.seat_id
	          WHERE bp.booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY bp.booking_id, bp.id`
	prows, err := r.db.QueryContext(ctx, passQ, ids...)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var bookingID uint64
		var p PassengerDetail
		var age sql.NullInt32
		var gender, seatNumber sql.NullString
		var seatID sql.NullInt64
		if err := prows.Scan(&bookingID, &p.ID, &p.Name, &age, &gender, &seatID, &seatNumber); err != nil {
			return nil, err
		}
		if age.Valid {
			v := uint32(age.Int32)
			p.Age = &v
		}
		if gender.Valid {
			g := gender.String
			p.Gender = &g
		}
		if seatID.Valid {
			sid := uint64(seatID.Int64)
			p.SeatID = &sid
		}
		if seatNumber.Valid {
			sn := seatNumber.String
			p.SeatNumber = &sn
		}
		idx, ok := index[bookingID]
		if !ok {
			continue
		}
		details[idx].Passengers = append(details[idx].Passengers, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
