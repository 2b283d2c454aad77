package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skyfare/flight-reservation/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database. Seats are
// written once, in bulk, by the seat map generator; every other method is a
// read. Availability is derived from booking_passengers joined against
// active bookings, never stored on the seat row.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CountByAircraft returns how many seats exist for an aircraft.
func (r *SeatRepo) CountByAircraft(ctx context.Context, aircraftID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE aircraft_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, aircraftID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBulk inserts multiple seats in a single statement. The unique key on
// (aircraft_id, seat_number) makes concurrent generation safe: the losing
// insert fails as a duplicate entry and the caller re-reads.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (aircraft_id, seat_number, seat_class) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, seat.AircraftID, seat.SeatNumber, seat.SeatClass)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByAircraft retrieves all seats of an aircraft ordered by id, which is
// also generation order (row-major).
func (r *SeatRepo) GetByAircraft(ctx context.Context, aircraftID uint64) ([]model.Seat, error) {
	const q = `SELECT id, aircraft_id, seat_number, seat_class, created_at
	           FROM seats
	           WHERE aircraft_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AircraftID, &s.SeatNumber, &s.SeatClass, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, aircraft_id, seat_number, seat_class, created_at FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.AircraftID, &s.SeatNumber, &s.SeatClass, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// BookedSeatIDs returns the set of seat ids occupied by passengers of active
// (status = 'booked') bookings on the given flight.
func (r *SeatRepo) BookedSeatIDs(ctx context.Context, flightID uint64) (map[uint64]struct{}, error) {
	const q = `SELECT bp.seat_id
	           FROM booking_passengers bp
	           JOIN bookings b ON b.id = bp.booking_id
	           WHERE b.flight_id = ? AND b.status = 'booked' AND bp.seat_id IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// BookedAmongTx returns which of the given seat ids are already occupied by
// an active booking on the flight. It runs inside the booking transaction,
// after the flight row has been locked, so the answer cannot be invalidated
// by a concurrent booking before commit.
func (r *SeatRepo) BookedAmongTx(ctx context.Context, tx *sql.Tx, flightID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, flightID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT bp.seat_id
	          FROM booking_passengers bp
	          JOIN bookings b ON b.id = bp.booking_id
	          WHERE b.flight_id = ? AND b.status = 'booked'
	            AND bp.seat_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taken []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// CountOwnedByAircraftTx counts how many of the given seat ids belong to the
// aircraft. A count smaller than len(seatIDs) means a stale or foreign seat
// id was requested.
func (r *SeatRepo) CountOwnedByAircraftTx(ctx context.Context, tx *sql.Tx, aircraftID uint64, seatIDs []uint64) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, aircraftID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT COUNT(*) FROM seats WHERE aircraft_id = ? AND id IN (` +
		strings.Join(placeholders, ",") + `)`
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
