package repository // repository defines data access for aircraft

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skyfare/flight-reservation/internal/model"
)

// ErrAircraftNotFound is returned when an aircraft lookup yields no rows.
var ErrAircraftNotFound = errors.New("aircraft not found")

// AircraftRepo provides methods to work with aircraft in the database.
type AircraftRepo struct {
	db *sql.DB
}

// NewAircraftRepo constructs an AircraftRepo with the given DB handle.
func NewAircraftRepo(db *sql.DB) *AircraftRepo {
	return &AircraftRepo{db: db}
}

// Create inserts an aircraft record. On success the ID is populated.
func (r *AircraftRepo) Create(ctx context.Context, a *model.Aircraft) error {
	const q = `INSERT INTO aircrafts (model, total_seats) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Model, a.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an aircraft by its id.
func (r *AircraftRepo) GetByID(ctx context.Context, id uint64) (*model.Aircraft, error) {
	const q = `SELECT id, model, total_seats, created_at, updated_at FROM aircrafts WHERE id = ?`
	var a model.Aircraft
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Model, &a.TotalSeats, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns every aircraft ordered by id.
func (r *AircraftRepo) ListAll(ctx context.Context) ([]model.Aircraft, error) {
	const q = `SELECT id, model, total_seats, created_at, updated_at FROM aircrafts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Aircraft
	for rows.Next() {
		var a model.Aircraft
		if err := rows.Scan(&a.ID, &a.Model, &a.TotalSeats, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update changes the model and declared capacity of an aircraft. Existing
// seats are not regenerated by a capacity edit. Returns ErrAircraftNotFound
// when no row matches.
func (r *AircraftRepo) Update(ctx context.Context, id uint64, aircraftModel string, totalSeats uint32) error {
	const q = `UPDATE aircrafts SET model = ?, total_seats = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, aircraftModel, totalSeats, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}

// Delete removes an aircraft. The FK from flights is restrictive, so the
// driver reports a constraint error when flights still reference it; callers
// should surface that as a conflict.
func (r *AircraftRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM aircrafts WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}
