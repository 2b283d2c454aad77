package repository // repository defines data access for airports

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skyfare/flight-reservation/internal/model"
)

// ErrAirportNotFound is returned when an airport lookup yields no rows.
var ErrAirportNotFound = errors.New("airport not found")

// AirportRepo provides methods to work with airports in the database.
type AirportRepo struct {
	db *sql.DB
}

// NewAirportRepo constructs an AirportRepo with the given DB handle.
func NewAirportRepo(db *sql.DB) *AirportRepo {
	return &AirportRepo{db: db}
}

// Create inserts an airport record. On success the ID is populated.
func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
	const q = `INSERT INTO airports (name, code, city, country) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Code, a.City, a.Country)
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

// GetByID retrieves an airport by its id.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (*model.Airport, error) {
	const q = `SELECT id, name, code, city, country, created_at FROM airports WHERE id = ?`
	var a model.Airport
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Name, &a.Code, &a.City, &a.Country, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns every airport ordered by code.
func (r *AirportRepo) ListAll(ctx context.Context) ([]model.Airport, error) {
	const q = `SELECT id, name, code, city, country, created_at FROM airports ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Airport
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.City, &a.Country, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces the mutable fields of an airport.
func (r *AirportRepo) Update(ctx context.Context, id uint64, name, code, city, country string) error {
	const q = `UPDATE airports SET name = ?, code = ?, city = ?, country = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, code, city, country, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirportNotFound
	}
	return nil
}

// Delete removes an airport.
func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM airports WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirportNotFound
	}
	return nil
}
