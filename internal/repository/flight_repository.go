package repository // repository defines data access for flights

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/skyfare/flight-reservation/internal/model"
)

// ErrFlightNotFound is returned when a flight lookup yields no rows.
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepo provides methods to work with flights in the database.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// DB exposes the underlying handle so services can open transactions that
// span multiple repositories.
func (r *FlightRepo) DB() *sql.DB { return r.db }

// flightColumns is the scan list shared by single-row and list queries.
const flightColumns = `f.id, f.flight_number, f.aircraft_id, f.departure_airport_id, f.arrival_airport_id,
       f.departure_time, f.arrival_time, f.base_fare_cents, f.is_deleted, f.created_at, f.updated_at`

// Create inserts a flight record. On success the ID is populated.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights
	           (flight_number, aircraft_id, departure_airport_id, arrival_airport_id, departure_time, arrival_time, base_fare_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightNumber, f.AircraftID, f.DepartureAirportID, f.ArrivalAirportID,
		f.DepartureTime, f.ArrivalTime, f.BaseFareCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID retrieves a flight by its id. Soft-deleted flights are excluded
// unless includeDeleted is set; owners of existing bookings and admins still
// resolve them that way.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.Flight, error) {
	q := `SELECT ` + flightColumns + ` FROM flights f WHERE f.id = ?`
	if !includeDeleted {
		q += ` AND f.is_deleted = 0`
	}
	var f model.Flight
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.FlightNumber, &f.AircraftID, &f.DepartureAirportID, &f.ArrivalAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.BaseFareCents, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FlightDetail is a flight joined with airport names/codes and the operating
// aircraft's declared capacity, the shape the browsing API returns.
type FlightDetail struct {
	ID               uint64    `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	AircraftID       uint64    `json:"aircraft_id"`
	DepartureAirport string    `json:"departure_airport"`
	DepartureCode    string    `json:"departure_code"`
	ArrivalAirport   string    `json:"arrival_airport"`
	ArrivalCode      string    `json:"arrival_code"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	BaseFareCents    uint32    `json:"base_fare_cents"`
	TotalSeats       uint32    `json:"total_seats"`
}

const flightDetailQuery = `SELECT f.id, f.flight_number, f.aircraft_id,
       a1.name, a1.code, a2.name, a2.code,
       f.departure_time, f.arrival_time, f.base_fare_cents, ac.total_seats
FROM flights f
JOIN airports a1 ON a1.id = f.departure_airport_id
JOIN airports a2 ON a2.id = f.arrival_airport_id
JOIN aircrafts ac ON ac.id = f.aircraft_id`

func scanFlightDetail(row interface{ Scan(...interface{}) error }, d *FlightDetail) error {
	return row.Scan(
		&d.ID, &d.FlightNumber, &d.AircraftID,
		&d.DepartureAirport, &d.DepartureCode, &d.ArrivalAirport, &d.ArrivalCode,
		&d.DepartureTime, &d.ArrivalTime, &d.BaseFareCents, &d.TotalSeats)
}

// GetDetail returns one flight with airport and capacity details.
func (r *FlightRepo) GetDetail(ctx context.Context, id uint64, includeDeleted bool) (*FlightDetail, error) {
	q := flightDetailQuery + ` WHERE f.id = ?`
	if !includeDeleted {
		q += ` AND f.is_deleted = 0`
	}
	var d FlightDetail
	if err := scanFlightDetail(r.db.QueryRowContext(ctx, q, id), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FlightFilter narrows List results. Zero values mean "no constraint".
// Page is 1-based; Limit is clamped to 200 by the repository.
type FlightFilter struct {
	AirportID      uint64    // matches either endpoint of the flight
	Date           string    // departure date, "2006-01-02"
	MinFareCents   uint32
	MaxFareCents   uint32
	IncludeDeleted bool
	Page           int
	Limit          int
}

// List returns flights matching the filter plus the total count before
// pagination.
func (r *FlightRepo) List(ctx context.Context, filter FlightFilter) (int, []FlightDetail, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if filter.AirportID != 0 {
		where = append(where, "(f.departure_airport_id = ? OR f.arrival_airport_id = ?)")
		args = append(args, filter.AirportID, filter.AirportID)
	}
	if filter.Date != "" {
		where = append(where, "DATE(f.departure_time) = ?")
		args = append(args, filter.Date)
	}
	if filter.MinFareCents != 0 {
		where = append(where, "f.base_fare_cents >= ?")
		args = append(args, filter.MinFareCents)
	}
	if filter.MaxFareCents != 0 {
		where = append(where, "f.base_fare_cents <= ?")
		args = append(args, filter.MaxFareCents)
	}
	if !filter.IncludeDeleted {
		where = append(where, "f.is_deleted = 0")
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQ := `SELECT COUNT(*) FROM flights f` + whereSQL
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return 0, nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	offset := (page - 1) * limit

	q := flightDetailQuery + whereSQL + ` ORDER BY f.departure_time ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	details := make([]FlightDetail, 0, limit)
	for rows.Next() {
		var d FlightDetail
		if err := scanFlightDetail(rows, &d); err != nil {
			return 0, nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	return total, details, nil
}

// ListUpcoming returns non-deleted flights departing within the next seven
// days, soonest first.
func (r *FlightRepo) ListUpcoming(ctx context.Context) ([]FlightDetail, error) {
	q := flightDetailQuery + `
WHERE f.departure_time BETWEEN NOW() AND DATE_ADD(NOW(), INTERVAL 7 DAY)
  AND f.is_deleted = 0
ORDER BY f.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []FlightDetail
	for rows.Next() {
		var d FlightDetail
		if err := scanFlightDetail(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// FlightPatch enumerates the fields an admin may change on a flight. Nil
// means "leave unchanged". This replaces free-form patch objects so no other
// column can be smuggled into an update.
type FlightPatch struct {
	FlightNumber       *string
	AircraftID         *uint64
	DepartureAirportID *uint64
	ArrivalAirportID   *uint64
	DepartureTime      *time.Time
	ArrivalTime        *time.Time
	BaseFareCents      *uint32
}

// Empty reports whether the patch changes nothing.
func (p FlightPatch) Empty() bool {
	return p.FlightNumber == nil && p.AircraftID == nil &&
		p.DepartureAirportID == nil && p.ArrivalAirportID == nil &&
		p.DepartureTime == nil && p.ArrivalTime == nil && p.BaseFareCents == nil
}

// Update applies a patch to a flight. Returns ErrFlightNotFound when no row
// matches. Capacity checks on aircraft changes belong to the service layer.
func (r *FlightRepo) Update(ctx context.Context, id uint64, patch FlightPatch) error {
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if patch.FlightNumber != nil {
		sets = append(sets, "flight_number = ?")
		args = append(args, *patch.FlightNumber)
	}
	if patch.AircraftID != nil {
		sets = append(sets, "aircraft_id = ?")
		args = append(args, *patch.AircraftID)
	}
	if patch.DepartureAirportID != nil {
		sets = append(sets, "departure_airport_id = ?")
		args = append(args, *patch.DepartureAirportID)
	}
	if patch.ArrivalAirportID != nil {
		sets = append(sets, "arrival_airport_id = ?")
		args = append(args, *patch.ArrivalAirportID)
	}
	if patch.DepartureTime != nil {
		sets = append(sets, "departure_time = ?")
		args = append(args, *patch.DepartureTime)
	}
	if patch.ArrivalTime != nil {
		sets = append(sets, "arrival_time = ?")
		args = append(args, *patch.ArrivalTime)
	}
	if patch.BaseFareCents != nil {
		sets = append(sets, "base_fare_cents = ?")
		args = append(args, *patch.BaseFareCents)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	q := `UPDATE flights SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// SoftDelete flags a flight as deleted without removing rows.
func (r *FlightRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE flights SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// HardDelete removes the flight row entirely. Flights referenced by bookings
// cannot be hard-deleted; the FK rejection surfaces as ErrConflict.
func (r *FlightRepo) HardDelete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM flights WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// LockForBookingTx locks the flight row for the duration of the transaction
// and returns its aircraft id. Bookings on the same flight serialise on this
// lock, which is what makes the in-transaction seat availability check
// race-free. Soft-deleted flights are not bookable.
func (r *FlightRepo) LockForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (uint64, error) {
	const q = `SELECT aircraft_id FROM flights WHERE id = ? AND is_deleted = 0 FOR UPDATE`
	var aircraftID uint64
	if err := tx.QueryRowContext(ctx, q, id).Scan(&aircraftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrFlightNotFound
		}
		return 0, err
	}
	return aircraftID, nil
}
