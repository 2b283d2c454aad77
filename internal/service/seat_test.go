package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/flight-reservation/internal/repository"
)

const (
	countSeatsQ  = `SELECT COUNT(*) FROM seats WHERE aircraft_id = ?`
	getAircraftQ = `SELECT id, model, total_seats, created_at, updated_at FROM aircrafts WHERE id = ?`
	insertSeatsQ = `INSERT INTO seats (aircraft_id, seat_number, seat_class) VALUES `
	getFlightQ   = `FROM flights f WHERE f.id = ? AND f.is_deleted = 0`
	bookedSeatsQ = `SELECT bp.seat_id`
)

func newSeatService(t *testing.T) (*SeatService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatService(
		repository.NewAircraftRepo(db),
		repository.NewFlightRepo(db),
		repository.NewSeatRepo(db),
	), mock
}

func aircraftRows(id uint64, seats uint32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "model", "total_seats", "created_at", "updated_at"}).
		AddRow(id, "A320", seats, now, now)
}

func TestSeatNumbersRowMajorLayout(t *testing.T) {
	got := seatNumbers(10)
	want := []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D", "3A", "3B"}
	assert.Equal(t, want, got)
}

func TestSeatNumbersExactMultipleOfRow(t *testing.T) {
	got := seatNumbers(8)
	assert.Len(t, got, 8)
	assert.Equal(t, "2D", got[7])
}

func TestSeatNumbersZero(t *testing.T) {
	assert.Empty(t, seatNumbers(0))
}

func TestEnsureSeatMapSkipsWhenSeatsExist(t *testing.T) {
	svc, mock := newSeatService(t)

	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(180))

	require.NoError(t, svc.EnsureSeatMap(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSeatMapGeneratesFullCabin(t *testing.T) {
	svc, mock := newSeatService(t)

	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(7)).
		WillReturnRows(aircraftRows(7, 6))
	mock.ExpectExec(regexp.QuoteMeta(insertSeatsQ)).
		WithArgs(
			uint64(7), "1A", "economy",
			uint64(7), "1B", "economy",
			uint64(7), "1C", "economy",
			uint64(7), "1D", "economy",
			uint64(7), "2A", "economy",
			uint64(7), "2B", "economy",
		).
		WillReturnResult(sqlmock.NewResult(1, 6))

	require.NoError(t, svc.EnsureSeatMap(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSeatMapZeroCapacityIsNoop(t *testing.T) {
	svc, mock := newSeatService(t)

	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(3)).
		WillReturnRows(aircraftRows(3, 0))

	require.NoError(t, svc.EnsureSeatMap(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSeatMapSwallowsConcurrentDuplicate(t *testing.T) {
	svc, mock := newSeatService(t)

	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(7)).
		WillReturnRows(aircraftRows(7, 4))
	mock.ExpectExec(regexp.QuoteMeta(insertSeatsQ)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-1A' for key 'uniq_aircraft_seat'"})

	// Another caller generated the map first; this is success, not failure.
	require.NoError(t, svc.EnsureSeatMap(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSeatMapPropagatesOtherInsertErrors(t *testing.T) {
	svc, mock := newSeatService(t)

	boom := errors.New("connection lost")
	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(7)).
		WillReturnRows(aircraftRows(7, 4))
	mock.ExpectExec(regexp.QuoteMeta(insertSeatsQ)).
		WillReturnError(boom)

	err := svc.EnsureSeatMap(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}

func flightRow(id, aircraftID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "flight_number", "aircraft_id", "departure_airport_id", "arrival_airport_id",
		"departure_time", "arrival_time", "base_fare_cents", "is_deleted", "created_at", "updated_at",
	}).AddRow(id, "SF101", aircraftID, 1, 2, now.Add(24*time.Hour), now.Add(26*time.Hour), 19900, false, now, now)
}

func TestSeatsForFlightAnnotatesAvailability(t *testing.T) {
	svc, mock := newSeatService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(getFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))
	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, aircraft_id, seat_number, seat_class, created_at`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aircraft_id", "seat_number", "seat_class", "created_at"}).
			AddRow(11, 7, "1A", "economy", now).
			AddRow(12, 7, "1B", "economy", now).
			AddRow(13, 7, "1C", "economy", now))
	mock.ExpectQuery(regexp.QuoteMeta(bookedSeatsQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(12))

	seats, err := svc.SeatsForFlight(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, seats, 3)

	assert.Equal(t, "1A", seats[0].SeatNumber)
	assert.True(t, seats[0].Available)
	assert.Equal(t, "1B", seats[1].SeatNumber)
	assert.False(t, seats[1].Available, "seat held by an active booking must not be available")
	assert.True(t, seats[2].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatsForFlightUnknownFlight(t *testing.T) {
	svc, mock := newSeatService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getFlightQ)).
		WithArgs(uint64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.SeatsForFlight(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrFlightNotFound)
}
