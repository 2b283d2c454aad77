package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
)

const (
	getFlightAnyQ         = `FROM flights f WHERE f.id = ?`
	insertFlightQ         = `INSERT INTO flights`
	countPassengersQ      = `FROM booking_passengers bp`
	updateFlightAircraftQ = `UPDATE flights SET aircraft_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
)

func newFlightService(t *testing.T) (*FlightService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	flights := repository.NewFlightRepo(db)
	aircraft := repository.NewAircraftRepo(db)
	bookings := repository.NewBookingRepo(db)
	seatmap := NewSeatService(aircraft, flights, repository.NewSeatRepo(db))
	return NewFlightService(flights, aircraft, bookings, seatmap), mock
}

func craftID(id uint64) *uint64 { return &id }

func TestCreateFlightGeneratesSeatMap(t *testing.T) {
	svc, mock := newFlightService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(7)).
		WillReturnRows(aircraftRows(7, 4))
	mock.ExpectExec(regexp.QuoteMeta(insertFlightQ)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	// lazy generation kicks in right after the insert
	mock.ExpectQuery(regexp.QuoteMeta(countSeatsQ)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(7)).
		WillReturnRows(aircraftRows(7, 4))
	mock.ExpectExec(regexp.QuoteMeta(insertSeatsQ)).
		WillReturnResult(sqlmock.NewResult(1, 4))

	now := time.Now()
	flight := &model.Flight{
		FlightNumber:       "SF101",
		AircraftID:         7,
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureTime:      now.Add(24 * time.Hour),
		ArrivalTime:        now.Add(26 * time.Hour),
		BaseFareCents:      19900,
	}
	require.NoError(t, svc.Create(context.Background(), flight))
	assert.Equal(t, uint64(42), flight.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFlightUnknownAircraft(t *testing.T) {
	svc, mock := newFlightService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Create(context.Background(), &model.Flight{FlightNumber: "SF101", AircraftID: 404})
	assert.ErrorIs(t, err, repository.ErrAircraftNotFound)
}

func TestUpdateRejectsAircraftSmallerThanBookedPassengers(t *testing.T) {
	svc, mock := newFlightService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))
	mock.ExpectQuery(regexp.QuoteMeta(countPassengersQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(8)).
		WillReturnRows(aircraftRows(8, 40))

	_, err := svc.Update(context.Background(), 42, repository.FlightPatch{AircraftID: craftID(8)})
	var capErr *CapacityViolationError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 40, capErr.Capacity)
	assert.Equal(t, 50, capErr.Booked)
	assert.NoError(t, mock.ExpectationsWereMet(), "no update may run once the guard trips")
}

func TestUpdateAllowsAircraftWithEnoughCapacity(t *testing.T) {
	svc, mock := newFlightService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))
	mock.ExpectQuery(regexp.QuoteMeta(countPassengersQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(8)).
		WillReturnRows(aircraftRows(8, 60))
	mock.ExpectExec(regexp.QuoteMeta(updateFlightAircraftQ)).
		WithArgs(uint64(8), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 8))

	flight, err := svc.Update(context.Background(), 42, repository.FlightPatch{AircraftID: craftID(8)})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), flight.AircraftID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEqualCapacityPasses(t *testing.T) {
	svc, mock := newFlightService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))
	mock.ExpectQuery(regexp.QuoteMeta(countPassengersQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))
	mock.ExpectQuery(regexp.QuoteMeta(getAircraftQ)).
		WithArgs(uint64(8)).
		WillReturnRows(aircraftRows(8, 50))
	mock.ExpectExec(regexp.QuoteMeta(updateFlightAircraftQ)).
		WithArgs(uint64(8), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 8))

	_, err := svc.Update(context.Background(), 42, repository.FlightPatch{AircraftID: craftID(8)})
	assert.NoError(t, err, "exactly-full aircraft must be accepted")
}

func TestUpdateWithoutAircraftChangeSkipsGuard(t *testing.T) {
	svc, mock := newFlightService(t)
	fare := uint32(24900)

	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))
	mock.ExpectExec(`UPDATE flights SET base_fare_cents = \?`).
		WithArgs(fare, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(getFlightAnyQ)).
		WithArgs(uint64(42)).
		WillReturnRows(flightRow(42, 7))

	_, err := svc.Update(context.Background(), 42, repository.FlightPatch{BaseFareCents: &fare})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
