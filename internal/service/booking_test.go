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
	lockFlightQ       = `SELECT aircraft_id FROM flights WHERE id = ? AND is_deleted = 0 FOR UPDATE`
	countOwnedQ       = `SELECT COUNT(*) FROM seats WHERE aircraft_id = ? AND id IN `
	insertBookingQ    = `INSERT INTO bookings (user_id, flight_id, booking_reference) VALUES (?, ?, ?)`
	selectBookingQ    = `SELECT status, booking_time FROM bookings WHERE id = ?`
	insertPassengersQ = `INSERT INTO booking_passengers (booking_id, name, age, gender, seat_id) VALUES `
	getBookingQ       = `SELECT id, user_id, flight_id, booking_reference, status, booking_time`
	updateStatusQ     = `UPDATE bookings SET status = ? WHERE id = ?`
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingService(
		db,
		repository.NewFlightRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
	), mock
}

func seatID(id uint64) *uint64 { return &id }

func TestValidatePassengersRejectsEmptyList(t *testing.T) {
	_, err := validatePassengers(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "at least one passenger")
}

func TestValidatePassengersRejectsBlankName(t *testing.T) {
	_, err := validatePassengers([]PassengerInput{{Name: "   "}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "name")
}

func TestValidatePassengersRejectsZeroSeatID(t *testing.T) {
	_, err := validatePassengers([]PassengerInput{{Name: "Ada", SeatID: seatID(0)}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidatePassengersRejectsDuplicateSeatInRequest(t *testing.T) {
	_, err := validatePassengers([]PassengerInput{
		{Name: "Ada", SeatID: seatID(5)},
		{Name: "Grace", SeatID: seatID(5)},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "same seat")
}

func TestValidatePassengersCollectsRequestedSeats(t *testing.T) {
	requested, err := validatePassengers([]PassengerInput{
		{Name: "Ada", SeatID: seatID(5)},
		{Name: "Grace"}, // seat assignment is optional
		{Name: "Edsger", SeatID: seatID(9)},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 9}, requested)
}

func TestMapGender(t *testing.T) {
	m := mapGender("Male")
	require.NotNil(t, m)
	assert.Equal(t, "M", *m)

	f := mapGender("Female")
	require.NotNil(t, f)
	assert.Equal(t, "F", *f)

	o := mapGender("Other")
	require.NotNil(t, o)
	assert.Equal(t, "O", *o)

	assert.Nil(t, mapGender("male"), "vocabulary is case-sensitive")
	assert.Nil(t, mapGender(""))
	assert.Nil(t, mapGender("unknown"))
}

func TestCreateBookingCommitsBookingAndPassengers(t *testing.T) {
	svc, mock := newBookingService(t)
	age := uint32(34)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(countOwnedQ)).
		WithArgs(uint64(7), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(bookedSeatsQ)).
		WithArgs(uint64(42), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectBookingQ)).
		WithArgs(uint64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "booking_time"}).AddRow("booked", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(insertPassengersQ)).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	booking, err := svc.Create(context.Background(), 9, 42, []PassengerInput{
		{Name: "Ada Lovelace", Age: &age, Gender: "Female", SeatID: seatID(11)},
		{Name: "Grace Hopper", Gender: "Female", SeatID: seatID(12)},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(55), booking.ID)
	assert.Equal(t, "booked", booking.Status)
	assert.Regexp(t, `^BR[0-9A-Z]+$`, booking.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// sqlmock cannot model two transactions contending for the flight row lock;
// that interleaving only shows up against a real server. What this covers is
// the in-transaction conflict check that the lock serialises.
func TestCreateBookingSeatConflict(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(countOwnedQ)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(bookedSeatsQ)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(12))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 42, []PassengerInput{
		{Name: "Ada", SeatID: seatID(11)},
		{Name: "Grace", SeatID: seatID(12)},
	})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{12}, conflict.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsForeignSeat(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(countOwnedQ)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 42, []PassengerInput{
		{Name: "Ada", SeatID: seatID(11)},
		{Name: "Grace", SeatID: seatID(9999)}, // seat of a different aircraft
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownFlight(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 404, []PassengerInput{{Name: "Ada"}})
	assert.ErrorIs(t, err, repository.ErrFlightNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRollsBackWhenPassengerInsertFails(t *testing.T) {
	svc, mock := newBookingService(t)
	boom := errors.New("connection lost")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectBookingQ)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "booking_time"}).AddRow("booked", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(insertPassengersQ)).
		WillReturnError(boom)
	mock.ExpectRollback()

	// No seat ids requested, so the availability queries are skipped.
	_, err := svc.Create(context.Background(), 9, 42, []PassengerInput{{Name: "Ada"}})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet(), "the transaction must roll back, leaving no partial booking")
}

func TestCreateBookingRetriesOnReferenceCollision(t *testing.T) {
	svc, mock := newBookingService(t)
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'booking_reference'"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnError(dup)
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnResult(sqlmock.NewResult(56, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectBookingQ)).
		WithArgs(uint64(56)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "booking_time"}).AddRow("booked", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(insertPassengersQ)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking, err := svc.Create(context.Background(), 9, 42, []PassengerInput{{Name: "Ada"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(56), booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingGivesUpAfterSecondReferenceCollision(t *testing.T) {
	svc, mock := newBookingService(t)
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'booking_reference'"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockFlightQ)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnError(dup)
	mock.ExpectExec(regexp.QuoteMeta(insertBookingQ)).
		WillReturnError(dup)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 9, 42, []PassengerInput{{Name: "Ada"}})
	assert.ErrorIs(t, err, dup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingByOwner(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getBookingQ)).
		WithArgs(uint64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "flight_id", "booking_reference", "status", "booking_time"}).
			AddRow(55, 9, 42, "BRTEST01", "booked", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(updateStatusQ)).
		WithArgs("cancelled", uint64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Cancel(context.Background(), 9, 55))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRejectsNonOwner(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getBookingQ)).
		WithArgs(uint64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "flight_id", "booking_reference", "status", "booking_time"}).
			AddRow(55, 9, 42, "BRTEST01", "booked", time.Now()))

	err := svc.Cancel(context.Background(), 1000, 55)
	assert.ErrorIs(t, err, ErrNotBookingOwner)
	assert.NoError(t, mock.ExpectationsWereMet(), "no status update may run for a non-owner")
}

func TestCancelBookingUnknownID(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(regexp.QuoteMeta(getBookingQ)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Cancel(context.Background(), 9, 404)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}
