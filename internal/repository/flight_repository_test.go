package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlightRepo(t *testing.T) (*FlightRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFlightRepo(db), mock
}

func TestFlightUpdateBuildsOnlyPatchedColumns(t *testing.T) {
	repo, mock := newFlightRepo(t)

	number := "SF202"
	fare := uint32(14900)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE flights SET flight_number = ?, base_fare_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)).
		WithArgs(number, fare, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 42, FlightPatch{FlightNumber: &number, BaseFareCents: &fare})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightUpdateEmptyPatchTouchesNothing(t *testing.T) {
	repo, mock := newFlightRepo(t)

	err := repo.Update(context.Background(), 42, FlightPatch{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightUpdateUnknownID(t *testing.T) {
	repo, mock := newFlightRepo(t)

	number := "SF202"
	mock.ExpectExec(`UPDATE flights SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 404, FlightPatch{FlightNumber: &number})
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightGetByIDExcludesSoftDeleted(t *testing.T) {
	repo, mock := newFlightRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE f.id = ? AND f.is_deleted = 0`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 42, false)
	assert.ErrorIs(t, err, ErrFlightNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightSoftDeleteUnknownID(t *testing.T) {
	repo, mock := newFlightRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE flights SET is_deleted = 1`)).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestFlightHardDeleteReportsConflictOnFK(t *testing.T) {
	repo, mock := newFlightRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM flights WHERE id = ?`)).
		WithArgs(uint64(42)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "a foreign key constraint fails"})

	err := repo.HardDelete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLockForBookingRejectsSoftDeletedFlight(t *testing.T) {
	repo, mock := newFlightRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT aircraft_id FROM flights WHERE id = ? AND is_deleted = 0 FOR UPDATE`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"aircraft_id"}))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.LockForBookingTx(context.Background(), tx, 42)
	assert.ErrorIs(t, err, ErrFlightNotFound)
}
