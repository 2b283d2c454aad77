package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
)

// PassengerInput is one passenger descriptor in a booking request. Gender
// uses the external vocabulary ("Male", "Female", "Other", case-sensitive);
// anything else is stored as NULL. SeatID is optional.
type PassengerInput struct {
	Name   string  `json:"name"`
	Age    *uint32 `json:"age"`
	Gender string  `json:"gender"`
	SeatID *uint64 `json:"seat_id"`
}

// BookingService creates and cancels bookings. Creation is all-or-nothing:
// the booking row and every passenger row commit together or not at all, and
// the seat-conflict check runs inside the same transaction after the flight
// row has been locked, so two interleaved bookings can never both take the
// same seat.
type BookingService struct {
	db       *sql.DB
	flights  *repository.FlightRepo
	seats    *repository.SeatRepo
	bookings *repository.BookingRepo
}

// NewBookingService constructs a BookingService. All dependencies must be
// non-nil.
func NewBookingService(db *sql.DB, flights *repository.FlightRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo) *BookingService {
	if db == nil || flights == nil || seats == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{db: db, flights: flights, seats: seats, bookings: bookings}
}

// genderCodes maps the external gender vocabulary to the single-letter codes
// stored in booking_passengers.gender.
var genderCodes = map[string]string{
	"Male":   "M",
	"Female": "F",
	"Other":  "O",
}

func mapGender(external string) *string {
	if code, ok := genderCodes[external]; ok {
		return &code
	}
	return nil
}

// validatePassengers rejects bad input before any storage is touched. It
// returns the de-referenced seat ids requested by the passengers.
func validatePassengers(passengers []PassengerInput) ([]uint64, error) {
	if len(passengers) == 0 {
		return nil, &ValidationError{Msg: "at least one passenger is required"}
	}
	requested := make([]uint64, 0, len(passengers))
	seen := make(map[uint64]struct{}, len(passengers))
	for _, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return nil, &ValidationError{Msg: "passenger name is required"}
		}
		if p.SeatID == nil {
			continue
		}
		if *p.SeatID == 0 {
			return nil, &ValidationError{Msg: "invalid seat id"}
		}
		if _, dup := seen[*p.SeatID]; dup {
			return nil, &ValidationError{Msg: "the same seat is requested for two passengers"}
		}
		seen[*p.SeatID] = struct{}{}
		requested = append(requested, *p.SeatID)
	}
	return requested, nil
}

// Create books the given passengers onto a flight for a user. Inside one
// transaction it locks the flight row, verifies every requested seat belongs
// to the flight's aircraft and is not occupied by an active booking, then
// inserts the booking and all passenger rows. Any failure rolls the whole
// transaction back; no partial booking is ever visible.
func (s *BookingService) Create(ctx context.Context, userID, flightID uint64, passengers []PassengerInput) (*model.Booking, error) {
	requested, err := validatePassengers(passengers)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	aircraftID, err := s.flights.LockForBookingTx(ctx, tx, flightID)
	if err != nil {
		return nil, err
	}
	if len(requested) > 0 {
		owned, err := s.seats.CountOwnedByAircraftTx(ctx, tx, aircraftID, requested)
		if err != nil {
			return nil, err
		}
		if owned != len(requested) {
			return nil, &ValidationError{Msg: "seat does not belong to the flight's aircraft"}
		}
		taken, err := s.seats.BookedAmongTx(ctx, tx, flightID, requested)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, &SeatConflictError{SeatIDs: taken}
		}
	}

	booking := &model.Booking{
		UserID:    userID,
		FlightID:  flightID,
		Reference: NewBookingReference(),
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		// booking_reference is the only non-PK unique key on bookings, so a
		// duplicate-entry failure here is a reference collision. Retry once
		// with a fresh reference instead of failing the whole booking.
		if !isDuplicateEntry(err) {
			return nil, err
		}
		booking.Reference = NewBookingReference()
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			return nil, err
		}
	}
	rows := make([]model.Passenger, 0, len(passengers))
	for _, p := range passengers {
		rows = append(rows, model.Passenger{
			BookingID: booking.ID,
			Name:      strings.TrimSpace(p.Name),
			Age:       p.Age,
			Gender:    mapGender(p.Gender),
			SeatID:    p.SeatID,
		})
	}
	if err := s.bookings.CreatePassengersBulkTx(ctx, tx, rows); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// Cancel transitions a booking to 'cancelled'. Only the booking owner may
// cancel; other users get ErrNotBookingOwner, which handlers surface like a
// missing booking. Cancelling frees the booking's seats in subsequent
// availability reads — there is no per-seat state to reset.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrNotBookingOwner
	}
	return s.bookings.UpdateStatus(ctx, bookingID, "cancelled")
}
