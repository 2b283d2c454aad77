package service

import (
	"context"
	"log"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
)

// FlightService wraps flight writes with the checks repositories do not do
// on their own: seat-map generation after creation and the capacity guard on
// aircraft reassignment.
type FlightService struct {
	flights  *repository.FlightRepo
	aircraft *repository.AircraftRepo
	bookings *repository.BookingRepo
	seatmap  *SeatService
}

// NewFlightService constructs a FlightService. All dependencies must be
// non-nil.
func NewFlightService(flights *repository.FlightRepo, aircraft *repository.AircraftRepo, bookings *repository.BookingRepo, seatmap *SeatService) *FlightService {
	if flights == nil || aircraft == nil || bookings == nil || seatmap == nil {
		panic("nil dependency passed to NewFlightService")
	}
	return &FlightService{flights: flights, aircraft: aircraft, bookings: bookings, seatmap: seatmap}
}

// Create inserts a flight after verifying the aircraft exists, then ensures
// the aircraft's seat map is materialised. Generation failures are logged
// and not fatal: the availability resolver regenerates lazily on first seat
// read.
func (s *FlightService) Create(ctx context.Context, f *model.Flight) error {
	if _, err := s.aircraft.GetByID(ctx, f.AircraftID); err != nil {
		return err
	}
	if err := s.flights.Create(ctx, f); err != nil {
		return err
	}
	if err := s.seatmap.EnsureSeatMap(ctx, f.AircraftID); err != nil {
		log.Printf("flight: seat map generation for aircraft %d failed: %v", f.AircraftID, err)
	}
	return nil
}

// Update applies an admin patch to a flight. When the patch reassigns the
// aircraft, the capacity guard runs first: the flight's active booked
// passengers are counted and the proposed aircraft must declare at least
// that many seats, otherwise CapacityViolationError carries both numbers
// back to the caller. The guard compares declared capacity; the seat map
// generator keeps seat-map cardinality equal to it.
func (s *FlightService) Update(ctx context.Context, id uint64, patch repository.FlightPatch) (*model.Flight, error) {
	if _, err := s.flights.GetByID(ctx, id, true); err != nil {
		return nil, err
	}
	if patch.AircraftID != nil {
		booked, err := s.bookings.CountActivePassengers(ctx, id)
		if err != nil {
			return nil, err
		}
		aircraft, err := s.aircraft.GetByID(ctx, *patch.AircraftID)
		if err != nil {
			return nil, err
		}
		if int(aircraft.TotalSeats) < booked {
			return nil, &CapacityViolationError{Capacity: int(aircraft.TotalSeats), Booked: booked}
		}
	}
	if !patch.Empty() {
		if err := s.flights.Update(ctx, id, patch); err != nil {
			return nil, err
		}
	}
	return s.flights.GetByID(ctx, id, true)
}
