package service

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
)

// seatColumns is the fixed 4-across cabin layout used by generation. Rows
// are numbered from 1 and filled row-major; the final row may be partial
// when the declared capacity is not a multiple of four.
var seatColumns = [...]string{"A", "B", "C", "D"}

// SeatService materialises aircraft seat maps and resolves per-flight seat
// availability. Availability is always derived from active bookings at read
// time; no reserved flag is ever stored on a seat.
type SeatService struct {
	aircraft *repository.AircraftRepo
	flights  *repository.FlightRepo
	seats    *repository.SeatRepo
}

// NewSeatService constructs a SeatService. All dependencies must be non-nil.
func NewSeatService(aircraft *repository.AircraftRepo, flights *repository.FlightRepo, seats *repository.SeatRepo) *SeatService {
	if aircraft == nil || flights == nil || seats == nil {
		panic("nil repository passed to NewSeatService")
	}
	return &SeatService{aircraft: aircraft, flights: flights, seats: seats}
}

// seatNumbers enumerates the canonical seat labels for a capacity: row-major
// rows of A..D starting at row 1, stopping after exactly total seats.
func seatNumbers(total uint32) []string {
	out := make([]string, 0, total)
	row := 1
	for uint32(len(out)) < total {
		for _, col := range seatColumns {
			if uint32(len(out)) == total {
				break
			}
			out = append(out, strconv.Itoa(row)+col)
		}
		row++
	}
	return out
}

// EnsureSeatMap lazily materialises the seat map of an aircraft. It is a
// no-op when the aircraft already has any seats. Generation is advisory and
// the re-read is authoritative: when a concurrent caller wins the bulk
// insert, the duplicate-entry failure on (aircraft_id, seat_number) is
// logged and discarded. Any other storage error propagates.
func (s *SeatService) EnsureSeatMap(ctx context.Context, aircraftID uint64) error {
	n, err := s.seats.CountByAircraft(ctx, aircraftID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	aircraft, err := s.aircraft.GetByID(ctx, aircraftID)
	if err != nil {
		return err
	}
	if aircraft.TotalSeats == 0 {
		return nil
	}
	numbers := seatNumbers(aircraft.TotalSeats)
	seats := make([]model.Seat, 0, len(numbers))
	for _, num := range numbers {
		seats = append(seats, model.Seat{
			AircraftID: aircraftID,
			SeatNumber: num,
			SeatClass:  "economy",
		})
	}
	if err := s.seats.CreateBulk(ctx, seats); err != nil {
		if isDuplicateEntry(err) {
			log.Printf("seatmap: aircraft %d seats already generated concurrently", aircraftID)
			return nil
		}
		return err
	}
	return nil
}

// SeatAvailability is one seat of the flight's aircraft annotated with
// whether any active booking on the flight occupies it.
type SeatAvailability struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
	SeatClass  string `json:"seat_class"`
	Available  bool   `json:"available"`
}

// SeatsForFlight returns every seat of the flight's aircraft with its
// availability, generating the seat map first if it does not exist yet. A
// nonexistent (or soft-deleted) flight yields repository.ErrFlightNotFound
// rather than an empty list, so "unknown flight" and "aircraft without
// seats" stay distinguishable.
func (s *SeatService) SeatsForFlight(ctx context.Context, flightID uint64) ([]SeatAvailability, error) {
	flight, err := s.flights.GetByID(ctx, flightID, false)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSeatMap(ctx, flight.AircraftID); err != nil {
		return nil, err
	}
	seats, err := s.seats.GetByAircraft(ctx, flight.AircraftID)
	if err != nil {
		return nil, err
	}
	booked, err := s.seats.BookedSeatIDs(ctx, flightID)
	if err != nil {
		return nil, err
	}
	out := make([]SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		_, taken := booked[seat.ID]
		out = append(out, SeatAvailability{
			ID:         seat.ID,
			SeatNumber: seat.SeatNumber,
			SeatClass:  seat.SeatClass,
			Available:  !taken,
		})
	}
	return out, nil
}

// isDuplicateEntry reports whether err is MySQL error 1062 (duplicate entry
// for a unique key).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
