package model

import "time"

// Booking groups the passengers a user books onto one flight in a single
// transaction. Reference is the human-facing identifier ("BR..."), distinct
// from the numeric id and unique at the storage layer. Bookings transition
// booked -> cancelled and are never physically deleted.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user who created the booking.
//	FlightID  – flight being booked.
//	Reference – unique human-readable booking reference.
//	Status    – "booked" or "cancelled".
//	CreatedAt – creation timestamp.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	FlightID  uint64    // bookings.flight_id
	Reference string    // bookings.booking_reference
	Status    string    // bookings.status
	CreatedAt time.Time // bookings.booking_time
}

// Passenger is a booking line item. Gender holds the internal single-letter
// code ("M", "F", "O") or nil when the external value was absent or
// unrecognised. SeatID, when set, must reference a seat of the aircraft
// operating the booking's flight.
//
// Fields:
//
//	ID        – primary key identifier.
//	BookingID – parent booking.
//	Name      – passenger name (required).
//	Age       – optional age.
//	Gender    – optional internal gender code.
//	SeatID    – optional assigned seat.
type Passenger struct {
	ID        uint64  // booking_passengers.id
	BookingID uint64  // booking_passengers.booking_id
	Name      string  // booking_passengers.name
	Age       *uint32 // booking_passengers.age (nullable)
	Gender    *string // booking_passengers.gender (nullable)
	SeatID    *uint64 // booking_passengers.seat_id (nullable)
}
