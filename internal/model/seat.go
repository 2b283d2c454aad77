package model

import "time"

// Seat is one position in an aircraft's seat map. SeatNumber is a decimal
// row immediately followed by an uppercase column letter ("12A"); the pair
// (aircraft, seat number) is unique. Seats are created once in bulk by the
// seat map generator and never mutated afterwards.
//
// Fields:
//
//	ID         – primary key identifier.
//	AircraftID – aircraft this seat belongs to.
//	SeatNumber – row+column label, e.g. "12A".
//	SeatClass  – cabin class; generation produces only "economy".
//	CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    // seats.id
	AircraftID uint64    // seats.aircraft_id
	SeatNumber string    // seats.seat_number
	SeatClass  string    // seats.seat_class
	CreatedAt  time.Time // seats.created_at
}
