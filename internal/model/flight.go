package model

import "time"

// Flight is a scheduled trip between two airports operated by one aircraft.
// Many flights may share an aircraft and therefore its seat map. IsDeleted is
// a soft-delete flag: a deleted flight is excluded from listings but remains
// resolvable by id for owners of existing bookings.
//
// Fields:
//
//	ID                 – primary key identifier.
//	FlightNumber       – carrier-facing flight designator.
//	AircraftID         – operating aircraft.
//	DepartureAirportID – origin airport.
//	ArrivalAirportID   – destination airport.
//	DepartureTime      – scheduled departure (UTC).
//	ArrivalTime        – scheduled arrival (UTC).
//	BaseFareCents      – base fare per passenger in cents.
//	IsDeleted          – soft-delete flag.
//	CreatedAt          – creation timestamp.
//	UpdatedAt          – last update timestamp.
type Flight struct {
	ID                 uint64    // flights.id
	FlightNumber       string    // flights.flight_number
	AircraftID         uint64    // flights.aircraft_id
	DepartureAirportID uint64    // flights.departure_airport_id
	ArrivalAirportID   uint64    // flights.arrival_airport_id
	DepartureTime      time.Time // flights.departure_time
	ArrivalTime        time.Time // flights.arrival_time
	BaseFareCents      uint32    // flights.base_fare_cents
	IsDeleted          bool      // flights.is_deleted
	CreatedAt          time.Time // flights.created_at
	UpdatedAt          time.Time // flights.updated_at
}
