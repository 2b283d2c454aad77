package model

import "time"

// Airport is a departure or arrival point referenced by flights.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – full airport name.
//	Code      – IATA-style short code, unique.
//	City      – city served by the airport.
//	Country   – country of the airport.
//	CreatedAt – creation timestamp.
type Airport struct {
	ID        uint64    // airports.id
	Name      string    // airports.name
	Code      string    // airports.code
	City      string    // airports.city
	Country   string    // airports.country
	CreatedAt time.Time // airports.created_at
}
