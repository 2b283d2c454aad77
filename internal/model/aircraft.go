package model

import "time"

// Aircraft represents a physical plane whose seat map is shared by every
// flight assigned to it. TotalSeats is the declared capacity; the seat map
// generator keeps the seats table cardinality equal to it. Editing
// TotalSeats after seats exist does not regenerate the seat map.
//
// Fields:
//
//	ID         – primary key identifier.
//	Model      – manufacturer/model designation (e.g. "A320").
//	TotalSeats – declared seat capacity (positive).
//	CreatedAt  – creation timestamp.
//	UpdatedAt  – last update timestamp.
type Aircraft struct {
	ID         uint64    // aircrafts.id
	Model      string    // aircrafts.model
	TotalSeats uint32    // aircrafts.total_seats
	CreatedAt  time.Time // aircrafts.created_at
	UpdatedAt  time.Time // aircrafts.updated_at
}
