// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingCreatedEvent is published after a booking transaction commits. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type BookingCreatedEvent struct {
	BookingID      uint64   `json:"booking_id"`
	Reference      string   `json:"booking_reference"`
	UserID         uint64   `json:"user_id"`
	FlightID       uint64   `json:"flight_id"`
	FlightNumber   string   `json:"flight_number"`
	PassengerCount int      `json:"passenger_count"`
	SeatNumbers    []string `json:"seats"`
	CreatedAt      string   `json:"created_at"`
}

// BookingCancelledEvent is published when a booking owner cancels. The seats
// of the booking become available again on the flight.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Reference   string `json:"booking_reference"`
	UserID      uint64 `json:"user_id"`
	FlightID    uint64 `json:"flight_id"`
	CancelledAt string `json:"cancelled_at"`
}
