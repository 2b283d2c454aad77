// Package service implements the seat inventory and booking logic on top of
// the repository layer. Handlers call into services and translate the error
// types defined here into HTTP responses.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotBookingOwner is returned when a user operates on a booking created
// by someone else. Handlers present it the same way as a missing booking so
// callers cannot probe for foreign booking ids.
var ErrNotBookingOwner = errors.New("booking does not belong to user")

// ValidationError rejects a request before any transaction begins.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// SeatConflictError is returned when one or more requested seats are already
// occupied by an active booking on the flight. The caller should re-read
// availability and let the user pick again.
type SeatConflictError struct {
	SeatIDs []uint64
}

func (e *SeatConflictError) Error() string {
	ids := make([]string, 0, len(e.SeatIDs))
	for _, id := range e.SeatIDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	return "seats already booked: " + strings.Join(ids, ", ")
}

// CapacityViolationError rejects an aircraft reassignment that would leave a
// flight with fewer seats than already-booked passengers. Both numbers are
// carried for the user-facing message.
type CapacityViolationError struct {
	Capacity int // proposed aircraft's declared capacity
	Booked   int // passengers on active bookings of the flight
}

func (e *CapacityViolationError) Error() string {
	return fmt.Sprintf("new aircraft capacity (%d) is less than already booked passengers (%d)",
		e.Capacity, e.Booked)
}
