package model

import "time"

// Payment records a settled amount against a booking. Gateway integration is
// out of scope; Status is written as "success" when the record is created.
//
// Fields:
//
//	ID          – primary key identifier.
//	BookingID   – booking being paid for.
//	AmountCents – amount in cents.
//	Method      – one of "card", "upi", "netbanking".
//	Status      – payment state, "success" on creation.
//	PaymentTime – when the payment was recorded.
type Payment struct {
	ID          uint64    // payments.id
	BookingID   uint64    // payments.booking_id
	AmountCents uint32    // payments.amount_cents
	Method      string    // payments.method
	Status      string    // payments.status
	PaymentTime time.Time // payments.payment_time
}
