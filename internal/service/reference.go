package service

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const refRandomChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingReference builds a human-facing booking reference: the "BR"
// prefix, the current unix-millisecond timestamp in base36 and six random
// base36 characters, all uppercase. Uniqueness is ultimately enforced by the
// unique key on bookings.booking_reference; the time component keeps the
// collision window to a single millisecond.
func NewBookingReference() string {
	t := strings.ToUpper(strconv.FormatInt(time.Now().UTC().UnixMilli(), 36))
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble; fall
		// back to more timestamp bits rather than abort a booking.
		return "BR" + t + strings.ToUpper(strconv.FormatInt(time.Now().UTC().UnixNano()%2176782336, 36))
	}
	for i, b := range buf {
		buf[i] = refRandomChars[int(b)%len(refRandomChars)]
	}
	return "BR" + t + string(buf)
}
