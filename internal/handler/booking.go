package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/queue"
	"github.com/skyfare/flight-reservation/internal/repository"
	"github.com/skyfare/flight-reservation/internal/service"
)

// BookingHandler serves the customer booking endpoints. Booking creation and
// cancellation delegate to the service layer, which owns the transactional
// consistency rules; this layer translates typed errors to HTTP responses and
// publishes lifecycle events after the storage work has committed.
type BookingHandler struct {
	Bookings    *service.BookingService
	BookingRepo *repository.BookingRepo
	Flights     *repository.FlightRepo
	Seats       *repository.SeatRepo
	Payments    *repository.PaymentRepo
}

func NewBookingHandler(bookings *service.BookingService, bookingRepo *repository.BookingRepo, flights *repository.FlightRepo, seats *repository.SeatRepo, payments *repository.PaymentRepo) *BookingHandler {
	if bookings == nil || bookingRepo == nil || flights == nil || seats == nil || payments == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, BookingRepo: bookingRepo, Flights: flights, Seats: seats, Payments: payments}
}

type createBookingReq struct {
	Passengers []service.PassengerInput `json:"passengers"`
}

// Create handles POST /v1/flights/:id/bookings. On success it responds 201
// with the booking id, reference and status; seat conflicts come back as 409
// with the contested seat ids so the client can re-render the seat map.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	flightID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.Create(ctx, userID, flightID, req.Passengers)
	if err != nil {
		var verr *service.ValidationError
		var conflict *service.SeatConflictError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Msg})
		case errors.As(err, &conflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":    "some seats are already booked",
				"seat_ids": conflict.SeatIDs,
			})
		case errors.Is(err, repository.ErrFlightNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
		}
	}

	h.publishCreated(c, booking, req.Passengers)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":        booking.ID,
		"booking_reference": booking.Reference,
		"status":            booking.Status,
	})
}

// publishCreated emits the booking.created event. Failures are swallowed: the
// booking has already committed and the consumer log is advisory.
func (h *BookingHandler) publishCreated(c echo.Context, booking *model.Booking, passengers []service.PassengerInput) {
	ctx := c.Request().Context()
	ev := queue.BookingCreatedEvent{
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		UserID:         booking.UserID,
		FlightID:       booking.FlightID,
		PassengerCount: len(passengers),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if detail, err := h.Flights.GetDetail(ctx, booking.FlightID, true); err == nil {
		ev.FlightNumber = detail.FlightNumber
		if seats, err := h.Seats.GetByAircraft(ctx, detail.AircraftID); err == nil {
			byID := make(map[uint64]string, len(seats))
			for _, s := range seats {
				byID[s.ID] = s.SeatNumber
			}
			for _, p := range passengers {
				if p.SeatID != nil {
					if num, ok := byID[*p.SeatID]; ok {
						ev.SeatNumbers = append(ev.SeatNumbers, num)
					}
				}
			}
		}
	}
	_ = queue.PublishBookingCreated(ctx, ev)
}

// List handles GET /v1/bookings and returns the caller's bookings, newest
// first, with passenger and seat details.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/bookings/:id. Ownership violations are reported
// as 404 so booking ids of other users stay unguessable.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if err := h.Bookings.Cancel(ctx, userID, bookingID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound), errors.Is(err, service.ErrNotBookingOwner):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
		}
	}

	_ = queue.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		UserID:      userID,
		FlightID:    booking.FlightID,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}

type createPaymentReq struct {
	AmountCents uint32 `json:"amount_cents"`
	Method      string `json:"method"`
}

type paymentPart struct {
	ID          uint64    `json:"id"`
	AmountCents uint32    `json:"amount_cents"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	PaymentTime time.Time `json:"payment_time"`
}

var paymentMethods = map[string]bool{"card": true, "upi": true, "netbanking": true}

// Pay handles POST /v1/bookings/:id/payments. Payments are recorded against
// the caller's own active bookings; there is no gateway round trip, the
// record is written as settled.
func (h *BookingHandler) Pay(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.AmountCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
	}
	if !paymentMethods[req.Method] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method must be one of card, upi, netbanking"})
	}

	ctx := c.Request().Context()
	booking, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if booking.Status != "booked" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is cancelled"})
	}

	payment := &model.Payment{
		BookingID:   bookingID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
	}
	if err := h.Payments.Create(ctx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id":   payment.ID,
		"status":       payment.Status,
		"payment_time": payment.PaymentTime,
	})
}

// ListPayments handles GET /v1/bookings/:id/payments.
func (h *BookingHandler) ListPayments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	booking, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	payments, err := h.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	items := make([]paymentPart, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentPart{
			ID:          p.ID,
			AmountCents: p.AmountCents,
			Method:      p.Method,
			Status:      p.Status,
			PaymentTime: p.PaymentTime,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
