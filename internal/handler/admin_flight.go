package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
	"github.com/skyfare/flight-reservation/internal/service"
)

// AdminFlightHandler serves flight management for the ADMIN role. Writes go
// through FlightService so seat-map generation and the capacity guard stay
// in one place.
type AdminFlightHandler struct {
	Service *service.FlightService
	Flights *repository.FlightRepo
}

func NewAdminFlightHandler(svc *service.FlightService, flights *repository.FlightRepo) *AdminFlightHandler {
	if svc == nil || flights == nil {
		panic("nil dependency passed to NewAdminFlightHandler")
	}
	return &AdminFlightHandler{Service: svc, Flights: flights}
}

type createFlightReq struct {
	FlightNumber       string    `json:"flight_number"`
	AircraftID         uint64    `json:"aircraft_id"`
	DepartureAirportID uint64    `json:"departure_airport_id"`
	ArrivalAirportID   uint64    `json:"arrival_airport_id"`
	DepartureTime      time.Time `json:"departure_time"`
	ArrivalTime        time.Time `json:"arrival_time"`
	BaseFareCents      uint32    `json:"base_fare_cents"`
}

type updateFlightReq struct {
	FlightNumber       *string    `json:"flight_number"`
	AircraftID         *uint64    `json:"aircraft_id"`
	DepartureAirportID *uint64    `json:"departure_airport_id"`
	ArrivalAirportID   *uint64    `json:"arrival_airport_id"`
	DepartureTime      *time.Time `json:"departure_time"`
	ArrivalTime        *time.Time `json:"arrival_time"`
	BaseFareCents      *uint32    `json:"base_fare_cents"`
}

type flightPart struct {
	ID                 uint64    `json:"id"`
	FlightNumber       string    `json:"flight_number"`
	AircraftID         uint64    `json:"aircraft_id"`
	DepartureAirportID uint64    `json:"departure_airport_id"`
	ArrivalAirportID   uint64    `json:"arrival_airport_id"`
	DepartureTime      time.Time `json:"departure_time"`
	ArrivalTime        time.Time `json:"arrival_time"`
	BaseFareCents      uint32    `json:"base_fare_cents"`
	IsDeleted          bool      `json:"is_deleted"`
}

func toFlightPart(f *model.Flight) flightPart {
	return flightPart{
		ID:                 f.ID,
		FlightNumber:       f.FlightNumber,
		AircraftID:         f.AircraftID,
		DepartureAirportID: f.DepartureAirportID,
		ArrivalAirportID:   f.ArrivalAirportID,
		DepartureTime:      f.DepartureTime,
		ArrivalTime:        f.ArrivalTime,
		BaseFareCents:      f.BaseFareCents,
		IsDeleted:          f.IsDeleted,
	}
}

// Create handles POST /v1/admin/flights.
func (h *AdminFlightHandler) Create(c echo.Context) error {
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.FlightNumber = strings.TrimSpace(req.FlightNumber)
	if req.FlightNumber == "" || req.AircraftID == 0 || req.DepartureAirportID == 0 || req.ArrivalAirportID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_number, aircraft_id and both airports are required"})
	}
	if req.DepartureAirportID == req.ArrivalAirportID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure and arrival airports must differ"})
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be after departure_time"})
	}

	flight := &model.Flight{
		FlightNumber:       req.FlightNumber,
		AircraftID:         req.AircraftID,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		DepartureTime:      req.DepartureTime.UTC(),
		ArrivalTime:        req.ArrivalTime.UTC(),
		BaseFareCents:      req.BaseFareCents,
	}
	if err := h.Service.Create(c.Request().Context(), flight); err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toFlightPart(flight)})
}

// Update handles PATCH /v1/admin/flights/:id. Reassigning the aircraft is
// refused with 409 when the replacement has fewer seats than the flight's
// active booked passengers.
func (h *AdminFlightHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req updateFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.DepartureAirportID != nil && req.ArrivalAirportID != nil && *req.DepartureAirportID == *req.ArrivalAirportID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure and arrival airports must differ"})
	}

	patch := repository.FlightPatch{
		FlightNumber:       req.FlightNumber,
		AircraftID:         req.AircraftID,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		DepartureTime:      req.DepartureTime,
		ArrivalTime:        req.ArrivalTime,
		BaseFareCents:      req.BaseFareCents,
	}
	flight, err := h.Service.Update(c.Request().Context(), id, patch)
	if err != nil {
		var capErr *service.CapacityViolationError
		switch {
		case errors.As(err, &capErr):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             capErr.Error(),
				"capacity":          capErr.Capacity,
				"booked_passengers": capErr.Booked,
			})
		case errors.Is(err, repository.ErrFlightNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case errors.Is(err, repository.ErrAircraftNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update flight"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toFlightPart(flight)})
}

// Delete handles DELETE /v1/admin/flights/:id. Deletion is soft: the flight
// disappears from public listings but existing bookings keep resolving.
// ?hard=true removes the row outright, for operator cleanup of flights that
// never sold.
func (h *AdminFlightHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()

	var err error
	if c.QueryParam("hard") == "true" {
		err = h.Flights.HardDelete(ctx, id)
	} else {
		err = h.Flights.SoftDelete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete flight"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/admin/flights: same filters as the public listing but
// including soft-deleted rows.
func (h *AdminFlightHandler) List(c echo.Context) error {
	filter := repository.FlightFilter{IncludeDeleted: true}
	filter.Date = c.QueryParam("date")
	total, items, err := h.Flights.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list flights"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"items": items,
	})
}
