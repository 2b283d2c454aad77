package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/repository"
	"github.com/skyfare/flight-reservation/internal/service"
)

// FlightHandler serves the public browse endpoints: flight search, upcoming
// departures, single flight detail and per-flight seat availability.
type FlightHandler struct {
	Flights *repository.FlightRepo
	Seats   *service.SeatService
}

func NewFlightHandler(flights *repository.FlightRepo, seats *service.SeatService) *FlightHandler {
	if flights == nil || seats == nil {
		panic("nil dependency passed to NewFlightHandler")
	}
	return &FlightHandler{Flights: flights, Seats: seats}
}

// List handles GET /flights. Supported query parameters: airport_id (matches
// either endpoint), date (YYYY-MM-DD, departure date), min_fare / max_fare
// (cents), page and limit.
func (h *FlightHandler) List(c echo.Context) error {
	var filter repository.FlightFilter
	if v := c.QueryParam("airport_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport_id"})
		}
		filter.AirportID = id
	}
	filter.Date = c.QueryParam("date")
	if v := c.QueryParam("min_fare"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_fare"})
		}
		filter.MinFareCents = uint32(n)
	}
	if v := c.QueryParam("max_fare"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_fare"})
		}
		filter.MaxFareCents = uint32(n)
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	total, items, err := h.Flights.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list flights"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"items": items,
	})
}

// Upcoming handles GET /flights/upcoming: flights departing within the next
// seven days, soonest first.
func (h *FlightHandler) Upcoming(c echo.Context) error {
	items, err := h.Flights.ListUpcoming(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list flights"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /flights/:id and returns the joined flight detail.
func (h *FlightHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	detail, err := h.Flights.GetDetail(c.Request().Context(), id, false)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch flight"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// SeatMap handles GET /flights/:id/seats. The seat map is generated on first
// read, so this endpoint always reflects the full cabin of the operating
// aircraft with per-seat availability.
func (h *FlightHandler) SeatMap(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	seats, err := h.Seats.SeatsForFlight(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight_id": id,
		"seats":     seats,
	})
}
