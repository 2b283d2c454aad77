package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/model"
	"github.com/skyfare/flight-reservation/internal/repository"
)

// AdminAircraftHandler serves aircraft management for the ADMIN role.
type AdminAircraftHandler struct {
	Aircraft *repository.AircraftRepo
	Seats    *repository.SeatRepo
}

func NewAdminAircraftHandler(aircraft *repository.AircraftRepo, seats *repository.SeatRepo) *AdminAircraftHandler {
	if aircraft == nil || seats == nil {
		panic("nil dependency passed to NewAdminAircraftHandler")
	}
	return &AdminAircraftHandler{Aircraft: aircraft, Seats: seats}
}

type aircraftReq struct {
	Model      string `json:"model"`
	TotalSeats uint32 `json:"total_seats"`
}

type aircraftPart struct {
	ID         uint64 `json:"id"`
	Model      string `json:"model"`
	TotalSeats uint32 `json:"total_seats"`
}

func toAircraftPart(a *model.Aircraft) aircraftPart {
	return aircraftPart{ID: a.ID, Model: a.Model, TotalSeats: a.TotalSeats}
}

// Create handles POST /v1/admin/aircrafts.
func (h *AdminAircraftHandler) Create(c echo.Context) error {
	var req aircraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" || req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "model and positive total_seats required"})
	}
	a := &model.Aircraft{Model: req.Model, TotalSeats: req.TotalSeats}
	if err := h.Aircraft.Create(c.Request().Context(), a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create aircraft"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toAircraftPart(a)})
}

// List handles GET /v1/admin/aircrafts.
func (h *AdminAircraftHandler) List(c echo.Context) error {
	all, err := h.Aircraft.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list aircrafts"})
	}
	items := make([]aircraftPart, 0, len(all))
	for i := range all {
		items = append(items, toAircraftPart(&all[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/admin/aircrafts/:id.
func (h *AdminAircraftHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}
	a, err := h.Aircraft.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch aircraft"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAircraftPart(a)})
}

// Update handles PUT /v1/admin/aircrafts/:id. Declared capacity is frozen
// once the seat map exists, so seat-map cardinality always matches it.
func (h *AdminAircraftHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}
	var req aircraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" || req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "model and positive total_seats required"})
	}

	ctx := c.Request().Context()
	current, err := h.Aircraft.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch aircraft"})
	}
	if req.TotalSeats != current.TotalSeats {
		n, err := h.Seats.CountByAircraft(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat map"})
		}
		if n > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat map already generated; total_seats cannot change"})
		}
	}
	if err := h.Aircraft.Update(ctx, id, req.Model, req.TotalSeats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update aircraft"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": aircraftPart{ID: id, Model: req.Model, TotalSeats: req.TotalSeats}})
}

// Delete handles DELETE /v1/admin/aircrafts/:id. Aircraft referenced by
// flights cannot be removed.
func (h *AdminAircraftHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}
	if err := h.Aircraft.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "aircraft is referenced by flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete aircraft"})
	}
	return c.NoContent(http.StatusNoContent)
}
