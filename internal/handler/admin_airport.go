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

// AdminAirportHandler serves airport management for the ADMIN role.
type AdminAirportHandler struct {
	Airports *repository.AirportRepo
}

func NewAdminAirportHandler(airports *repository.AirportRepo) *AdminAirportHandler {
	if airports == nil {
		panic("nil repository passed to NewAdminAirportHandler")
	}
	return &AdminAirportHandler{Airports: airports}
}

type airportReq struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (r *airportReq) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
}

func (r *airportReq) valid() bool {
	return r.Name != "" && r.Code != "" && r.City != "" && r.Country != ""
}

type airportPart struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func toAirportPart(a *model.Airport) airportPart {
	return airportPart{ID: a.ID, Name: a.Name, Code: a.Code, City: a.City, Country: a.Country}
}

// Create handles POST /v1/admin/airports.
func (h *AdminAirportHandler) Create(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.normalize()
	if !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, code, city and country are required"})
	}
	a := &model.Airport{Name: req.Name, Code: req.Code, City: req.City, Country: req.Country}
	if err := h.Airports.Create(c.Request().Context(), a); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create airport"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toAirportPart(a)})
}

// List handles GET /v1/admin/airports (also exposed publicly for browsing).
func (h *AdminAirportHandler) List(c echo.Context) error {
	all, err := h.Airports.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list airports"})
	}
	items := make([]airportPart, 0, len(all))
	for i := range all {
		items = append(items, toAirportPart(&all[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/admin/airports/:id.
func (h *AdminAirportHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	a, err := h.Airports.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch airport"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAirportPart(a)})
}

// Update handles PUT /v1/admin/airports/:id.
func (h *AdminAirportHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.normalize()
	if !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, code, city and country are required"})
	}
	if err := h.Airports.Update(c.Request().Context(), id, req.Name, req.Code, req.City, req.Country); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update airport"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": airportPart{ID: id, Name: req.Name, Code: req.Code, City: req.City, Country: req.Country}})
}

// Delete handles DELETE /v1/admin/airports/:id. Airports referenced by
// flights cannot be removed.
func (h *AdminAirportHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	if err := h.Airports.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport is referenced by flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete airport"})
	}
	return c.NoContent(http.StatusNoContent)
}
