// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/handler"
	"github.com/skyfare/flight-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication and are
// not part of the browse surface. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login and
// refresh live under /v1/auth without middleware; /v1/me and /v1/auth/logout
// without a body require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body or a bearer token; the JWT
	// middleware is intentionally absent so a session with an expired access
	// token can still be terminated by its refresh token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Logout-all: with a bearer token and no body this revokes every session
	// of the user.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: flight
// search, upcoming departures, flight detail, the airport directory and the
// per-flight seat map. Flight and airport listings sit behind the response
// cache; seat availability never does, stale availability would invite
// conflicts at booking time.
func RegisterPublic(e *echo.Echo, f *handler.FlightHandler, airports *handler.AdminAirportHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/flights", f.List, cache)
	e.GET("/v1/flights/upcoming", f.Upcoming, cache)
	e.GET("/v1/flights/:id", f.Get, cache)
	e.GET("/v1/airports", airports.List, cache)

	e.GET("/v1/flights/:id/seats", f.SeatMap)
}

// RegisterCustomer registers booking endpoints for authenticated customers
// (admins may book too).
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	g.POST("/flights/:id/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.DELETE("/bookings/:id", b.Cancel)
	g.POST("/bookings/:id/payments", b.Pay)
	g.GET("/bookings/:id/payments", b.ListPayments)
}

// RegisterAdmin registers ADMIN-scoped management endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, f *handler.AdminFlightHandler, a *handler.AdminAircraftHandler, p *handler.AdminAirportHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Flights ----
	g.GET("/flights", f.List)
	g.POST("/flights", f.Create)
	g.PATCH("/flights/:id", f.Update)
	g.PUT("/flights/:id", f.Update)
	g.DELETE("/flights/:id", f.Delete)

	// ---- Aircrafts ----
	g.GET("/aircrafts", a.List)
	g.POST("/aircrafts", a.Create)
	g.GET("/aircrafts/:id", a.Get)
	g.PUT("/aircrafts/:id", a.Update)
	g.PATCH("/aircrafts/:id", a.Update)
	g.DELETE("/aircrafts/:id", a.Delete)

	// ---- Airports ----
	g.GET("/airports", p.List)
	g.POST("/airports", p.Create)
	g.GET("/airports/:id", p.Get)
	g.PUT("/airports/:id", p.Update)
	g.PATCH("/airports/:id", p.Update)
	g.DELETE("/airports/:id", p.Delete)
}
