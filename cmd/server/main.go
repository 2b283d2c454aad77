package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skyfare/flight-reservation/internal/config"
	"github.com/skyfare/flight-reservation/internal/database"
	"github.com/skyfare/flight-reservation/internal/handler"
	"github.com/skyfare/flight-reservation/internal/middleware"
	"github.com/skyfare/flight-reservation/internal/queue"
	"github.com/skyfare/flight-reservation/internal/repository"
	"github.com/skyfare/flight-reservation/internal/router"
	"github.com/skyfare/flight-reservation/internal/service"
)

func main() {
	// .env is a developer convenience; in deployed environments the variables
	// come from the process environment and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the browse cache; both degrade to
	// pass-through when it is unreachable.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	aircraftRepo := repository.NewAircraftRepo(db)
	airportRepo := repository.NewAirportRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	seatSvc := service.NewSeatService(aircraftRepo, flightRepo, seatRepo)
	flightSvc := service.NewFlightService(flightRepo, aircraftRepo, bookingRepo, seatSvc)
	bookingSvc := service.NewBookingService(db, flightRepo, seatRepo, bookingRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	flightHandler := handler.NewFlightHandler(flightRepo, seatSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, bookingRepo, flightRepo, seatRepo, paymentRepo)
	adminFlightHandler := handler.NewAdminFlightHandler(flightSvc, flightRepo)
	adminAircraftHandler := handler.NewAdminAircraftHandler(aircraftRepo, seatRepo)
	adminAirportHandler := handler.NewAdminAirportHandler(airportRepo)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, flightHandler, adminAirportHandler, cache)
	router.RegisterCustomer(e, bookingHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminFlightHandler, adminAircraftHandler, adminAirportHandler, cfg.JWTSecret)

	// Booking lifecycle consumer; reconnects on its own, so a dead broker
	// only costs the audit log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
