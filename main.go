package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookrent/app/echoServer"
	authctl "bookrent/app/echoServer/controller/auth"
	bookctl "bookrent/app/echoServer/controller/book"
	devctl "bookrent/app/echoServer/controller/dev"
	recctl "bookrent/app/echoServer/controller/recommendation"
	rentalctl "bookrent/app/echoServer/controller/rental"
	reviewctl "bookrent/app/echoServer/controller/review"
	settingctl "bookrent/app/echoServer/controller/setting"
	"bookrent/app/echoServer/validation"
	"bookrent/config"
	authrepo "bookrent/repository/auth"
	bookrepo "bookrent/repository/book"
	rentalrepo "bookrent/repository/rental"
	reviewrepo "bookrent/repository/review"
	settingrepo "bookrent/repository/setting"
	authsvc "bookrent/service/auth"
	booksvc "bookrent/service/book"
	recommendsvc "bookrent/service/recommend"
	rentalsvc "bookrent/service/rental"
	reviewsvc "bookrent/service/review"
	settingsvc "bookrent/service/setting"
	"bookrent/util/database"
)

const sweepInterval = 24 * time.Hour

// @title           BookRent API
// @version         1.0
// @description     Book rental tracking service: catalog, rental lifecycle, late fees, reviews and recommendations.
// @BasePath        /
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	db, err := database.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Error("schema migrate", "err", err)
		os.Exit(1)
	}

	br := bookrepo.New(db)
	rr := rentalrepo.New(db)
	vr := reviewrepo.New(db)
	sr := settingrepo.New(db)
	ur := authrepo.New(db)

	settings := settingsvc.New(sr, cfg.LateFeeDefault)
	rentals := rentalsvc.New(rr, br, settings, cfg.RentalLimit, cfg.RentalDueDays)
	reviews := reviewsvc.New(vr, rr, br)
	recommends := recommendsvc.New(rr, br)
	books := booksvc.New(br)
	auth := authsvc.New(ur, cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)

	val := validation.New()
	e.Validator = val
	v := val.Engine()

	controllers := echoServer.C{
		Auth:      &authctl.Controller{Svc: auth, V: v, Log: log},
		Book:      &bookctl.Controller{Svc: books, V: v, Log: log},
		Rental:    &rentalctl.Controller{Svc: rentals, V: v, Log: log},
		Review:    &reviewctl.Controller{Svc: reviews, V: v, Log: log},
		Recommend: &recctl.Controller{Svc: recommends, Log: log},
		Setting:   &settingctl.Controller{Svc: settings, V: v, Log: log},
		JWTSecret: cfg.JWTSecret,
	}
	if cfg.Env != "production" {
		controllers.Dev = &devctl.Controller{
			Auth:    auth,
			Books:   books,
			Rentals: rentals,
			Setting: settings,
			Log:     log,
		}
	}
	echoServer.RegisterRoutes(e, controllers)

	e.GET("/health", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "down"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Daily overdue sweep, same cadence as the ops cron it replaces.
	sweep := rentalsvc.NewSweeper(rr, log)
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := sweep.SweepOverdue(ctx)
			cancel()
			if err != nil {
				log.Error("overdue sweep", "err", err)
				continue
			}
			log.Info("overdue sweep done", "overdue", n)
		}
	}()

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
