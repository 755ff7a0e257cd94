package dev

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/fault"
	"bookrent/model"
	authsvc "bookrent/service/auth"
	booksvc "bookrent/service/book"
	rentalsvc "bookrent/service/rental"
	settingsvc "bookrent/service/setting"
)

// Controller holds the development-only endpoints. It is wired only when
// the server runs outside production.
type Controller struct {
	Auth    authsvc.Service
	Books   booksvc.Service
	Rentals rentalsvc.Service
	Setting settingsvc.Service
	Log     *slog.Logger
}

type seedBook struct {
	title, author, category string
	stock                   int64
}

var seedBooks = []seedBook{
	{"The Go Programming Language", "Alan A. A. Donovan", "programming", 4},
	{"Designing Data-Intensive Applications", "Martin Kleppmann", "programming", 3},
	{"Clean Architecture", "Robert C. Martin", "programming", 2},
	{"The Pragmatic Programmer", "Andrew Hunt", "programming", 3},
	{"Dune", "Frank Herbert", "fiction", 5},
	{"Project Hail Mary", "Andy Weir", "fiction", 2},
	{"The Name of the Wind", "Patrick Rothfuss", "fiction", 1},
	{"Sapiens", "Yuval Noah Harari", "history", 3},
	{"Thinking, Fast and Slow", "Daniel Kahneman", "psychology", 2},
	{"Atomic Habits", "James Clear", "self-help", 4},
}

// POST /v1/dev/seed
func (h *Controller) Seed(c echo.Context) error {
	ctx := c.Request().Context()

	accounts := []model.RegisterReq{
		{Name: "Admin", Email: "admin@bookrent.local", Password: "admin123", Role: "admin"},
		{Name: "Sample User", Email: "user@bookrent.local", Password: "user123", Role: "user", Address: "1 Sample St", Phone: "0800000000"},
	}
	created := 0
	for _, a := range accounts {
		if _, _, err := h.Auth.Register(ctx, a); err != nil {
			if errors.Is(err, authsvc.ErrEmailTaken) {
				continue
			}
			h.Log.Error("seed account", "email", a.Email, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "seed failed"})
		}
		created++
	}

	existing, err := h.Books.List(ctx)
	if err != nil {
		h.Log.Error("seed list books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "seed failed"})
	}
	seeded := 0
	if len(existing) == 0 {
		for _, b := range seedBooks {
			if _, err := h.Books.Add(ctx, b.title, b.author, b.category, b.stock); err != nil {
				h.Log.Error("seed book", "title", b.title, "err", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "seed failed"})
			}
			seeded++
		}
	}

	// Touching the rate materializes the singleton row.
	if _, err := h.Setting.PerDay(ctx); err != nil {
		h.Log.Error("seed setting", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "seed failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":          "seed complete",
		"accounts_created": created,
		"books_seeded":     seeded,
	})
}

// POST /v1/dev/return-all/:userId
func (h *Controller) ReturnAll(c echo.Context) error {
	closed, err := h.Rentals.CloseAllForUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		if fault.CodeOf(err) == fault.Validation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("return all", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"closed": closed})
}
