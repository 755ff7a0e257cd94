// app/echoServer/routes.go
package echoServer

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctl "bookrent/app/echoServer/controller/auth"
	bookctl "bookrent/app/echoServer/controller/book"
	devctl "bookrent/app/echoServer/controller/dev"
	recctl "bookrent/app/echoServer/controller/recommendation"
	rentalctl "bookrent/app/echoServer/controller/rental"
	reviewctl "bookrent/app/echoServer/controller/review"
	settingctl "bookrent/app/echoServer/controller/setting"
	"bookrent/app/echoServer/jwtx"
)

// C bundles everything the router needs.
type C struct {
	Auth      *authctl.Controller
	Book      *bookctl.Controller
	Rental    *rentalctl.Controller
	Review    *reviewctl.Controller
	Recommend *recctl.Controller
	Setting   *settingctl.Controller
	Dev       *devctl.Controller // nil outside development

	JWTSecret string
}

func RegisterRoutes(e *echo.Echo, c C) {
	v1 := e.Group("/v1")

	// Public surface.
	v1.POST("/auth/register", c.Auth.Register)
	v1.POST("/auth/login", c.Auth.Login)
	v1.GET("/books", c.Book.List)
	v1.GET("/books/:id", c.Book.Detail)
	v1.GET("/reviews/:bookId", c.Review.List)
	v1.GET("/late-fee", c.Setting.Get)

	if c.Dev != nil {
		v1.POST("/dev/seed", c.Dev.Seed)
		v1.POST("/dev/return-all/:userId", c.Dev.ReturnAll)
	}

	// Everything below requires a valid token.
	authed := v1.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),
	}))

	authed.POST("/rentals", c.Rental.Rent)
	authed.POST("/rentals/return", c.Rental.Return)
	authed.GET("/rentals/history/:userId", c.Rental.History)
	authed.GET("/rentals/overdue/:userId", c.Rental.Overdue)
	authed.POST("/reviews", c.Review.Submit)
	authed.GET("/recommendations/:userId", c.Recommend.Get)

	admin := authed.Group("", adminOnly)
	admin.POST("/books", c.Book.Create)
	admin.DELETE("/books/:id", c.Book.Remove)
	admin.POST("/books/:id/stock", c.Book.UpdateStock)
	admin.POST("/late-fee", c.Setting.Set)
	admin.GET("/admin/rentals", c.Rental.AdminList)
}

func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := jwtx.RoleFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		if role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "admin only"})
		}
		return next(c)
	}
}
