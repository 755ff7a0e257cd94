package review

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookrent/fault"
	revs "bookrent/service/review"
)

type Controller struct {
	Svc revs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/reviews
func (h *Controller) Submit(c echo.Context) error {
	var req SubmitReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err := h.Svc.Submit(c.Request().Context(), revs.SubmitReq{
		BookID: req.BookID,
		UserID: req.UserID,
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		switch fault.CodeOf(err) {
		case fault.Validation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case fault.NotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("submit review", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review saved"})
}

// GET /v1/reviews/:bookId
func (h *Controller) List(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid book id"})
	}
	rows, listErr := h.Svc.List(c.Request().Context(), id)
	if listErr != nil {
		h.Log.Error("list reviews", "err", listErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
