package recommendation

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/fault"
	recs "bookrent/service/recommend"
)

type Controller struct {
	Svc recs.Service
	Log *slog.Logger
}

// GET /v1/recommendations/:userId
func (h *Controller) Get(c echo.Context) error {
	rows, err := h.Svc.Recommend(c.Request().Context(), c.Param("userId"))
	if err != nil {
		if fault.CodeOf(err) == fault.Validation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("recommendations", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
