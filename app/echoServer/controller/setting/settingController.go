package setting

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookrent/fault"
	ss "bookrent/service/setting"
)

type Controller struct {
	Svc ss.Service
	V   *validator.Validate
	Log *slog.Logger
}

type SetLateFeeReq struct {
	LateFeePerDay *float64 `json:"late_fee_per_day" validate:"required,gte=0"`
}

// GET /v1/late-fee
func (h *Controller) Get(c echo.Context) error {
	v, err := h.Svc.PerDay(c.Request().Context())
	if err != nil {
		h.Log.Error("read late fee", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"late_fee_per_day": v})
}

// POST /v1/late-fee  (admin)
func (h *Controller) Set(c echo.Context) error {
	var req SetLateFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.SetPerDay(c.Request().Context(), *req.LateFeePerDay); err != nil {
		if fault.CodeOf(err) == fault.Validation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("set late fee", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"late_fee_per_day": *req.LateFeePerDay})
}
