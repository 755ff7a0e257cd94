package rental

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookrent/fault"
	rs "bookrent/service/rental"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func statusFor(err error) int {
	switch fault.CodeOf(err) {
	case fault.Validation:
		return http.StatusBadRequest
	case fault.NotFound:
		return http.StatusNotFound
	case fault.OutOfStock, fault.LimitExceeded, fault.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, log *slog.Logger, op string, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(op, "err", err)
		return c.JSON(status, echo.Map{"message": "internal error"})
	}
	return c.JSON(status, echo.Map{"message": err.Error()})
}

// Rent a book
// @Summary      Rent a book copy
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        payload  body  RentReq  true  "Rent payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "out of stock / rental limit reached"
// @Router       /v1/rentals [post]
func (h *Controller) Rent(c echo.Context) error {
	var req RentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	err := h.Svc.Rent(c.Request().Context(), rs.RentReq{
		BookID:        req.BookID,
		UserID:        req.UserID,
		RenterName:    req.RenterName,
		RenterAddress: req.RenterAddress,
		RenterPhone:   req.RenterPhone,
		DueDate:       req.DueDate,
	})
	if err != nil {
		return fail(c, h.Log, "rent book", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book rented successfully"})
}

// POST /v1/rentals/return
func (h *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	var at time.Time
	if req.ReturnDate != nil {
		at = *req.ReturnDate
	}
	fee, err := h.Svc.Return(c.Request().Context(), req.BookID, req.UserID, at)
	if err != nil {
		return fail(c, h.Log, "return book", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book returned successfully", "late_fee": fee})
}

// GET /v1/rentals/history/:userId
func (h *Controller) History(c echo.Context) error {
	rows, err := h.Svc.History(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return fail(c, h.Log, "rental history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/overdue/:userId
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return fail(c, h.Log, "overdue rentals", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/rentals?status=open|returned|all
func (h *Controller) AdminList(c echo.Context) error {
	filter := rs.StatusFilter(c.QueryParam("status"))
	ledger, err := h.Svc.AdminList(c.Request().Context(), filter)
	if err != nil {
		return fail(c, h.Log, "admin rentals", err)
	}
	return c.JSON(http.StatusOK, ledger)
}
