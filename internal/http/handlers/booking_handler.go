// README: Booking commit and lookup handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/http/middleware"
	"fareline/internal/modules/booking"
	"fareline/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type commitReq struct {
	Driver        string `json:"driver"`
	PaymentMethod string `json:"payment_method"`
}

func (h *BookingHandler) Commit(c *gin.Context) {
	var req commitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PaymentMethod == "" {
		writeError(c, http.StatusBadRequest, "payment method is required")
		return
	}

	r, err := h.booking.Commit(c.Request.Context(), booking.CommitCommand{
		UserID:        types.ID(middleware.UID(c)),
		Driver:        req.Driver,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"booking_id":     r.ID,
		"status":         r.Status,
		"amount":         r.Amount.Amount,
		"currency":       r.Amount.Currency,
		"discount_pct":   r.DiscountPct,
		"origin":         r.Origin,
		"destination":    r.Destination,
		"vehicle_class":  r.VehicleClass,
		"payment_method": r.PaymentMethod,
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing booking id")
		return
	}
	r, err := h.booking.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if r.UserID != types.ID(middleware.UID(c)) {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"booking_id":    r.ID,
		"status":        r.Status,
		"amount":        r.Amount.Amount,
		"currency":      r.Amount.Currency,
		"origin":        r.Origin,
		"destination":   r.Destination,
		"vehicle_class": r.VehicleClass,
		"created_at":    r.CreatedAt,
	})
}
