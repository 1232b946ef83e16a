// README: Vehicle catalog and fare quote handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/http/middleware"
	"fareline/internal/modules/booking"
	"fareline/internal/modules/pricing"
	"fareline/internal/types"
)

type QuoteHandler struct {
	booking *booking.Service
	pricing *pricing.Service
}

func NewQuoteHandler(bookingSvc *booking.Service, pricingSvc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{booking: bookingSvc, pricing: pricingSvc}
}

func (h *QuoteHandler) Vehicles(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"vehicles": h.pricing.Vehicles()})
}

type quoteReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	VehicleID   string `json:"vehicle_id"`
}

// Quote resolves the route, selects the vehicle, and returns the amount due
// for the rider's session. Changing endpoints mid-flight supersedes earlier
// lookups, so the response always reflects the latest request.
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	uid := types.ID(middleware.UID(c))

	route, err := h.booking.UpdateRoute(c.Request.Context(), uid, req.Origin, req.Destination)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	if req.VehicleID != "" {
		if err := h.booking.SelectVehicle(uid, req.VehicleID); err != nil {
			writeBookingError(c, err)
			return
		}
	}

	due, err := h.booking.AmountDue(c.Request.Context(), uid)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"route": gin.H{
			"distance_km":      route.DistanceKm,
			"duration_minutes": route.DurationMinutes,
		},
		"base_fare":    due.BaseFare,
		"discount_pct": due.DiscountPct,
		"amount_due":   due.Amount,
		"currency":     due.Currency,
	})
}

// AmountDue re-derives the payable amount for the current session state.
func (h *QuoteHandler) AmountDue(c *gin.Context) {
	due, err := h.booking.AmountDue(c.Request.Context(), types.ID(middleware.UID(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"base_fare":    due.BaseFare,
		"discount_pct": due.DiscountPct,
		"amount_due":   due.Amount,
		"currency":     due.Currency,
	})
}

// writeRouteError treats any failure of the maps lookup that is not a local
// validation error as an upstream fault.
func writeRouteError(c *gin.Context, err error) {
	switch err {
	case booking.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case booking.ErrNoRouteSelected:
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusBadGateway, "route lookup failed")
	}
}
