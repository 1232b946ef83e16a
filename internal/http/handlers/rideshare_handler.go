// README: Shared-ride offer handlers; drive the session discount state.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fareline/internal/http/middleware"
	"fareline/internal/modules/booking"
	"fareline/internal/modules/rideshare"
	"fareline/internal/types"
)

type RideshareHandler struct {
	rideshare *rideshare.Service
	booking   *booking.Service
}

func NewRideshareHandler(shareSvc *rideshare.Service, bookingSvc *booking.Service) *RideshareHandler {
	return &RideshareHandler{rideshare: shareSvc, booking: bookingSvc}
}

// Offers lists joinable rides for a route and marks the session as offered.
// For a rider already in a shared ride, the active split is refreshed from
// the offer's live occupancy; a vanished offer clears the discount.
func (h *RideshareHandler) Offers(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	offers, err := h.rideshare.Offers(c.Request.Context(), origin, destination)
	if err != nil {
		writeRideshareError(c, err)
		return
	}
	sess := h.booking.Session(types.ID(middleware.UID(c)))
	if err := sess.MarkOffered(); err != nil {
		writeBookingError(c, err)
		return
	}

	pct := 0.0
	if snap := sess.Snapshot(); snap.Discount != nil {
		d, err := h.rideshare.Refresh(c.Request.Context(), origin, destination, snap.Discount.OfferID)
		switch {
		case errors.Is(err, rideshare.ErrOfferNotFound):
			sess.ClearDiscount()
		case err != nil:
			writeRideshareError(c, err)
			return
		default:
			sess.RefreshDiscount(d)
			pct = d.Percentage
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"offers": offers, "discount_pct": pct})
}

type joinReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	OfferID     string `json:"offer_id"`
	RiderName   string `json:"rider_name"`
}

// Join adds the rider to an offer and installs the split discount in their
// booking session. A full offer rejects the join and leaves the session as it
// was.
func (h *RideshareHandler) Join(c *gin.Context) {
	var req joinReq
	if err := c.ShouldBindJSON(&req); err != nil || req.OfferID == "" {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	uid := middleware.UID(c)
	rider := req.RiderName
	if rider == "" {
		rider = uid
	}

	d, err := h.rideshare.Join(c.Request.Context(), req.Origin, req.Destination, types.ID(req.OfferID), rider)
	if err != nil {
		writeRideshareError(c, err)
		return
	}
	if err := h.booking.Session(types.ID(uid)).SetDiscount(d); err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"offer_id":     d.OfferID,
		"discount_pct": d.Percentage,
	})
}

type createReq struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Driver      string    `json:"driver"`
	Capacity    int       `json:"capacity"`
	ScheduledAt time.Time `json:"scheduled_at"`
	RiderName   string    `json:"rider_name"`
}

// Create opens a new shared ride with the rider as its only member. Creating
// one supersedes any share the rider was previously part of; the creator's
// split starts at 0% and grows as others join, picked up on the next Offers
// listing.
func (h *RideshareHandler) Create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Origin == "" || req.Destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	uid := middleware.UID(c)
	rider := req.RiderName
	if rider == "" {
		rider = uid
	}
	driver := req.Driver
	if driver == "" {
		driver = rider
	}
	capacity := req.Capacity
	if capacity == 0 {
		capacity = 4
	}
	scheduledAt := req.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = time.Now()
	}

	offer, d, err := h.rideshare.Create(c.Request.Context(), req.Origin, req.Destination, driver, rider, capacity, scheduledAt)
	if err != nil {
		writeRideshareError(c, err)
		return
	}

	sess := h.booking.Session(types.ID(uid))
	sess.ClearDiscount()
	if err := sess.MarkOffered(); err != nil {
		writeBookingError(c, err)
		return
	}
	if err := sess.SetDiscount(d); err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"offer":        offer,
		"discount_pct": d.Percentage,
	})
}

type leaveReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	OfferID     string `json:"offer_id"`
	RiderName   string `json:"rider_name"`
}

// Leave drops the rider from the offer and always clears the session
// discount, even when the offer is already gone.
func (h *RideshareHandler) Leave(c *gin.Context) {
	var req leaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	uid := middleware.UID(c)
	rider := req.RiderName
	if rider == "" {
		rider = uid
	}

	if req.OfferID != "" {
		if err := h.rideshare.Leave(c.Request.Context(), req.Origin, req.Destination, types.ID(req.OfferID), rider); err != nil {
			writeRideshareError(c, err)
			return
		}
	}
	h.booking.Session(types.ID(uid)).ClearDiscount()
	writeJSON(c, http.StatusOK, gin.H{"discount_pct": 0})
}
