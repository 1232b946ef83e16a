// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/modules/booking"
	"fareline/internal/modules/history"
	"fareline/internal/modules/rideshare"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNoRouteSelected):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrInvalidVehicleClass), errors.Is(err, booking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrInvalidDiscount),
		errors.Is(err, booking.ErrInvalidDiscountState),
		errors.Is(err, booking.ErrNotPayable):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRideshareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rideshare.ErrInvalidPartySize), errors.Is(err, rideshare.ErrInvalidDiscount):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, rideshare.ErrOfferNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, rideshare.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrRideNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, history.ErrAlreadyRated):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, history.ErrInvalidRating), errors.Is(err, history.ErrInvalidQuery):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
