// README: Address autocomplete handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/maps"
)

type PlacesHandler struct {
	places *maps.PlacesService
}

func NewPlacesHandler(svc *maps.PlacesService) *PlacesHandler {
	return &PlacesHandler{places: svc}
}

func (h *PlacesHandler) Suggest(c *gin.Context) {
	suggestions, err := h.places.Suggest(c.Request.Context(), c.Query("input"))
	if err != nil {
		writeError(c, http.StatusBadGateway, "place lookup failed")
		return
	}
	if suggestions == nil {
		suggestions = []maps.Suggestion{}
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}
