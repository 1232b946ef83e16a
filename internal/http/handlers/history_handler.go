// README: Ride history, export, receipt and feedback handlers.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/http/middleware"
	"fareline/internal/modules/history"
	"fareline/internal/types"
)

type HistoryHandler struct {
	history *history.Service
}

func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{history: svc}
}

func queryFromRequest(c *gin.Context) history.Query {
	return history.Query{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	rides, err := h.history.List(c.Request.Context(), types.ID(middleware.UID(c)), queryFromRequest(c))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	if rides == nil {
		rides = []history.Ride{}
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": rides})
}

func (h *HistoryHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="ride-history.csv"`)
	if err := h.history.ExportCSV(c.Request.Context(), c.Writer, types.ID(middleware.UID(c)), queryFromRequest(c)); err != nil {
		writeHistoryError(c, err)
	}
}

func (h *HistoryHandler) Receipt(c *gin.Context) {
	ride, err := h.history.Get(c.Request.Context(), types.ID(middleware.UID(c)), types.ID(c.Param("id")))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, ride.ID))
	if err := history.WriteReceipt(c.Writer, ride); err != nil {
		writeHistoryError(c, err)
	}
}

type feedbackReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *HistoryHandler) Feedback(c *gin.Context) {
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.history.SubmitFeedback(c.Request.Context(), types.ID(middleware.UID(c)), history.Feedback{
		RideID:  types.ID(c.Param("id")),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"status": "rated"})
}
