// README: Booking assistant chat handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/assist"
)

type AssistHandler struct {
	responder assist.Responder
}

func NewAssistHandler(r assist.Responder) *AssistHandler {
	return &AssistHandler{responder: r}
}

type chatReq struct {
	Message string            `json:"message"`
	Context map[string]string `json:"context"`
}

func (h *AssistHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		writeError(c, http.StatusBadRequest, "message is required")
		return
	}
	s, err := h.responder.Respond(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		writeError(c, http.StatusBadGateway, "assistant unavailable")
		return
	}
	writeJSON(c, http.StatusOK, s)
}
