// README: Payment-intent passthrough handler.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fareline/internal/payment"
)

type PaymentHandler struct {
	payments *payment.Client
}

func NewPaymentHandler(client *payment.Client) *PaymentHandler {
	return &PaymentHandler{payments: client}
}

type intentReq struct {
	Amount int64 `json:"amount"`
}

// CreateIntent keeps the original endpoint contract: 400 with an error body
// for a bad amount, plain 500 for provider trouble.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req intentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid amount provided.")
		return
	}
	secret, err := h.payments.CreateIntent(c.Request.Context(), req.Amount)
	switch {
	case errors.Is(err, payment.ErrInvalidAmount):
		writeError(c, http.StatusBadRequest, "Invalid amount provided.")
	case err != nil:
		writeError(c, http.StatusInternalServerError, "Failed to create payment intent.")
	default:
		writeJSON(c, http.StatusOK, gin.H{"clientSecret": secret})
	}
}
