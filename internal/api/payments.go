package api

import (
	"fmt"
	"net/http"

	"booking-service/internal/auth"
	"booking-service/internal/reconcile"
	"booking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// initiatePayment starts a payment for an invoice
func (h *Handler) initiatePayment(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	payment, err := h.paymentService.Initiate(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// getPayment handles get payment by ID
func (h *Handler) getPayment(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

type paymentOutcomeRequest struct {
	Outcome     string `json:"outcome" binding:"required"`
	ProviderRef string `json:"providerRef,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// recordPaymentOutcome accepts a normalized processor outcome for a
// payment and settles it. Retries with the same outcome are no-ops.
func (h *Handler) recordPaymentOutcome(c *gin.Context) {
	var req paymentOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var outcome reconcile.Outcome
	switch req.Outcome {
	case string(reconcile.OutcomeSucceeded):
		outcome = reconcile.OutcomeSucceeded
	case string(reconcile.OutcomeFailed):
		outcome = reconcile.OutcomeFailed
	default:
		respondError(c, fmt.Errorf("%w: %q", reconcile.ErrUnknownOutcome, req.Outcome))
		return
	}

	result, err := h.paymentService.Settle(c.Request.Context(), c.Param("id"), outcome, req.ProviderRef, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": result.Payment,
		"applied": result.Applied,
	})
}
