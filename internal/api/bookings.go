package api

import (
	"net/http"

	"booking-service/internal/auth"
	"booking-service/internal/lifecycle"
	"booking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createBooking handles booking creation by a customer
func (h *Handler) createBooking(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	booking, err := h.bookingService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// getBooking handles get booking by ID
func (h *Handler) getBooking(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// listBookings lists the bookings visible to the caller
func (h *Handler) listBookings(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := h.bookingService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type transitionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// transitionBooking builds a handler that applies one lifecycle action
func (h *Handler) transitionBooking(action lifecycle.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var req transitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request body",
					"details": err.Error(),
				})
				return
			}
		}

		booking, err := h.bookingService.Transition(c.Request.Context(), actor, c.Param("id"), action, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}
