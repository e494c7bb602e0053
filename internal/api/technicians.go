package api

import (
	"net/http"

	"booking-service/internal/auth"
	"booking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// registerTechnician creates a technician profile awaiting approval
func (h *Handler) registerTechnician(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.RegisterTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	technician, err := h.technicianService.Register(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, technician)
}

// listTechnicians returns the approved technician directory
func (h *Handler) listTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"technicians": technicians})
}

// listPendingTechnicians returns profiles awaiting approval
func (h *Handler) listPendingTechnicians(c *gin.Context) {
	technicians, err := h.technicianService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"technicians": technicians})
}

// approveTechnician approves a pending technician
func (h *Handler) approveTechnician(c *gin.Context) {
	technician, err := h.technicianService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, technician)
}
