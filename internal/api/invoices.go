package api

import (
	"net/http"

	"booking-service/internal/auth"
	"booking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createInvoice issues the invoice for a completed booking
func (h *Handler) createInvoice(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	invoice, err := h.invoiceService.Issue(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// getInvoice handles get invoice by ID
func (h *Handler) getInvoice(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// listInvoices lists the invoices visible to the caller
func (h *Handler) listInvoices(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// cancelInvoice cancels an unpaid invoice
func (h *Handler) cancelInvoice(c *gin.Context) {
	actor, err := auth.CurrentActor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}
