package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/billing"
	"booking-service/internal/lifecycle"
	"booking-service/internal/models"
	"booking-service/internal/reconcile"
	"booking-service/internal/service"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	bookingService    *service.BookingService
	invoiceService    *service.InvoiceService
	paymentService    *service.PaymentService
	technicianService *service.TechnicianService
	authManager       *auth.Manager
}

// NewHandler creates a new HTTP handler
func NewHandler(
	bookingService *service.BookingService,
	invoiceService *service.InvoiceService,
	paymentService *service.PaymentService,
	technicianService *service.TechnicianService,
	authManager *auth.Manager,
) *Handler {
	return &Handler{
		bookingService:    bookingService,
		invoiceService:    invoiceService,
		paymentService:    paymentService,
		technicianService: technicianService,
		authManager:       authManager,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(h.authManager.Middleware())
	{
		v1.POST("/bookings", h.createBooking)
		v1.GET("/bookings", h.listBookings)
		v1.GET("/bookings/:id", h.getBooking)
		v1.POST("/bookings/:id/accept", h.transitionBooking(lifecycle.ActionAccept))
		v1.POST("/bookings/:id/reject", h.transitionBooking(lifecycle.ActionReject))
		v1.POST("/bookings/:id/cancel", h.transitionBooking(lifecycle.ActionCancel))
		v1.POST("/bookings/:id/complete", h.transitionBooking(lifecycle.ActionComplete))
		v1.POST("/bookings/:id/accept-work", h.transitionBooking(lifecycle.ActionAcceptWork))
		v1.POST("/bookings/:id/invoice", h.createInvoice)

		v1.GET("/invoices", h.listInvoices)
		v1.GET("/invoices/:id", h.getInvoice)
		v1.POST("/invoices/:id/cancel", h.cancelInvoice)

		v1.POST("/payments", h.initiatePayment)
		v1.GET("/payments/:id", h.getPayment)
		v1.POST("/payments/:id/outcome",
			auth.RequireRole(models.RoleAdmin), h.recordPaymentOutcome)

		v1.POST("/technicians", auth.RequireRole(models.RoleTechnician), h.registerTechnician)
		v1.GET("/technicians", h.listTechnicians)
		v1.GET("/technicians/pending",
			auth.RequireRole(models.RoleAdmin), h.listPendingTechnicians)
		v1.POST("/technicians/:id/approve",
			auth.RequireRole(models.RoleAdmin), h.approveTechnician)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, billing.ErrInvalidAmount),
		errors.Is(err, billing.ErrInvalidDescription),
		errors.Is(err, reconcile.ErrUnknownOutcome):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, lifecycle.ErrUnauthorized),
		errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrPaymentRequired),
		errors.Is(err, store.ErrInvoiceExists),
		errors.Is(err, service.ErrTechnicianUnavailable),
		errors.Is(err, service.ErrBookingNotCompleted),
		errors.Is(err, service.ErrInvoiceNotCancellable),
		errors.Is(err, service.ErrInvoiceNotPayable),
		errors.Is(err, reconcile.ErrInvoiceMismatch),
		errors.Is(err, reconcile.ErrAmountMismatch),
		errors.Is(err, reconcile.ErrAlreadySettled):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
