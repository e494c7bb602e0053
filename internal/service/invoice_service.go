package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/billing"
	"booking-service/internal/broker"
	"booking-service/internal/models"
	"booking-service/internal/redisclient"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService issues and manages invoices for completed bookings
type InvoiceService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	lockTTL        time.Duration
	logger         *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	lockTTL time.Duration,
) *InvoiceService {
	return &InvoiceService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		lockTTL:        lockTTL,
		logger:         util.GetLogger(),
	}
}

// CreateInvoiceRequest represents technician-entered billing data
type CreateInvoiceRequest struct {
	BasePrice          decimal.Decimal           `json:"basePrice" binding:"required"`
	AdditionalCharges  []models.AdditionalCharge `json:"additionalCharges,omitempty"`
	ServiceDescription string                    `json:"serviceDescription" binding:"required"`
	Notes              string                    `json:"notes,omitempty"`
}

// Issue creates the invoice for a completed booking. At most one invoice
// ever exists per booking; a redis lock narrows the race and the unique
// index is the authority. The invoice goes straight to sent.
func (s *InvoiceService) Issue(ctx context.Context, actor auth.Actor, bookingID string, req *CreateInvoiceRequest) (*models.Invoice, error) {
	ctx, span := util.StartSpan(ctx, "InvoiceService.Issue")
	defer span.End()

	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleTechnician || booking.TechnicianID != actor.ID {
		return nil, fmt.Errorf("%w: booking %s", ErrForbidden, bookingID)
	}
	if booking.Status != models.BookingStatusCompleted && booking.Status != models.BookingStatusWorkAccepted {
		return nil, fmt.Errorf("%w: booking %s is %q", ErrBookingNotCompleted, bookingID, booking.Status)
	}

	// Validate before any write so a rejected invoice leaves no trace.
	if err := billing.ValidateServiceDescription(req.ServiceDescription); err != nil {
		return nil, err
	}
	charges := make([]billing.Charge, len(req.AdditionalCharges))
	for i, c := range req.AdditionalCharges {
		charges[i] = billing.Charge{Description: c.Description, Amount: c.Amount}
	}
	totals, err := billing.ComputeTotals(req.BasePrice, charges, billing.DefaultTaxRate)
	if err != nil {
		return nil, err
	}

	locked, err := s.redis.AcquireInvoiceLock(ctx, bookingID, s.lockTTL)
	if err != nil {
		s.logger.Warn("Invoice lock unavailable, relying on unique index", zap.Error(err))
	} else if !locked {
		return nil, fmt.Errorf("%w %s", store.ErrInvoiceExists, bookingID)
	} else {
		defer func() {
			if err := s.redis.ReleaseInvoiceLock(ctx, bookingID); err != nil {
				s.logger.Warn("Failed to release invoice lock", zap.Error(err))
			}
		}()
	}

	if _, err := s.store.GetInvoiceByBooking(ctx, bookingID); err == nil {
		return nil, fmt.Errorf("%w %s", store.ErrInvoiceExists, bookingID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNumber:      billing.GenerateInvoiceNumber(),
		BookingID:          booking.ID,
		CustomerEmail:      booking.CustomerEmail,
		CustomerName:       booking.CustomerName,
		TechnicianID:       booking.TechnicianID,
		TechnicianName:     booking.TechnicianName,
		ServiceType:        booking.ServiceType,
		ServiceDescription: req.ServiceDescription,
		BasePrice:          req.BasePrice,
		AdditionalCharges:  models.ChargeList(req.AdditionalCharges),
		Subtotal:           totals.Subtotal,
		Tax:                totals.Tax,
		Total:              totals.Total,
		PaymentStatus:      models.PaymentStatusPending,
		ServiceDate:        booking.BookingDate,
		Status:             models.InvoiceStatusSent,
		Notes:              req.Notes,
	}

	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	util.InvoicesIssuedTotal.Inc()
	s.logger.Info("Invoice issued",
		zap.String("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("booking_id", booking.ID))

	event := &models.InvoiceIssuedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeInvoiceIssued,
			Timestamp: time.Now(),
		},
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		BookingID:     invoice.BookingID,
		CustomerEmail: invoice.CustomerEmail,
		Total:         invoice.Total,
	}
	if err := s.eventPublisher.PublishInvoiceIssued(ctx, event); err != nil {
		s.logger.Error("Failed to publish InvoiceIssued event", zap.Error(err))
	}

	return invoice, nil
}

// Cancel cancels an invoice that has not been paid yet
func (s *InvoiceService) Cancel(ctx context.Context, actor auth.Actor, invoiceID string) (*models.Invoice, error) {
	ctx, span := util.StartSpan(ctx, "InvoiceService.Cancel")
	defer span.End()

	invoice, err := s.store.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleTechnician:
		if invoice.TechnicianID != actor.ID {
			return nil, fmt.Errorf("%w: invoice %s", ErrForbidden, invoiceID)
		}
	default:
		return nil, fmt.Errorf("%w: invoice %s", ErrForbidden, invoiceID)
	}

	if invoice.Status == models.InvoiceStatusPaid || invoice.Status == models.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice %s is %q", ErrInvoiceNotCancellable, invoiceID, invoice.Status)
	}

	invoice.Status = models.InvoiceStatusCancelled
	invoice.UpdatedAt = time.Now()

	if err := s.store.UpdateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	util.InvoicesCancelledTotal.Inc()
	s.logger.Info("Invoice cancelled", zap.String("invoice_id", invoice.ID))

	event := &models.InvoiceCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeInvoiceCancelled,
			Timestamp: time.Now(),
		},
		InvoiceID: invoice.ID,
		BookingID: invoice.BookingID,
	}
	if err := s.eventPublisher.PublishInvoiceCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish InvoiceCancelled event", zap.Error(err))
	}

	return invoice, nil
}

// Get retrieves an invoice visible to the actor
func (s *InvoiceService) Get(ctx context.Context, actor auth.Actor, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		if invoice.CustomerEmail != actor.Email {
			return nil, fmt.Errorf("%w: invoice %s", ErrForbidden, invoiceID)
		}
	case models.RoleTechnician:
		if invoice.TechnicianID != actor.ID {
			return nil, fmt.Errorf("%w: invoice %s", ErrForbidden, invoiceID)
		}
	}
	return invoice, nil
}

// List retrieves the invoices visible to the actor
func (s *InvoiceService) List(ctx context.Context, actor auth.Actor) ([]models.Invoice, error) {
	switch actor.Role {
	case models.RoleCustomer:
		return s.store.ListInvoicesByCustomer(ctx, actor.Email)
	case models.RoleTechnician:
		return s.store.ListInvoicesByTechnician(ctx, actor.ID)
	case models.RoleAdmin:
		return s.store.ListAllInvoices(ctx)
	default:
		return nil, fmt.Errorf("%w: role %q", ErrForbidden, actor.Role)
	}
}
