package service

import (
	"context"
	"fmt"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/broker"
	"booking-service/internal/models"
	"booking-service/internal/reconcile"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService initiates payments and settles processor outcomes
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// InitiatePaymentRequest represents a request to start paying an invoice
type InitiatePaymentRequest struct {
	InvoiceID     string `json:"invoiceId" binding:"required"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// Initiate creates a pending payment for an invoice. The amount is
// always the invoice total at creation time; the caller cannot choose
// it.
func (s *PaymentService) Initiate(ctx context.Context, actor auth.Actor, req *InitiatePaymentRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Initiate")
	defer span.End()

	invoice, err := s.store.GetInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCustomer || invoice.CustomerEmail != actor.Email {
		return nil, fmt.Errorf("%w: invoice %s", ErrForbidden, req.InvoiceID)
	}
	if invoice.Status != models.InvoiceStatusSent {
		return nil, fmt.Errorf("%w: invoice %s is %q", ErrInvoiceNotPayable, invoice.ID, invoice.Status)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	method := req.PaymentMethod
	if method == "" {
		method = "card"
	}

	payment := &models.Payment{
		BookingID:     invoice.BookingID,
		InvoiceID:     invoice.ID,
		CustomerEmail: invoice.CustomerEmail,
		TechnicianID:  invoice.TechnicianID,
		Amount:        invoice.Total,
		Currency:      currency,
		PaymentMethod: method,
		Status:        models.PaymentRecordPending,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	util.PaymentsInitiatedTotal.Inc()
	s.logger.Info("Payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("invoice_id", invoice.ID),
		zap.String("amount", payment.Amount.String()))

	event := &models.PaymentInitiatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentInitiated,
			Timestamp: time.Now(),
		},
		PaymentID: payment.ID,
		InvoiceID: payment.InvoiceID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
	}
	if err := s.eventPublisher.PublishPaymentInitiated(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentInitiated event", zap.Error(err))
	}

	return payment, nil
}

// Settle applies a normalized processor outcome to a payment and
// propagates it to the invoice and booking. Safe to retry: an already
// settled payment with the same outcome is a no-op.
func (s *PaymentService) Settle(ctx context.Context, paymentID string, outcome reconcile.Outcome, providerRef, reason string) (*reconcile.Result, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Settle")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ReconcileLatency.Observe(time.Since(start).Seconds())
	}()

	payment, err := s.store.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.store.GetInvoiceByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	booking, err := s.store.GetBookingByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}

	if providerRef != "" {
		payment.ProviderRef = providerRef
	}

	result, err := reconcile.RecordOutcome(payment, invoice, booking, outcome, time.Now())
	if err != nil {
		s.logger.Error("Payment reconciliation refused",
			zap.String("payment_id", paymentID),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		return nil, err
	}

	if !result.Applied {
		s.logger.Info("Payment already settled, skipping",
			zap.String("payment_id", paymentID),
			zap.String("status", payment.Status))
		return result, nil
	}

	if err := s.store.ApplySettlementTx(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist settlement: %w", err)
	}

	eventType := models.EventTypePaymentSucceeded
	if outcome == reconcile.OutcomeFailed {
		eventType = models.EventTypePaymentFailed
		util.PaymentsFailedTotal.Inc()
		s.logger.Warn("Payment failed",
			zap.String("payment_id", payment.ID),
			zap.String("reason", reason))
	} else {
		util.PaymentsSucceededTotal.Inc()
		s.logger.Info("Payment settled",
			zap.String("payment_id", payment.ID),
			zap.String("invoice_id", invoice.ID))
	}

	event := &models.PaymentOutcomeEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: time.Now(),
		},
		PaymentID:   payment.ID,
		InvoiceID:   payment.InvoiceID,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount,
		ProviderRef: payment.ProviderRef,
		Reason:      reason,
	}
	if err := s.eventPublisher.PublishPaymentOutcome(ctx, event); err != nil {
		s.logger.Error("Failed to publish payment outcome event", zap.Error(err))
	}

	return result, nil
}

// Get retrieves a payment visible to the actor
func (s *PaymentService) Get(ctx context.Context, actor auth.Actor, paymentID string) (*models.Payment, error) {
	payment, err := s.store.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCustomer:
		if payment.CustomerEmail != actor.Email {
			return nil, fmt.Errorf("%w: payment %s", ErrForbidden, paymentID)
		}
	case models.RoleTechnician:
		if payment.TechnicianID != actor.ID {
			return nil, fmt.Errorf("%w: payment %s", ErrForbidden, paymentID)
		}
	}
	return payment, nil
}
