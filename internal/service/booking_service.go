package service

import (
	"context"
	"fmt"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/broker"
	"booking-service/internal/lifecycle"
	"booking-service/internal/models"
	"booking-service/internal/redisclient"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingService handles booking creation and lifecycle transitions
type BookingService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	idempotencyTTL time.Duration,
) *BookingService {
	return &BookingService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		idempotencyTTL: idempotencyTTL,
		logger:         util.GetLogger(),
	}
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	TechnicianID   string `json:"technician_id" binding:"required"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	BookingDate    string `json:"booking_date" binding:"required"`
	TimeSlot       string `json:"time_slot" binding:"required"`
	Hours          int    `json:"hours" binding:"required,min=1"`
	Notes          string `json:"notes,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Create creates a new booking in the pending state on behalf of a
// customer. The hourly rate and technician snapshot come from the
// technician profile, never from the request.
func (s *BookingService) Create(ctx context.Context, actor auth.Actor, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.Create")
	defer span.End()

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	if existingID, err := s.redis.GetIdempotencyKey(ctx, req.IdempotencyKey); err == nil && existingID != "" {
		s.logger.Info("Duplicate booking request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.String("booking_id", existingID))
		return s.store.GetBookingByID(ctx, existingID)
	}

	if err := validateBookingInput(req); err != nil {
		util.BookingTransitionsRejectedTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	technician, err := s.store.GetTechnicianByID(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}
	if !technician.Approved || !technician.Active {
		util.BookingTransitionsRejectedTotal.WithLabelValues("technician_unavailable").Inc()
		return nil, fmt.Errorf("%w: %s", ErrTechnicianUnavailable, technician.ID)
	}

	booking := &models.Booking{
		CustomerEmail:  actor.Email,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		TechnicianID:   technician.ID,
		TechnicianName: technician.FullName,
		ServiceType:    technician.ServiceType,
		BookingDate:    req.BookingDate,
		TimeSlot:       req.TimeSlot,
		Hours:          req.Hours,
		HourlyRate:     technician.HourlyRate,
		TotalAmount:    bookingTotal(req.Hours, technician.HourlyRate),
		Notes:          req.Notes,
		Status:         models.BookingStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("technician_id", booking.TechnicianID))

	if err := s.redis.SetIdempotencyKey(ctx, req.IdempotencyKey, booking.ID, s.idempotencyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency key", zap.Error(err))
	}

	event := &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now(),
		},
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		TechnicianID:  booking.TechnicianID,
		ServiceType:   booking.ServiceType,
		BookingDate:   booking.BookingDate,
		TimeSlot:      booking.TimeSlot,
		TotalAmount:   booking.TotalAmount,
	}
	if err := s.eventPublisher.PublishBookingCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingCreated event", zap.Error(err))
	}

	return booking, nil
}

// Transition applies a lifecycle action to a booking on behalf of an
// actor. Ownership is checked here; the legality of the transition is
// the lifecycle package's job.
func (s *BookingService) Transition(ctx context.Context, actor auth.Actor, bookingID string, action lifecycle.Action, reason string) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.Transition")
	defer span.End()

	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(actor, booking); err != nil {
		util.BookingTransitionsRejectedTotal.WithLabelValues("not_owner").Inc()
		return nil, err
	}

	fromStatus := booking.Status
	if err := lifecycle.Transition(booking, action, actor.Role, reason, time.Now()); err != nil {
		util.BookingTransitionsRejectedTotal.WithLabelValues(string(action)).Inc()
		return nil, err
	}

	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	util.BookingTransitionsTotal.WithLabelValues(string(action)).Inc()
	s.logger.Info("Booking transitioned",
		zap.String("booking_id", booking.ID),
		zap.String("from", fromStatus),
		zap.String("to", booking.Status))

	event := &models.BookingTransitionEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventTypeForAction(action),
			Timestamp: time.Now(),
		},
		BookingID:  booking.ID,
		FromStatus: fromStatus,
		ToStatus:   booking.Status,
		ActorRole:  actor.Role,
		Reason:     booking.RejectionReason,
	}
	if err := s.eventPublisher.PublishBookingTransition(ctx, event); err != nil {
		s.logger.Error("Failed to publish booking transition event", zap.Error(err))
	}

	return booking, nil
}

// Get retrieves a booking visible to the actor
func (s *BookingService) Get(ctx context.Context, actor auth.Actor, bookingID string) (*models.Booking, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		if err := s.checkOwnership(actor, booking); err != nil {
			return nil, err
		}
	}
	return booking, nil
}

// List retrieves the bookings visible to the actor: their own for
// customers and technicians, everything for admins.
func (s *BookingService) List(ctx context.Context, actor auth.Actor) ([]models.Booking, error) {
	switch actor.Role {
	case models.RoleCustomer:
		return s.store.ListBookingsByCustomer(ctx, actor.Email)
	case models.RoleTechnician:
		return s.store.ListBookingsByTechnician(ctx, actor.ID)
	case models.RoleAdmin:
		return s.store.ListAllBookings(ctx)
	default:
		return nil, fmt.Errorf("%w: role %q", ErrForbidden, actor.Role)
	}
}

func (s *BookingService) checkOwnership(actor auth.Actor, b *models.Booking) error {
	switch actor.Role {
	case models.RoleCustomer:
		if b.CustomerEmail != actor.Email {
			return fmt.Errorf("%w: booking %s", ErrForbidden, b.ID)
		}
	case models.RoleTechnician:
		if b.TechnicianID != actor.ID {
			return fmt.Errorf("%w: booking %s", ErrForbidden, b.ID)
		}
	}
	return nil
}

func validateBookingInput(req *CreateBookingRequest) error {
	if !models.ValidTimeSlot(req.TimeSlot) {
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, req.TimeSlot)
	}
	if _, err := time.Parse("2006-01-02", req.BookingDate); err != nil {
		return fmt.Errorf("%w: booking date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if req.Hours < 1 {
		return fmt.Errorf("%w: hours must be at least 1", ErrInvalidInput)
	}
	return nil
}

func bookingTotal(hours int, hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(hours))).Round(2)
}

func eventTypeForAction(action lifecycle.Action) string {
	switch action {
	case lifecycle.ActionAccept:
		return models.EventTypeBookingAccepted
	case lifecycle.ActionReject:
		return models.EventTypeBookingRejected
	case lifecycle.ActionCancel:
		return models.EventTypeBookingCancelled
	case lifecycle.ActionComplete:
		return models.EventTypeBookingCompleted
	case lifecycle.ActionAcceptWork:
		return models.EventTypeWorkAccepted
	default:
		return string(action)
	}
}
