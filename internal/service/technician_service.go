package service

import (
	"context"
	"fmt"
	"time"

	"booking-service/internal/auth"
	"booking-service/internal/models"
	"booking-service/internal/redisclient"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TechnicianService manages the technician directory and admin approval
type TechnicianService struct {
	store    *store.Store
	redis    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTechnicianService creates a new technician service
func NewTechnicianService(store *store.Store, redis *redisclient.Client, cacheTTL time.Duration) *TechnicianService {
	return &TechnicianService{
		store:    store,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// RegisterTechnicianRequest represents a technician profile submission
type RegisterTechnicianRequest struct {
	FullName    string          `json:"full_name" binding:"required"`
	Phone       string          `json:"phone,omitempty"`
	ServiceType string          `json:"service_type" binding:"required"`
	HourlyRate  decimal.Decimal `json:"hourly_rate" binding:"required"`
	Bio         string          `json:"bio,omitempty"`
}

// Register creates a technician profile awaiting admin approval
func (s *TechnicianService) Register(ctx context.Context, actor auth.Actor, req *RegisterTechnicianRequest) (*models.Technician, error) {
	if !models.ValidServiceType(req.ServiceType) {
		return nil, fmt.Errorf("%w: unknown service category %q", ErrInvalidInput, req.ServiceType)
	}
	if req.HourlyRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: hourly rate must be greater than zero", ErrInvalidInput)
	}

	technician := &models.Technician{
		UserEmail:   actor.Email,
		FullName:    req.FullName,
		Phone:       req.Phone,
		ServiceType: req.ServiceType,
		HourlyRate:  req.HourlyRate,
		Bio:         req.Bio,
		Approved:    false,
		Active:      true,
	}

	if err := s.store.CreateTechnician(ctx, technician); err != nil {
		return nil, fmt.Errorf("failed to register technician: %w", err)
	}

	s.logger.Info("Technician registered",
		zap.String("technician_id", technician.ID),
		zap.String("service_type", technician.ServiceType))
	return technician, nil
}

// Approve marks a technician as approved and drops the directory cache
func (s *TechnicianService) Approve(ctx context.Context, technicianID string) (*models.Technician, error) {
	if err := s.store.ApproveTechnician(ctx, technicianID); err != nil {
		return nil, err
	}

	if err := s.redis.InvalidateTechnicianCache(ctx); err != nil {
		s.logger.Warn("Failed to invalidate technician cache", zap.Error(err))
	}

	s.logger.Info("Technician approved", zap.String("technician_id", technicianID))
	return s.store.GetTechnicianByID(ctx, technicianID)
}

// ListApproved returns the public technician directory, served from the
// redis cache when warm.
func (s *TechnicianService) ListApproved(ctx context.Context) ([]models.Technician, error) {
	if cached, ok, err := s.redis.GetCachedApprovedTechnicians(ctx); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("Technician cache read failed", zap.Error(err))
	}

	technicians, err := s.store.ListApprovedTechnicians(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.redis.CacheApprovedTechnicians(ctx, technicians, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache technicians", zap.Error(err))
	}
	return technicians, nil
}

// ListPending returns profiles awaiting approval (admin view)
func (s *TechnicianService) ListPending(ctx context.Context) ([]models.Technician, error) {
	return s.store.ListPendingTechnicians(ctx)
}
