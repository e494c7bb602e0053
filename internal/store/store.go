package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booking-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvoiceExists is returned when a second invoice is attempted for
// the same booking.
var ErrInvoiceExists = errors.New("invoice already exists for booking")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CreateTechnician inserts a technician profile. New profiles start
// unapproved and active.
func (s *Store) CreateTechnician(ctx context.Context, t *models.Technician) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO technicians (id, user_email, full_name, phone, service_type, hourly_rate, bio, approved, active)
		VALUES (:id, :user_email, :full_name, :phone, :service_type, :hourly_rate, :bio, :approved, :active)
		RETURNING created_at, updated_at`

	rows, err := s.db.NamedQueryContext(ctx, query, t)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetTechnicianByID retrieves a technician by ID
func (s *Store) GetTechnicianByID(ctx context.Context, id string) (*models.Technician, error) {
	var t models.Technician
	err := s.db.GetContext(ctx, &t, "SELECT * FROM technicians WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: technician %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTechnicianByEmail retrieves a technician by their account email
func (s *Store) GetTechnicianByEmail(ctx context.Context, email string) (*models.Technician, error) {
	var t models.Technician
	err := s.db.GetContext(ctx, &t, "SELECT * FROM technicians WHERE user_email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: technician with email %s", ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListApprovedTechnicians returns approved, active technicians, newest first
func (s *Store) ListApprovedTechnicians(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM technicians WHERE approved = TRUE AND active = TRUE ORDER BY created_at DESC")
	return out, err
}

// ListPendingTechnicians returns technicians awaiting admin approval
func (s *Store) ListPendingTechnicians(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM technicians WHERE approved = FALSE ORDER BY created_at ASC")
	return out, err
}

// ApproveTechnician flips the approved flag
func (s *Store) ApproveTechnician(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE technicians SET approved = TRUE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: technician %s", ErrNotFound, id)
	}
	return nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
