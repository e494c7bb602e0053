package store

import (
	"context"
	"database/sql"
	"fmt"

	"booking-service/internal/models"

	"github.com/google/uuid"
)

// CreateBooking inserts a new booking
func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bookings (
			id, customer_email, customer_name, customer_phone,
			technician_id, technician_name, service_type,
			booking_date, time_slot, hours, hourly_rate, total_amount,
			notes, status, payment_status
		) VALUES (
			:id, :customer_email, :customer_name, :customer_phone,
			:technician_id, :technician_name, :service_type,
			:booking_date, :time_slot, :hours, :hourly_rate, :total_amount,
			:notes, :status, :payment_status
		)
		RETURNING created_at, updated_at`

	rows, err := s.db.NamedQueryContext(ctx, query, b)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetBookingByID retrieves a booking by ID
func (s *Store) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.GetContext(ctx, &b, "SELECT * FROM bookings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking persists the mutable booking fields. The lifecycle
// manager decides what changed; this writes the whole projection.
func (s *Store) UpdateBooking(ctx context.Context, b *models.Booking) error {
	query := `
		UPDATE bookings SET
			status = :status,
			payment_status = :payment_status,
			rejection_reason = :rejection_reason,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := s.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: booking %s", ErrNotFound, b.ID)
	}
	return nil
}

// ListBookingsByCustomer retrieves a customer's bookings, newest first
func (s *Store) ListBookingsByCustomer(ctx context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM bookings WHERE customer_email = $1 ORDER BY created_at DESC", email)
	return out, err
}

// ListBookingsByTechnician retrieves a technician's bookings, newest first
func (s *Store) ListBookingsByTechnician(ctx context.Context, technicianID string) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM bookings WHERE technician_id = $1 ORDER BY created_at DESC", technicianID)
	return out, err
}

// ListAllBookings retrieves every booking, newest first (admin view)
func (s *Store) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM bookings ORDER BY created_at DESC")
	return out, err
}
