package store

import (
	"context"
	"database/sql"
	"fmt"

	"booking-service/internal/models"
	"booking-service/internal/reconcile"

	"github.com/google/uuid"
)

// CreatePayment inserts a new pending payment
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (
			id, booking_id, invoice_id, customer_email, technician_id,
			amount, currency, payment_method, provider_ref, status
		) VALUES (
			:id, :booking_id, :invoice_id, :customer_email, :technician_id,
			:amount, :currency, :payment_method, :provider_ref, :status
		)
		RETURNING created_at, updated_at`

	rows, err := s.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetPaymentByID retrieves a payment by ID
func (s *Store) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p, "SELECT * FROM payments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: payment %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLatestPaymentByInvoice retrieves the most recent payment attempt
// for an invoice
func (s *Store) GetLatestPaymentByInvoice(ctx context.Context, invoiceID string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM payments WHERE invoice_id = $1 ORDER BY created_at DESC LIMIT 1", invoiceID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: payment for invoice %s", ErrNotFound, invoiceID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPaymentsByBooking retrieves all payment attempts for a booking
func (s *Store) ListPaymentsByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	var out []models.Payment
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM payments WHERE booking_id = $1 ORDER BY created_at DESC", bookingID)
	return out, err
}

// ApplySettlementTx persists a reconciliation result in one transaction
// so the payment, invoice and booking move together.
func (s *Store) ApplySettlementTx(ctx context.Context, res *reconcile.Result) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		UPDATE payments SET
			status = :status,
			provider_ref = :provider_ref,
			updated_at = :updated_at
		WHERE id = :id`, res.Payment)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE invoices SET
			status = :status,
			payment_status = :payment_status,
			payment_id = :payment_id,
			paid_at = :paid_at,
			updated_at = :updated_at
		WHERE id = :id`, res.Invoice)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE bookings SET
			payment_status = :payment_status,
			updated_at = :updated_at
		WHERE id = :id`, res.Booking)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return tx.Commit()
}
