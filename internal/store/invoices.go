package store

import (
	"context"
	"database/sql"
	"fmt"

	"booking-service/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateInvoice inserts a new invoice. The unique index on booking_id
// enforces at most one invoice per booking; violations surface as
// ErrInvoiceExists.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (
			id, invoice_number, booking_id,
			customer_email, customer_name, technician_id, technician_name,
			service_type, service_description,
			base_price, additional_charges, subtotal, tax, total,
			payment_status, service_date, status, notes
		) VALUES (
			:id, :invoice_number, :booking_id,
			:customer_email, :customer_name, :technician_id, :technician_name,
			:service_type, :service_description,
			:base_price, :additional_charges, :subtotal, :tax, :total,
			:payment_status, :service_date, :status, :notes
		)
		RETURNING created_at, updated_at`

	rows, err := s.db.NamedQueryContext(ctx, query, inv)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%w %s", ErrInvoiceExists, inv.BookingID)
		}
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetInvoiceByID retrieves an invoice by ID
func (s *Store) GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoiceByBooking retrieves the invoice for a booking, if any
func (s *Store) GetInvoiceByBooking(ctx context.Context, bookingID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE booking_id = $1", bookingID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invoice for booking %s", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoice persists the mutable invoice fields
func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
		UPDATE invoices SET
			status = :status,
			payment_status = :payment_status,
			payment_id = :payment_id,
			paid_at = :paid_at,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := s.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: invoice %s", ErrNotFound, inv.ID)
	}
	return nil
}

// ListInvoicesByCustomer retrieves a customer's invoices, newest first
func (s *Store) ListInvoicesByCustomer(ctx context.Context, email string) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM invoices WHERE customer_email = $1 ORDER BY created_at DESC", email)
	return out, err
}

// ListInvoicesByTechnician retrieves a technician's invoices, newest first
func (s *Store) ListInvoicesByTechnician(ctx context.Context, technicianID string) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM invoices WHERE technician_id = $1 ORDER BY created_at DESC", technicianID)
	return out, err
}

// ListAllInvoices retrieves every invoice, newest first (admin view)
func (s *Store) ListAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM invoices ORDER BY created_at DESC")
	return out, err
}
