// Package reconcile propagates a payment outcome to its invoice and
// booking. It operates on records only; loading and persisting them is
// the caller's job.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"booking-service/internal/models"
)

// Reconciliation errors. These indicate data-integrity problems and must
// be surfaced, not swallowed.
var (
	ErrInvoiceMismatch = errors.New("payment does not reference this invoice")
	ErrAmountMismatch  = errors.New("payment amount does not match invoice total")
	ErrAlreadySettled  = errors.New("payment already settled with a different outcome")
	ErrUnknownOutcome  = errors.New("unknown payment outcome")
)

// Outcome is the normalized result reported by the payment processor.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Result reports the records after reconciliation. Applied is false when
// the payment was already settled with the same outcome and nothing
// changed, which makes retries safe.
type Result struct {
	Payment *models.Payment
	Invoice *models.Invoice
	Booking *models.Booking
	Applied bool
}

// RecordOutcome settles a payment. On success the payment completes, the
// invoice becomes paid with a paid timestamp, and the booking's payment
// status becomes paid; the booking status itself is never touched here.
// On failure only the payment is marked, so a fresh attempt can be
// created against the same invoice.
func RecordOutcome(p *models.Payment, inv *models.Invoice, b *models.Booking, outcome Outcome, now time.Time) (*Result, error) {
	if outcome != OutcomeSucceeded && outcome != OutcomeFailed {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	if p.InvoiceID != inv.ID {
		return nil, fmt.Errorf("%w: payment references invoice %s, reconciling %s", ErrInvoiceMismatch, p.InvoiceID, inv.ID)
	}
	if b.ID != p.BookingID {
		return nil, fmt.Errorf("%w: payment references booking %s, reconciling %s", ErrInvoiceMismatch, p.BookingID, b.ID)
	}

	// Retry of an already-settled payment is a no-op for the same
	// outcome and an integrity fault for a different one.
	if settled(p.Status) {
		if statusFor(outcome) == p.Status {
			return &Result{Payment: p, Invoice: inv, Booking: b, Applied: false}, nil
		}
		return nil, fmt.Errorf("%w: payment %s is %s, got outcome %q", ErrAlreadySettled, p.ID, p.Status, outcome)
	}

	if !p.Amount.Equal(inv.Total) {
		return nil, fmt.Errorf("%w: payment amount %s, invoice total %s", ErrAmountMismatch, p.Amount, inv.Total)
	}

	p.Status = statusFor(outcome)
	p.UpdatedAt = now

	if outcome == OutcomeSucceeded {
		inv.PaymentStatus = models.PaymentStatusPaid
		inv.Status = models.InvoiceStatusPaid
		inv.PaymentID = p.ID
		inv.PaidAt = &now
		inv.UpdatedAt = now

		b.PaymentStatus = models.PaymentStatusPaid
		b.UpdatedAt = now
	}

	return &Result{Payment: p, Invoice: inv, Booking: b, Applied: true}, nil
}

func settled(status string) bool {
	return status == models.PaymentRecordCompleted || status == models.PaymentRecordFailed
}

func statusFor(outcome Outcome) string {
	if outcome == OutcomeSucceeded {
		return models.PaymentRecordCompleted
	}
	return models.PaymentRecordFailed
}
