package service

import "errors"

// Service-level errors, matched by the API layer with errors.Is.
var (
	// ErrForbidden is returned when an actor acts on a record they do
	// not own.
	ErrForbidden = errors.New("actor does not own this record")

	// ErrTechnicianUnavailable is returned when a booking targets a
	// technician who is not approved or not active.
	ErrTechnicianUnavailable = errors.New("technician is not available for booking")

	// ErrInvalidInput is returned for malformed booking input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBookingNotCompleted is returned when an invoice is attempted
	// for a booking that is not in the completed state.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrInvoiceNotCancellable is returned when cancellation is
	// attempted on a paid or already-cancelled invoice.
	ErrInvoiceNotCancellable = errors.New("invoice can no longer be cancelled")

	// ErrInvoiceNotPayable is returned when a payment is initiated
	// against an invoice that is not awaiting payment.
	ErrInvoiceNotPayable = errors.New("invoice is not awaiting payment")
)
