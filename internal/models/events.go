package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeBookingCreated   = "BOOKING_CREATED"
	EventTypeBookingAccepted  = "BOOKING_ACCEPTED"
	EventTypeBookingRejected  = "BOOKING_REJECTED"
	EventTypeBookingCancelled = "BOOKING_CANCELLED"
	EventTypeBookingCompleted = "BOOKING_COMPLETED"
	EventTypeWorkAccepted     = "WORK_ACCEPTED"
	EventTypeInvoiceIssued    = "INVOICE_ISSUED"
	EventTypeInvoiceCancelled = "INVOICE_CANCELLED"
	EventTypePaymentInitiated = "PAYMENT_INITIATED"
	EventTypePaymentSucceeded = "PAYMENT_SUCCEEDED"
	EventTypePaymentFailed    = "PAYMENT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent published when a customer creates a booking
type BookingCreatedEvent struct {
	BaseEvent
	BookingID     string          `json:"booking_id"`
	CustomerEmail string          `json:"customer_email"`
	TechnicianID  string          `json:"technician_id"`
	ServiceType   string          `json:"service_type"`
	BookingDate   string          `json:"booking_date"`
	TimeSlot      string          `json:"time_slot"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// BookingTransitionEvent published for every booking status change.
// The event type carries the transition (BOOKING_ACCEPTED and so on).
type BookingTransitionEvent struct {
	BaseEvent
	BookingID  string `json:"booking_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorRole  string `json:"actor_role"`
	Reason     string `json:"reason,omitempty"`
}

// InvoiceIssuedEvent published when an invoice is created for a
// completed booking
type InvoiceIssuedEvent struct {
	BaseEvent
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	BookingID     string          `json:"booking_id"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
}

// InvoiceCancelledEvent published when an invoice is cancelled pre-payment
type InvoiceCancelledEvent struct {
	BaseEvent
	InvoiceID string `json:"invoice_id"`
	BookingID string `json:"booking_id"`
}

// PaymentInitiatedEvent published when a pending payment is created
type PaymentInitiatedEvent struct {
	BaseEvent
	PaymentID string          `json:"payment_id"`
	InvoiceID string          `json:"invoice_id"`
	BookingID string          `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// PaymentOutcomeEvent published when a payment settles. The event type
// distinguishes PAYMENT_SUCCEEDED from PAYMENT_FAILED.
type PaymentOutcomeEvent struct {
	BaseEvent
	PaymentID   string          `json:"payment_id"`
	InvoiceID   string          `json:"invoice_id"`
	BookingID   string          `json:"booking_id"`
	Amount      decimal.Decimal `json:"amount"`
	ProviderRef string          `json:"provider_ref,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}
