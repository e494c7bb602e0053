package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Actor roles
const (
	RoleCustomer   = "customer"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// Booking statuses
const (
	BookingStatusPending      = "pending"
	BookingStatusAccepted     = "accepted"
	BookingStatusRejected     = "rejected"
	BookingStatusCompleted    = "completed"
	BookingStatusWorkAccepted = "work_accepted"
	BookingStatusCancelled    = "cancelled"
)

// Payment status of a booking or invoice
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Invoice statuses
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Payment record statuses
const (
	PaymentRecordPending   = "pending"
	PaymentRecordCompleted = "completed"
	PaymentRecordFailed    = "failed"
)

// ServiceTypes is the fixed set of service categories customers can book.
var ServiceTypes = []string{
	"electrician",
	"plumber",
	"carpenter",
	"ac_repair",
	"painter",
	"cleaning",
}

// TimeSlots are the five daily booking windows.
var TimeSlots = []string{
	"09:00 AM - 11:00 AM",
	"11:00 AM - 01:00 PM",
	"01:00 PM - 03:00 PM",
	"03:00 PM - 05:00 PM",
	"05:00 PM - 07:00 PM",
}

// ValidServiceType reports whether s is one of the fixed service categories.
func ValidServiceType(s string) bool {
	for _, t := range ServiceTypes {
		if t == s {
			return true
		}
	}
	return false
}

// ValidTimeSlot reports whether s is one of the fixed daily windows.
func ValidTimeSlot(s string) bool {
	for _, t := range TimeSlots {
		if t == s {
			return true
		}
	}
	return false
}

// Technician represents a service provider profile
type Technician struct {
	ID           string          `db:"id" json:"id"`
	UserEmail    string          `db:"user_email" json:"user_email"`
	FullName     string          `db:"full_name" json:"full_name"`
	Phone        string          `db:"phone" json:"phone,omitempty"`
	ServiceType  string          `db:"service_type" json:"service_type"`
	HourlyRate   decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	Bio          string          `db:"bio" json:"bio,omitempty"`
	Rating       float64         `db:"rating" json:"rating"`
	TotalReviews int             `db:"total_reviews" json:"total_reviews"`
	Approved     bool            `db:"approved" json:"approved"`
	Active       bool            `db:"active" json:"active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Booking represents a scheduled service engagement between a customer
// and a technician.
type Booking struct {
	ID              string          `db:"id" json:"id"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone,omitempty"`
	TechnicianID    string          `db:"technician_id" json:"technician_id"`
	TechnicianName  string          `db:"technician_name" json:"technician_name"`
	ServiceType     string          `db:"service_type" json:"service_type"`
	BookingDate     string          `db:"booking_date" json:"booking_date"`
	TimeSlot        string          `db:"time_slot" json:"time_slot"`
	Hours           int             `db:"hours" json:"hours"`
	HourlyRate      decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	RejectionReason string          `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Status          string          `db:"status" json:"status"`
	PaymentStatus   string          `db:"payment_status" json:"payment_status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// AdditionalCharge is a single itemized charge on an invoice.
type AdditionalCharge struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ChargeList is an ordered list of additional charges, persisted as JSONB.
type ChargeList []AdditionalCharge

// Value implements driver.Valuer.
func (cl ChargeList) Value() (driver.Value, error) {
	if cl == nil {
		cl = ChargeList{}
	}
	return json.Marshal(cl)
}

// Scan implements sql.Scanner.
func (cl *ChargeList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, cl)
	case string:
		return json.Unmarshal([]byte(v), cl)
	case nil:
		*cl = ChargeList{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ChargeList", src)
	}
}

// Invoice is a billing document derived from a completed booking.
// Subtotal, tax and total are always recomputed together, never patched
// individually.
type Invoice struct {
	ID                 string          `db:"id" json:"id"`
	InvoiceNumber      string          `db:"invoice_number" json:"invoiceNumber"`
	BookingID          string          `db:"booking_id" json:"bookingId"`
	CustomerEmail      string          `db:"customer_email" json:"customerEmail"`
	CustomerName       string          `db:"customer_name" json:"customerName"`
	TechnicianID       string          `db:"technician_id" json:"technicianId"`
	TechnicianName     string          `db:"technician_name" json:"technicianName"`
	ServiceType        string          `db:"service_type" json:"serviceType"`
	ServiceDescription string          `db:"service_description" json:"serviceDescription"`
	BasePrice          decimal.Decimal `db:"base_price" json:"basePrice"`
	AdditionalCharges  ChargeList      `db:"additional_charges" json:"additionalCharges"`
	Subtotal           decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax                decimal.Decimal `db:"tax" json:"tax"`
	Total              decimal.Decimal `db:"total" json:"total"`
	PaymentStatus      string          `db:"payment_status" json:"paymentStatus"`
	PaymentID          string          `db:"payment_id" json:"paymentId,omitempty"`
	ServiceDate        string          `db:"service_date" json:"serviceDate"`
	Status             string          `db:"status" json:"status"`
	Notes              string          `db:"notes" json:"notes,omitempty"`
	PaidAt             *time.Time      `db:"paid_at" json:"paidAt,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// Payment is a record of funds movement against an invoice. A failed
// payment is terminal; a retry creates a new record.
type Payment struct {
	ID            string          `db:"id" json:"id"`
	BookingID     string          `db:"booking_id" json:"bookingId"`
	InvoiceID     string          `db:"invoice_id" json:"invoiceId"`
	CustomerEmail string          `db:"customer_email" json:"customerEmail"`
	TechnicianID  string          `db:"technician_id" json:"technicianId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	PaymentMethod string          `db:"payment_method" json:"paymentMethod"`
	ProviderRef   string          `db:"provider_ref" json:"providerRef,omitempty"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
