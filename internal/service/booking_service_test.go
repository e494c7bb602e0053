package service

import (
	"testing"

	"booking-service/internal/lifecycle"
	"booking-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBookingTotal(t *testing.T) {
	rate := decimal.RequireFromString("45.50")

	total := bookingTotal(3, rate)
	assert.True(t, total.Equal(decimal.RequireFromString("136.50")), "total %s", total)

	total = bookingTotal(1, decimal.RequireFromString("33.333"))
	assert.True(t, total.Equal(decimal.RequireFromString("33.33")), "total %s", total)
}

func TestValidateBookingInput(t *testing.T) {
	valid := &CreateBookingRequest{
		TechnicianID: "tech-1",
		CustomerName: "Dana Ortiz",
		BookingDate:  "2026-09-15",
		TimeSlot:     models.TimeSlots[0],
		Hours:        2,
	}
	assert.NoError(t, validateBookingInput(valid))

	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"unknown time slot", func(r *CreateBookingRequest) { r.TimeSlot = "08:00 PM - 10:00 PM" }},
		{"bad date format", func(r *CreateBookingRequest) { r.BookingDate = "15/09/2026" }},
		{"zero hours", func(r *CreateBookingRequest) { r.Hours = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			tt.mutate(&req)
			assert.ErrorIs(t, validateBookingInput(&req), ErrInvalidInput)
		})
	}
}

func TestEventTypeForAction(t *testing.T) {
	assert.Equal(t, models.EventTypeBookingAccepted, eventTypeForAction(lifecycle.ActionAccept))
	assert.Equal(t, models.EventTypeBookingRejected, eventTypeForAction(lifecycle.ActionReject))
	assert.Equal(t, models.EventTypeBookingCancelled, eventTypeForAction(lifecycle.ActionCancel))
	assert.Equal(t, models.EventTypeBookingCompleted, eventTypeForAction(lifecycle.ActionComplete))
	assert.Equal(t, models.EventTypeWorkAccepted, eventTypeForAction(lifecycle.ActionAcceptWork))
}

func TestBookingOwnership(t *testing.T) {
	t.Skip("Requires mocked store")
}
