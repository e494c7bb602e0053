package reconcile

import (
	"testing"
	"time"

	"booking-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures(amount string) (*models.Payment, *models.Invoice, *models.Booking) {
	p := &models.Payment{
		ID:        "pay-1",
		BookingID: "bkg-1",
		InvoiceID: "inv-1",
		Amount:    decimal.RequireFromString(amount),
		Status:    models.PaymentRecordPending,
	}
	inv := &models.Invoice{
		ID:            "inv-1",
		BookingID:     "bkg-1",
		Total:         decimal.RequireFromString(amount),
		Status:        models.InvoiceStatusSent,
		PaymentStatus: models.PaymentStatusPending,
	}
	b := &models.Booking{
		ID:            "bkg-1",
		Status:        models.BookingStatusCompleted,
		PaymentStatus: models.PaymentStatusPending,
	}
	return p, inv, b
}

func TestRecordOutcomeSucceeded(t *testing.T) {
	p, inv, b := fixtures("110.00")
	now := time.Now()

	result, err := RecordOutcome(p, inv, b, OutcomeSucceeded, now)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	assert.Equal(t, models.PaymentRecordCompleted, p.Status)
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, models.PaymentStatusPaid, inv.PaymentStatus)
	assert.Equal(t, p.ID, inv.PaymentID)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, now, *inv.PaidAt)

	assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, models.BookingStatusCompleted, b.Status, "booking status must not change")
}

func TestRecordOutcomeFailed(t *testing.T) {
	p, inv, b := fixtures("110.00")

	result, err := RecordOutcome(p, inv, b, OutcomeFailed, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Applied)

	assert.Equal(t, models.PaymentRecordFailed, p.Status)

	// A failed payment leaves the invoice and booking payable.
	assert.Equal(t, models.InvoiceStatusSent, inv.Status)
	assert.Equal(t, models.PaymentStatusPending, inv.PaymentStatus)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
}

func TestRecordOutcomeRetrySameOutcomeIsNoop(t *testing.T) {
	p, inv, b := fixtures("110.00")
	now := time.Now()

	first, err := RecordOutcome(p, inv, b, OutcomeSucceeded, now)
	require.NoError(t, err)
	require.True(t, first.Applied)
	paidAt := *inv.PaidAt

	second, err := RecordOutcome(p, inv, b, OutcomeSucceeded, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, paidAt, *inv.PaidAt, "retry must not move the paid timestamp")
}

func TestRecordOutcomeConflictingOutcome(t *testing.T) {
	p, inv, b := fixtures("110.00")

	_, err := RecordOutcome(p, inv, b, OutcomeSucceeded, time.Now())
	require.NoError(t, err)

	_, err = RecordOutcome(p, inv, b, OutcomeFailed, time.Now())
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestRecordOutcomeAmountMismatch(t *testing.T) {
	p, inv, b := fixtures("110.00")
	inv.Total = decimal.RequireFromString("120.00")

	_, err := RecordOutcome(p, inv, b, OutcomeSucceeded, time.Now())
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, models.PaymentRecordPending, p.Status, "payment must be unchanged")
}

func TestRecordOutcomeInvoiceMismatch(t *testing.T) {
	p, inv, b := fixtures("110.00")
	p.InvoiceID = "inv-other"

	_, err := RecordOutcome(p, inv, b, OutcomeSucceeded, time.Now())
	assert.ErrorIs(t, err, ErrInvoiceMismatch)
}

func TestRecordOutcomeBookingMismatch(t *testing.T) {
	p, inv, b := fixtures("110.00")
	b.ID = "bkg-other"

	_, err := RecordOutcome(p, inv, b, OutcomeSucceeded, time.Now())
	assert.ErrorIs(t, err, ErrInvoiceMismatch)
}

func TestRecordOutcomeUnknownOutcome(t *testing.T) {
	p, inv, b := fixtures("110.00")

	_, err := RecordOutcome(p, inv, b, Outcome("refunded"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}
