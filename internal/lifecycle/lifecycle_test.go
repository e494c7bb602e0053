package lifecycle

import (
	"testing"
	"time"

	"booking-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(status, paymentStatus string) *models.Booking {
	return &models.Booking{
		ID:            "b-1",
		Status:        status,
		PaymentStatus: paymentStatus,
	}
}

func TestTransitionHappyPaths(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		from          string
		paymentStatus string
		action        Action
		role          string
		want          string
	}{
		{"accept", models.BookingStatusPending, models.PaymentStatusPending, ActionAccept, models.RoleTechnician, models.BookingStatusAccepted},
		{"reject", models.BookingStatusPending, models.PaymentStatusPending, ActionReject, models.RoleTechnician, models.BookingStatusRejected},
		{"cancel", models.BookingStatusPending, models.PaymentStatusPending, ActionCancel, models.RoleCustomer, models.BookingStatusCancelled},
		{"complete", models.BookingStatusAccepted, models.PaymentStatusPending, ActionComplete, models.RoleTechnician, models.BookingStatusCompleted},
		{"accept work after payment", models.BookingStatusCompleted, models.PaymentStatusPaid, ActionAcceptWork, models.RoleCustomer, models.BookingStatusWorkAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.from, tt.paymentStatus)

			err := Transition(b, tt.action, tt.role, "", now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Status)
			assert.Equal(t, now, b.UpdatedAt)
		})
	}
}

func TestTransitionFromWrongState(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		action Action
		role   string
	}{
		{"accept an accepted booking", models.BookingStatusAccepted, ActionAccept, models.RoleTechnician},
		{"complete a pending booking", models.BookingStatusPending, ActionComplete, models.RoleTechnician},
		{"cancel an accepted booking", models.BookingStatusAccepted, ActionCancel, models.RoleCustomer},
		{"accept work before completion", models.BookingStatusAccepted, ActionAcceptWork, models.RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.from, models.PaymentStatusPaid)

			err := Transition(b, tt.action, tt.role, "", time.Now())
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, b.Status, "booking must be unchanged on failure")
		})
	}
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	terminal := []string{
		models.BookingStatusRejected,
		models.BookingStatusWorkAccepted,
		models.BookingStatusCancelled,
	}
	actions := []Action{ActionAccept, ActionReject, ActionCancel, ActionComplete, ActionAcceptWork}
	roles := map[Action]string{
		ActionAccept:     models.RoleTechnician,
		ActionReject:     models.RoleTechnician,
		ActionCancel:     models.RoleCustomer,
		ActionComplete:   models.RoleTechnician,
		ActionAcceptWork: models.RoleCustomer,
	}

	for _, status := range terminal {
		assert.True(t, Terminal(status), status)

		for _, action := range actions {
			b := newBooking(status, models.PaymentStatusPaid)

			err := Transition(b, action, roles[action], "", time.Now())
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", action, status)
			assert.Equal(t, status, b.Status)
		}
	}
}

func TestTransitionRoleAuthorization(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		role   string
	}{
		{"customer cannot accept", ActionAccept, models.RoleCustomer},
		{"customer cannot reject", ActionReject, models.RoleCustomer},
		{"technician cannot cancel", ActionCancel, models.RoleTechnician},
		{"technician cannot accept work", ActionAcceptWork, models.RoleTechnician},
		{"admin cannot complete", ActionComplete, models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(models.BookingStatusPending, models.PaymentStatusPending)

			err := Transition(b, tt.action, tt.role, "", time.Now())
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, models.BookingStatusPending, b.Status)
		})
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	b := newBooking(models.BookingStatusPending, models.PaymentStatusPending)

	err := Transition(b, Action("approve"), models.RoleTechnician, "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectRecordsReason(t *testing.T) {
	b := newBooking(models.BookingStatusPending, models.PaymentStatusPending)

	err := Transition(b, ActionReject, models.RoleTechnician, "Fully booked this week", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Fully booked this week", b.RejectionReason)
}

func TestRejectWithoutReasonUsesDefault(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		b := newBooking(models.BookingStatusPending, models.PaymentStatusPending)

		err := Transition(b, ActionReject, models.RoleTechnician, reason, time.Now())
		require.NoError(t, err)
		assert.Equal(t, DefaultRejectionReason, b.RejectionReason)
	}
}

func TestAcceptWorkRequiresPayment(t *testing.T) {
	b := newBooking(models.BookingStatusCompleted, models.PaymentStatusPending)

	err := Transition(b, ActionAcceptWork, models.RoleCustomer, "", time.Now())
	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	b.PaymentStatus = models.PaymentStatusPaid
	err = Transition(b, ActionAcceptWork, models.RoleCustomer, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusWorkAccepted, b.Status)
}

func TestNonTerminalStates(t *testing.T) {
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusAccepted,
		models.BookingStatusCompleted,
	} {
		assert.False(t, Terminal(status), status)
	}
}
