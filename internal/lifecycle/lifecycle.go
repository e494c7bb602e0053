package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-service/internal/models"
)

// Errors returned by Transition. Callers match with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrUnauthorized      = errors.New("actor role not permitted for this action")
	ErrPaymentRequired   = errors.New("work acceptance requires a paid booking")
)

// DefaultRejectionReason is recorded when a technician rejects without
// giving a reason.
const DefaultRejectionReason = "Unavailable at this time"

// Action is a requested booking status change.
type Action string

const (
	ActionAccept     Action = "accept"
	ActionReject     Action = "reject"
	ActionCancel     Action = "cancel"
	ActionComplete   Action = "complete"
	ActionAcceptWork Action = "accept_work"
)

type rule struct {
	from string
	to   string
	role string
}

var rules = map[Action]rule{
	ActionAccept:     {from: models.BookingStatusPending, to: models.BookingStatusAccepted, role: models.RoleTechnician},
	ActionReject:     {from: models.BookingStatusPending, to: models.BookingStatusRejected, role: models.RoleTechnician},
	ActionCancel:     {from: models.BookingStatusPending, to: models.BookingStatusCancelled, role: models.RoleCustomer},
	ActionComplete:   {from: models.BookingStatusAccepted, to: models.BookingStatusCompleted, role: models.RoleTechnician},
	ActionAcceptWork: {from: models.BookingStatusCompleted, to: models.BookingStatusWorkAccepted, role: models.RoleCustomer},
}

// Terminal reports whether no further transition is legal from status.
func Terminal(status string) bool {
	switch status {
	case models.BookingStatusRejected, models.BookingStatusWorkAccepted, models.BookingStatusCancelled:
		return true
	}
	return false
}

// Transition applies action to the booking in place. It validates the
// actor role, the current status and the payment gate before touching
// anything; on failure the booking is unchanged. Only status,
// rejection_reason and updated_at are ever modified.
func Transition(b *models.Booking, action Action, actorRole, reason string, now time.Time) error {
	r, ok := rules[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	if actorRole != r.role {
		return fmt.Errorf("%w: action %q requires role %s, got %s", ErrUnauthorized, action, r.role, actorRole)
	}

	if Terminal(b.Status) {
		return fmt.Errorf("%w: booking already in terminal state %q", ErrInvalidTransition, b.Status)
	}

	if b.Status != r.from {
		return fmt.Errorf("%w: cannot %s a booking in state %q", ErrInvalidTransition, action, b.Status)
	}

	if action == ActionAcceptWork && b.PaymentStatus != models.PaymentStatusPaid {
		return fmt.Errorf("%w: payment status is %q", ErrPaymentRequired, b.PaymentStatus)
	}

	b.Status = r.to
	if action == ActionReject {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = DefaultRejectionReason
		}
		b.RejectionReason = reason
	}
	b.UpdatedAt = now

	return nil
}
