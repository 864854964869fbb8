package services

import (
	"fmt"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/models"
)

type BookingAction string

const (
	ActionCancel        BookingAction = "cancel"
	ActionRequestRefund BookingAction = "request-refund"
	ActionEdit          BookingAction = "edit"
)

func ParseBookingAction(raw string) (BookingAction, bool) {
	switch a := BookingAction(raw); a {
	case ActionCancel, ActionRequestRefund:
		return a, true
	case "cancel-booking":
		return ActionCancel, true
	case "refund", "request_refund":
		return ActionRequestRefund, true
	}
	return "", false
}

// AvailableActions is what the dashboard may offer actor for b. Privileged
// actors get the full editor; owners get at most one of cancel or refund.
func AvailableActions(b models.Booking, actor access.Actor) []BookingAction {
	if actor.IsPrivileged() {
		return []BookingAction{ActionEdit}
	}
	if !actor.Owns(b.UserEmail) || b.Status.IsTerminal() {
		return []BookingAction{}
	}
	switch {
	case b.Status == models.BookingUnpaid:
		return []BookingAction{ActionCancel}
	case b.Status == models.BookingPaid && b.IsRefundable:
		return []BookingAction{ActionRequestRefund}
	}
	return []BookingAction{}
}

// ownerTransition returns the status an owner action moves b to.
func ownerTransition(b models.Booking, action BookingAction) (models.BookingStatus, error) {
	if b.Status.IsTerminal() {
		return "", fmt.Errorf("%w: booking is already %s", ErrNotAllowed, b.Status.Display())
	}
	switch action {
	case ActionCancel:
		if b.Status == models.BookingUnpaid {
			return models.BookingCancelled, nil
		}
		return "", fmt.Errorf("%w: only unpaid bookings can be cancelled (status is %s)", ErrNotAllowed, b.Status.Display())
	case ActionRequestRefund:
		if b.Status == models.BookingPaid && b.IsRefundable {
			return models.BookingRefundRequested, nil
		}
		return "", fmt.Errorf("%w: refund requires a paid, refundable booking", ErrNotAllowed)
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrNotAllowed, action)
}

// BookingUpdate is a privileged edit. Empty strings and a nil IsRefundable keep
// the stored value.
type BookingUpdate struct {
	Status        string
	PaymentStatus string
	IsRefundable  *bool
}

// applyPrivilegedUpdate computes the edited booking. IsRefundable survives only
// while the resulting status is paid.
func applyPrivilegedUpdate(b models.Booking, upd BookingUpdate) (models.Booking, error) {
	out := b
	if upd.Status != "" {
		st, ok := models.ParseBookingStatus(upd.Status)
		if !ok {
			return b, fmt.Errorf("%w: unknown booking status %q", ErrInvalid, upd.Status)
		}
		out.Status = st
	}
	if upd.PaymentStatus != "" {
		ps, ok := models.ParsePaymentStatus(upd.PaymentStatus)
		if !ok {
			return b, fmt.Errorf("%w: unknown payment status %q", ErrInvalid, upd.PaymentStatus)
		}
		out.PaymentStatus = ps
	}
	if upd.IsRefundable != nil {
		out.IsRefundable = *upd.IsRefundable
	}
	if out.Status != models.BookingPaid {
		out.IsRefundable = false
	}
	return out, nil
}
