package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdur28/boarding-sky-sub000/models"
)

// BookingStatusChanged is emitted after a booking status change is committed.
type BookingStatusChanged struct {
	BookingID  string               `json:"bookingId"`
	UserEmail  string               `json:"userEmail"`
	Type       models.BookingType   `json:"type"`
	From       models.BookingStatus `json:"from"`
	To         models.BookingStatus `json:"to"`
	ChangedBy  string               `json:"changedBy"`
	Amount     float64              `json:"amount"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type Notifier interface {
	BookingStatusChanged(ctx context.Context, ev BookingStatusChanged) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) BookingStatusChanged(ctx context.Context, ev BookingStatusChanged) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.BookingStatusChanged(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MaskEmail hides most of an address for log lines.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 && len(domainParts[0]) > 1 {
		domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
