// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/inflight"
	"github.com/abdur28/boarding-sky-sub000/metrics"
	"github.com/abdur28/boarding-sky-sub000/models"
	"github.com/abdur28/boarding-sky-sub000/notify"
)

// BookingView is a booking as shown to one actor.
type BookingView struct {
	models.Booking
	DisplayStatus string          `json:"displayStatus"`
	Actions       []BookingAction `json:"actions"`
}

func newBookingView(b models.Booking, actor access.Actor) BookingView {
	return BookingView{Booking: b, DisplayStatus: b.Status.Display(), Actions: AvailableActions(b, actor)}
}

// BookingService wraps *gorm.DB with the booking status workflow.
type BookingService struct {
	DB       *gorm.DB
	guard    inflight.Guard
	notifier notify.Notifier
}

func NewBookingService(db *gorm.DB, guard inflight.Guard, notifier notify.Notifier) *BookingService {
	if guard == nil {
		guard = inflight.NewMemoryGuard()
	}
	return &BookingService{DB: db, guard: guard, notifier: notifier}
}

// List returns every booking to privileged actors and only the actor's own
// bookings to everybody else.
func (s *BookingService) List(ctx context.Context, actor access.Actor, filter string) ([]BookingView, error) {
	q := s.DB.WithContext(ctx).Model(&models.Booking{})
	if !actor.IsPrivileged() {
		email := strings.ToLower(strings.TrimSpace(actor.Email))
		if email == "" {
			return []BookingView{}, nil
		}
		q = q.Where("LOWER(user_email) = ?", email)
	}
	if f := strings.TrimSpace(filter); f != "" {
		q = applyFilter(q, models.Booking{}, f)
	}

	var list []models.Booking
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	out := make([]BookingView, 0, len(list))
	for _, b := range list {
		out = append(out, newBookingView(b, actor))
	}
	return out, nil
}

func (s *BookingService) Get(ctx context.Context, actor access.Actor, id string) (BookingView, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return BookingView{}, err
	}
	if !actor.IsPrivileged() && !actor.Owns(b.UserEmail) {
		return BookingView{}, fmt.Errorf("booking %s: %w", id, ErrForbidden)
	}
	return newBookingView(b, actor), nil
}

// ApplyAction runs an owner action (cancel / request-refund). The status change
// is conditional on the status that was checked, so a concurrent change makes
// the call fail instead of overwriting it.
func (s *BookingService) ApplyAction(ctx context.Context, actor access.Actor, id string, action BookingAction) (BookingView, error) {
	var updated models.Booking
	var from models.BookingStatus

	err := inflight.Do(ctx, s.guard, "booking:"+id, func(ctx context.Context) error {
		b, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if !actor.Owns(b.UserEmail) {
			return fmt.Errorf("booking %s: %w", id, ErrForbidden)
		}

		next, err := ownerTransition(b, action)
		if err != nil {
			return err
		}

		q := s.DB.WithContext(ctx).Model(&models.Booking{}).
			Where("id = ? AND status = ?", id, b.Status)
		if action == ActionRequestRefund {
			q = q.Where("is_refundable = ?", true)
		}
		res := q.Updates(map[string]interface{}{"status": next})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: booking %s changed concurrently", ErrNotAllowed, id)
		}

		from = b.Status
		updated, err = s.load(ctx, id)
		return err
	})
	if err != nil {
		return BookingView{}, err
	}

	s.afterTransition(ctx, actor, updated, from)
	return newBookingView(updated, actor), nil
}

// Update is the privileged editor: any status, any payment status, and
// isRefundable persisted only while paid.
func (s *BookingService) Update(ctx context.Context, actor access.Actor, id string, upd BookingUpdate) (BookingView, error) {
	if !actor.IsPrivileged() {
		return BookingView{}, fmt.Errorf("booking %s: %w", id, ErrForbidden)
	}

	var updated models.Booking
	var from models.BookingStatus

	err := inflight.Do(ctx, s.guard, "booking:"+id, func(ctx context.Context) error {
		b, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		next, err := applyPrivilegedUpdate(b, upd)
		if err != nil {
			return err
		}

		if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         next.Status,
				"payment_status": next.PaymentStatus,
				"is_refundable":  next.IsRefundable,
			}).Error; err != nil {
			return fmt.Errorf("failed to update booking %s: %w", id, err)
		}

		from = b.Status
		updated, err = s.load(ctx, id)
		return err
	})
	if err != nil {
		return BookingView{}, err
	}

	if updated.Status != from {
		s.afterTransition(ctx, actor, updated, from)
	}
	return newBookingView(updated, actor), nil
}

func (s *BookingService) load(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	id = strings.TrimSpace(id)
	if id == "" {
		return b, fmt.Errorf("booking: %w", ErrNotFound)
	}
	if err := s.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return b, fmt.Errorf("failed to retrieve booking %s: %w", id, err)
	}
	return b, nil
}

// afterTransition records and announces a committed change. Notification
// failures are logged only.
func (s *BookingService) afterTransition(ctx context.Context, actor access.Actor, b models.Booking, from models.BookingStatus) {
	metrics.BookingTransitions.WithLabelValues(string(from), string(b.Status)).Inc()
	log.Printf("booking %s: %s -> %s by %s", b.ID, from, b.Status, notify.MaskEmail(actor.Email))

	if s.notifier == nil {
		return
	}
	ev := notify.BookingStatusChanged{
		BookingID:  b.ID,
		UserEmail:  b.UserEmail,
		Type:       b.Type,
		From:       from,
		To:         b.Status,
		ChangedBy:  string(actor.Role),
		Amount:     b.Amount,
		OccurredAt: time.Now().UTC(),
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := s.notifier.BookingStatusChanged(nctx, ev); err != nil {
		log.Printf("⚠️  booking %s notification failed: %v", b.ID, err)
	}
}
