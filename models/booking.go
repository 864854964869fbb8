package models

import (
	"strings"
)

type BookingStatus string

const (
	BookingConfirmed       BookingStatus = "confirmed"
	BookingPaid            BookingStatus = "paid"
	BookingUnpaid          BookingStatus = "unpaid"
	BookingCancelled       BookingStatus = "cancelled"
	BookingRefundRequested BookingStatus = "refund-requested"
	BookingRefunded        BookingStatus = "refunded"
)

var bookingStatusDisplay = map[BookingStatus]string{
	BookingConfirmed:       "Confirmed",
	BookingPaid:            "Paid",
	BookingUnpaid:          "Unpaid",
	BookingCancelled:       "Cancelled",
	BookingRefundRequested: "Refund",
	BookingRefunded:        "Refunded",
}

// ParseBookingStatus accepts stored values and dashboard labels, case-insensitively.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "refund":
		return BookingRefundRequested, true
	case "canceled":
		return BookingCancelled, true
	}
	st := BookingStatus(s)
	if _, ok := bookingStatusDisplay[st]; ok {
		return st, true
	}
	return "", false
}

func (s BookingStatus) Display() string {
	if d, ok := bookingStatusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// IsTerminal reports statuses no owner action can leave.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingRefunded
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch p := PaymentStatus(strings.ToLower(strings.TrimSpace(raw))); p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return p, true
	}
	return "", false
}

type BookingType string

const (
	BookingFlight BookingType = "flight"
	BookingHotel  BookingType = "hotel"
	BookingCar    BookingType = "car"
	BookingTour   BookingType = "tour"
)

// Booking is created by the checkout flow and only mutated from the dashboard.
type Booking struct {
	Base

	UserEmail     string        `gorm:"column:user_email;size:191;index" json:"userEmail"`
	Description   string        `gorm:"column:description;type:text" json:"description"`
	Type          BookingType   `gorm:"column:type;size:16;index" json:"type"`
	Status        BookingStatus `gorm:"column:status;size:32;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:16" json:"paymentStatus"`
	Amount        float64       `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	IsRefundable  bool          `gorm:"column:is_refundable;default:false" json:"isRefundable"`
}

func (Booking) SearchColumns() []string {
	return []string{"user_email", "description", "type", "status"}
}
