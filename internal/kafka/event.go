package kafka

import (
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking_created"
	EventCodeIssued       = "verification_code_issued"
	EventCodeVerified     = "booking_code_verified"
	EventBookingApproved  = "booking_approved"
	EventBookingRejected  = "booking_rejected"
	EventBookingCancelled = "booking_cancelled"
	EventPaymentConfirmed = "payment_confirmed"
)

// BookingEvent is published after a booking change has been committed.
type BookingEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	BookingID       int64     `json:"booking_id"`
	CarID           int64     `json:"car_id"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerName    string    `json:"customer_name,omitempty"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Code            string    `json:"code,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		BookingID:       b.ID,
		CarID:           b.CarID,
		CustomerEmail:   b.CustomerEmail,
		CustomerName:    b.CustomerName,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		StartDate:       b.StartDate.Format(domain.DateLayout),
		EndDate:         b.EndDate.Format(domain.DateLayout),
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      at,
	}
}
