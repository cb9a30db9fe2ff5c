package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending      BookingStatus = "PENDING"
	BookingStatusCodeVerified BookingStatus = "CODE_VERIFIED"
	BookingStatusApproved     BookingStatus = "APPROVED"
	BookingStatusRejected     BookingStatus = "REJECTED"
	BookingStatusCancelled    BookingStatus = "CANCELLED"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, s)
	}
	return status, nil
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusCodeVerified, BookingStatusApproved,
		BookingStatusRejected, BookingStatusCancelled:
		return true
	}
	return false
}

// IsBlocking reports whether a booking in this status holds its date range.
func (s BookingStatus) IsBlocking() bool {
	switch s {
	case BookingStatusPending, BookingStatusCodeVerified, BookingStatusApproved:
		return true
	case BookingStatusRejected, BookingStatusCancelled:
		return false
	}
	return false
}

// AwaitingReview reports whether an admin may approve or reject.
func (s BookingStatus) AwaitingReview() bool {
	return s == BookingStatusPending || s == BookingStatusCodeVerified
}

// CanTransitionTo encodes the lifecycle graph.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		switch next {
		case BookingStatusCodeVerified, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled:
			return true
		}
	case BookingStatusCodeVerified:
		return next == BookingStatusApproved || next == BookingStatusRejected
	case BookingStatusApproved:
		return next == BookingStatusCancelled
	case BookingStatusRejected, BookingStatusCancelled:
		return false
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown payment status %q", ErrValidation, s)
	}
	return status, nil
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

type Booking struct {
	ID              int64
	CarID           int64
	CustomerID      int64
	CustomerEmail   string
	CustomerName    string
	StartDate       time.Time
	EndDate         time.Time
	TotalPriceCents int64
	PaymentStatus   PaymentStatus
	Status          BookingStatus
	Code            string
	CodeGeneratedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// ClearCode drops a consumed or obsolete verification code.
func (b *Booking) ClearCode() {
	b.Code = ""
	b.CodeGeneratedAt = nil
}
