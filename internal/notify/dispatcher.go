// Package notify turns committed booking events into customer notifications.
package notify

import (
	"context"
	"log"

	"github.com/Domenick1991/quickrent/internal/kafka"
)

type Sender interface {
	SendCode(ctx context.Context, to, name, code string) error
	SendApproved(ctx context.Context, to, name string, bookingID int64) error
	SendRejected(ctx context.Context, to, name string, bookingID int64) error
}

type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Handle never returns a delivery error: notification failures must not
// block the consumer or the booking they describe.
func (d *Dispatcher) Handle(ctx context.Context, event kafka.BookingEvent) error {
	var err error
	switch event.Type {
	case kafka.EventCodeIssued:
		err = d.sender.SendCode(ctx, event.CustomerEmail, event.CustomerName, event.Code)
	case kafka.EventBookingApproved:
		err = d.sender.SendApproved(ctx, event.CustomerEmail, event.CustomerName, event.BookingID)
	case kafka.EventBookingRejected:
		err = d.sender.SendRejected(ctx, event.CustomerEmail, event.CustomerName, event.BookingID)
	default:
		return nil
	}
	if err != nil {
		log.Printf("notify %s for booking %d: %v", event.Type, event.BookingID, err)
	}
	return nil
}
