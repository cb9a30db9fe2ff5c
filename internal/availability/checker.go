// Package availability decides whether a car can be booked for a date range.
// Only bookings in a blocking status count and both range ends are inclusive.
package availability

import (
	"context"
	"fmt"

	"github.com/Domenick1991/quickrent/internal/domain"
)

type BookingLister interface {
	ListBlockingByCar(ctx context.Context, carID int64) ([]domain.Booking, error)
	ListBlockingBetween(ctx context.Context, rng domain.DateRange) ([]domain.Booking, error)
}

type CarLister interface {
	List(ctx context.Context) ([]domain.Car, error)
}

type Checker struct {
	bookings BookingLister
	cars     CarLister
}

func NewChecker(bookings BookingLister, cars CarLister) *Checker {
	return &Checker{bookings: bookings, cars: cars}
}

// Conflicts returns the bookings in existing that block rng. A booking with
// ID excludeID is ignored; 0 excludes nothing.
func Conflicts(existing []domain.Booking, rng domain.DateRange, excludeID int64) []domain.Booking {
	var out []domain.Booking
	for _, b := range existing {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if !b.Status.IsBlocking() {
			continue
		}
		if b.Range().Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out
}

func (c *Checker) IsOverlapping(ctx context.Context, carID int64, rng domain.DateRange, excludeID int64) (bool, error) {
	existing, err := c.bookings.ListBlockingByCar(ctx, carID)
	if err != nil {
		return false, fmt.Errorf("list bookings for car %d: %w", carID, err)
	}
	return len(Conflicts(existing, rng, excludeID)) > 0, nil
}

// FindAvailableCars returns the IDs of cars with no blocking booking in rng,
// in the order the car lister returns them.
func (c *Checker) FindAvailableCars(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	cars, err := c.cars.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	existing, err := c.bookings.ListBlockingBetween(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("list bookings in range: %w", err)
	}

	busy := make(map[int64]struct{})
	for _, b := range Conflicts(existing, rng, 0) {
		busy[b.CarID] = struct{}{}
	}

	ids := make([]int64, 0, len(cars))
	for _, car := range cars {
		if _, taken := busy[car.ID]; !taken {
			ids = append(ids, car.ID)
		}
	}
	return ids, nil
}
