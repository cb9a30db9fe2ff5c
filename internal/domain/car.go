package domain

import "time"

// Car is a rentable vehicle. IsAvailable is a display hint kept in sync by
// approve/reject/cancel; bookability of a date range is decided by bookings.
type Car struct {
	ID              int64
	NumberPlate     string
	Brand           string
	Model           string
	RentPerDayCents int64
	IsAvailable     bool
	ImageURL        string
	ImagePublicID   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
