// Package pricing computes rental prices in integer cents.
package pricing

import (
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
)

// Days returns the number of charged days for the range, never less than one.
func Days(start, end time.Time) int64 {
	days := domain.DateRange{Start: start, End: end}.Days()
	if days <= 0 {
		return 1
	}
	return int64(days)
}

func ComputePrice(start, end time.Time, ratePerDayCents int64) int64 {
	return Days(start, end) * ratePerDayCents
}
