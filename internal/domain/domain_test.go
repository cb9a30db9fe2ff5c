package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateRange_Overlaps(t *testing.T) {
	base := DateRange{Start: day("2025-01-10"), End: day("2025-01-15")}

	testCases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"inside", DateRange{day("2025-01-12"), day("2025-01-13")}, true},
		{"covering", DateRange{day("2025-01-01"), day("2025-01-31")}, true},
		{"touching end", DateRange{day("2025-01-15"), day("2025-01-18")}, true},
		{"touching start", DateRange{day("2025-01-05"), day("2025-01-10")}, true},
		{"day after", DateRange{day("2025-01-16"), day("2025-01-18")}, false},
		{"before", DateRange{day("2025-01-01"), day("2025-01-09")}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base))
		})
	}
}

func TestDateRange_Normalize(t *testing.T) {
	today := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("past start moves to today", func(t *testing.T) {
		r, err := DateRange{Start: day("2025-01-01"), End: day("2025-01-12")}.Normalize(today)
		require.NoError(t, err)
		assert.Equal(t, day("2025-01-10"), r.Start)
		assert.Equal(t, day("2025-01-12"), r.End)
	})

	t.Run("end not after start", func(t *testing.T) {
		r, err := DateRange{Start: day("2025-01-20"), End: day("2025-01-18")}.Normalize(today)
		require.NoError(t, err)
		assert.Equal(t, day("2025-01-21"), r.End)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("missing dates", func(t *testing.T) {
		_, err := DateRange{Start: day("2025-01-20")}.Normalize(today)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestBookingStatus_Lifecycle(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCodeVerified))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusApproved))
	assert.True(t, BookingStatusCodeVerified.CanTransitionTo(BookingStatusRejected))
	assert.True(t, BookingStatusApproved.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusApproved.CanTransitionTo(BookingStatusRejected))
	assert.False(t, BookingStatusCodeVerified.CanTransitionTo(BookingStatusPending))
	assert.False(t, BookingStatusCodeVerified.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusRejected.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusApproved))

	assert.True(t, BookingStatusApproved.IsBlocking())
	assert.False(t, BookingStatusCancelled.IsBlocking())
	assert.True(t, BookingStatusCodeVerified.AwaitingReview())
	assert.False(t, BookingStatusApproved.AwaitingReview())
}

func TestParseEnums(t *testing.T) {
	s, err := ParseBookingStatus("CODE_VERIFIED")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusCodeVerified, s)

	_, err = ParseBookingStatus("approved")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ParsePaymentStatus("REFUNDED")
	assert.Error(t, err)

	role, err := ParseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestIdentity(t *testing.T) {
	assert.False(t, Identity{}.Authenticated())
	assert.False(t, Identity{Role: RoleAdmin}.IsAdmin())
	assert.True(t, Identity{Email: "a@b.c", Role: RoleAdmin}.IsAdmin())
	assert.False(t, Identity{UserID: "42", Role: RoleCustomer}.IsAdmin())
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrDateOverlap, ErrConflict))
	assert.True(t, errors.Is(ErrAlreadyStarted, ErrConflict))
	assert.True(t, errors.Is(ErrInvalidCode, ErrValidation))
	assert.False(t, errors.Is(ErrCodeExpired, ErrConflict))
}
