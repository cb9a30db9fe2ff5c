package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrProfileIncomplete = errors.New("customer profile required")
)

var (
	ErrDateOverlap       = fmt.Errorf("%w: car is already booked for the selected dates", ErrConflict)
	ErrAlreadyStarted    = fmt.Errorf("%w: booking has already started", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: booking status does not allow this action", ErrConflict)
	ErrInvalidCode       = fmt.Errorf("%w: invalid verification code", ErrValidation)
)
