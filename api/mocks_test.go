package api

import (
	"context"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) result(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, id domain.Identity, input booking.CreateBookingInput) (*booking.CreateBookingResult, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CreateBookingResult), args.Error(1)
}

func (m *MockBookingUseCase) VerifyCode(ctx context.Context, id domain.Identity, bookingID int64, code string) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, bookingID, code))
}

func (m *MockBookingUseCase) Approve(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, bookingID))
}

func (m *MockBookingUseCase) Reject(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, bookingID))
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, bookingID))
}

func (m *MockBookingUseCase) ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return m.result(m.Called(ctx, bookingID))
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return m.result(m.Called(ctx, id, bookingID))
}

func (m *MockBookingUseCase) ListMyBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Dashboard(ctx context.Context, id domain.Identity) (*booking.DashboardStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.DashboardStats), args.Error(1)
}

func (m *MockBookingUseCase) ExpireStaleCodes(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockCarUseCase struct {
	mock.Mock
}

func (m *MockCarUseCase) List(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockCarUseCase) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarUseCase) Available(ctx context.Context, start, end time.Time) ([]domain.Car, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.Car), args.Error(1)
}
