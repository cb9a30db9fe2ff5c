package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var (
	customerID = domain.Identity{UserID: "u-1", Email: "ana@example.com", Role: domain.RoleCustomer}
	adminID    = domain.Identity{UserID: "u-9", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	bookings *MockBookingUseCase
	cars     *MockCarUseCase
}

func newTestServer() *testServer {
	s := &testServer{bookings: &MockBookingUseCase{}, cars: &MockCarUseCase{}}
	s.router = NewRouter(RouterConfig{
		JWTSecret:            testSecret,
		PaymentWebhookSecret: "hook",
		AllowedOrigins:       []string{"http://localhost:3000"},
		CodeTTL:              5 * time.Minute,
	}, s.cars, s.bookings)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, id *domain.Identity, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		token, err := IssueToken(*id, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sampleBooking() *domain.Booking {
	start, _ := domain.ParseDay("2025-01-11")
	end, _ := domain.ParseDay("2025-01-14")
	generated := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              10,
		CarID:           7,
		CustomerID:      1,
		CustomerEmail:   "ana@example.com",
		StartDate:       start,
		EndDate:         end,
		TotalPriceCents: 15000,
		PaymentStatus:   domain.PaymentStatusPending,
		Status:          domain.BookingStatusPending,
		Code:            "123456",
		CodeGeneratedAt: &generated,
	}
}

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("car 3: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrDateOverlap, http.StatusConflict, "date_overlap"},
		{domain.ErrAlreadyStarted, http.StatusConflict, "already_started"},
		{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{domain.ErrConflict, http.StatusConflict, "conflict"},
		{domain.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},
		{domain.ErrValidation, http.StatusBadRequest, "validation"},
		{domain.ErrCodeExpired, http.StatusGone, "code_expired"},
		{domain.ErrProfileIncomplete, http.StatusPreconditionRequired, "profile_incomplete"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			status, code := statusFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestParseIdentity(t *testing.T) {
	token, err := IssueToken(adminID, testSecret)
	require.NoError(t, err)

	id, err := ParseIdentity(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, adminID, id)

	_, err = ParseIdentity(token, "other-secret")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	noRole, err := IssueToken(domain.Identity{UserID: "u-3", Email: "c@example.com"}, testSecret)
	require.NoError(t, err)
	id, err = ParseIdentity(noRole, testSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, id.Role)
}

func TestCars_List(t *testing.T) {
	s := newTestServer()
	s.cars.On("List", mock.Anything).Return([]domain.Car{{ID: 1, Brand: "Perodua", Model: "Axia", RentPerDayCents: 7000}}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/cars", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var cars []carResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cars))
	require.Len(t, cars, 1)
	assert.Equal(t, "Axia", cars[0].Model)
	assert.Equal(t, int64(7000), cars[0].RentPerDayCents)
}

func TestCars_Available(t *testing.T) {
	s := newTestServer()
	start, _ := domain.ParseDay("2025-02-01")
	end, _ := domain.ParseDay("2025-02-03")
	s.cars.On("Available", mock.Anything, start, end).Return([]domain.Car{{ID: 2}}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/cars/available?start=2025-02-01&end=2025-02-03", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/cars/available?start=tomorrow&end=2025-02-03", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decode(t, w)["code"])
	s.cars.AssertExpectations(t)
}

func TestCars_GetNotFound(t *testing.T) {
	s := newTestServer()
	s.cars.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	w := s.do(t, http.MethodGet, "/api/cars/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/cars/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookings_Create(t *testing.T) {
	s := newTestServer()
	b := sampleBooking()
	input := booking.CreateBookingInput{CarID: 7, StartDate: b.StartDate, EndDate: b.EndDate}
	s.bookings.On("CreateBooking", mock.Anything, customerID, input).
		Return(&booking.CreateBookingResult{Booking: b, Warnings: []string{"late code"}}, nil).Once()

	w := s.do(t, http.MethodPost, "/api/bookings", &customerID, createBookingRequest{CarID: 7, StartDate: "2025-01-11", EndDate: "2025-01-14"})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, float64(15000), body["total_price_cents"])
	assert.Equal(t, "2025-01-10T09:05:00Z", body["code_expires_at"])
	assert.Equal(t, []any{"late code"}, body["warnings"])
	assert.NotContains(t, w.Body.String(), "123456")
}

func TestBookings_CreateErrors(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/api/bookings", nil, createBookingRequest{CarID: 7, StartDate: "2025-01-11", EndDate: "2025-01-14"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings", &customerID, createBookingRequest{CarID: 7, StartDate: "11/01/2025", EndDate: "2025-01-14"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.bookings.On("CreateBooking", mock.Anything, customerID, mock.Anything).Return(nil, domain.ErrDateOverlap).Once()
	w = s.do(t, http.MethodPost, "/api/bookings", &customerID, createBookingRequest{CarID: 7, StartDate: "2025-01-11", EndDate: "2025-01-14"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "date_overlap", decode(t, w)["code"])
}

func TestBookings_InvalidToken(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.bookings.AssertNotCalled(t, "ListMyBookings")
}

func TestBookings_Verify(t *testing.T) {
	s := newTestServer()
	verified := sampleBooking()
	verified.Status = domain.BookingStatusCodeVerified
	verified.ClearCode()
	s.bookings.On("VerifyCode", mock.Anything, customerID, int64(10), "123456").Return(verified, nil).Once()

	w := s.do(t, http.MethodPost, "/api/bookings/10/verify", &customerID, verifyCodeRequest{Code: "123456"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CODE_VERIFIED", decode(t, w)["status"])

	cancelled := sampleBooking()
	cancelled.Status = domain.BookingStatusCancelled
	s.bookings.On("VerifyCode", mock.Anything, customerID, int64(11), "123456").Return(cancelled, domain.ErrCodeExpired).Once()
	w = s.do(t, http.MethodPost, "/api/bookings/11/verify", &customerID, verifyCodeRequest{Code: "123456"})
	assert.Equal(t, http.StatusGone, w.Code)

	s.bookings.On("VerifyCode", mock.Anything, customerID, int64(12), "000000").Return(nil, domain.ErrInvalidCode).Once()
	w = s.do(t, http.MethodPost, "/api/bookings/12/verify", &customerID, verifyCodeRequest{Code: "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_code", decode(t, w)["code"])

	w = s.do(t, http.MethodPost, "/api/bookings/12/verify", &customerID, verifyCodeRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookings_CancelAndList(t *testing.T) {
	s := newTestServer()
	s.bookings.On("Cancel", mock.Anything, customerID, int64(10)).Return(nil, domain.ErrAlreadyStarted).Once()
	s.bookings.On("ListMyBookings", mock.Anything, customerID).Return([]domain.Booking{*sampleBooking()}, nil).Once()

	w := s.do(t, http.MethodPost, "/api/bookings/10/cancel", &customerID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_started", decode(t, w)["code"])

	w = s.do(t, http.MethodGet, "/api/bookings", &customerID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2025-01-11", list[0].StartDate)
}

func TestAdmin_Routes(t *testing.T) {
	s := newTestServer()
	approved := sampleBooking()
	approved.Status = domain.BookingStatusApproved
	s.bookings.On("Approve", mock.Anything, adminID, int64(10)).Return(approved, nil).Once()
	s.bookings.On("Dashboard", mock.Anything, adminID).Return(&booking.DashboardStats{TotalCars: 5, PendingBookings: 2}, nil).Once()

	w := s.do(t, http.MethodPost, "/api/admin/bookings/10/approve", &adminID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decode(t, w)["status"])

	w = s.do(t, http.MethodGet, "/api/admin/dashboard", &adminID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["pending_bookings"])

	w = s.do(t, http.MethodPost, "/api/admin/bookings/10/reject", &customerID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/bookings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.bookings.AssertNotCalled(t, "Reject")
}

func TestPayments_Confirm(t *testing.T) {
	s := newTestServer()
	paid := sampleBooking()
	paid.PaymentStatus = domain.PaymentStatusPaid
	s.bookings.On("ConfirmPayment", mock.Anything, int64(10)).Return(paid, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/payments/10/confirm", nil)
	req.Header.Set(webhookSecretHeader, "hook")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", decode(t, w)["payment_status"])

	req = httptest.NewRequest(http.MethodPost, "/api/payments/10/confirm", nil)
	req.Header.Set(webhookSecretHeader, "wrong")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.bookings.AssertNumberOfCalls(t, "ConfirmPayment", 1)
}

func TestCORSMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodOptions, "/api/cars", nil)
	c.Request.Header.Set("Origin", "http://localhost:3000")

	CORSMiddleware([]string{"http://localhost:3000"})(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
