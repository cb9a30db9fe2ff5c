package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/kafka"
	"github.com/Domenick1991/quickrent/internal/otp"
	"github.com/Domenick1991/quickrent/internal/pricing"
	"github.com/Domenick1991/quickrent/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, id domain.Identity, input CreateBookingInput) (*CreateBookingResult, error)
	VerifyCode(ctx context.Context, id domain.Identity, bookingID int64, code string) (*domain.Booking, error)
	Approve(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error)
	ListBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error)
	Dashboard(ctx context.Context, id domain.Identity) (*DashboardStats, error)
	ExpireStaleCodes(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the cached car list that must be dropped when availability flags
// change.
type Cache interface {
	InvalidateCars(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Availability interface {
	IsOverlapping(ctx context.Context, carID int64, rng domain.DateRange, excludeID int64) (bool, error)
}

type CodeIssuer interface {
	Generate() (string, error)
	IsExpired(generatedAt, now time.Time) bool
	TTL() time.Duration
}

type BookingService struct {
	bookings            repository.BookingRepository
	cars                repository.CarRepository
	customers           repository.CustomerRepository
	availability        Availability
	codes               CodeIssuer
	cache               Cache
	producer            Producer
	bookingTopic        string
	notificationsTopic  string
	requireVerification bool
	now                 func() time.Time
}

type CreateBookingInput struct {
	CarID     int64     `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreateBookingResult carries the stored booking plus non-fatal problems,
// such as a verification code that could not be queued for delivery.
type CreateBookingResult struct {
	Booking  *domain.Booking
	Warnings []string
}

type DashboardStats struct {
	TotalCustomers  int `json:"total_customers"`
	TotalCars       int `json:"total_cars"`
	TotalBookings   int `json:"total_bookings"`
	PendingBookings int `json:"pending_bookings"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithVerification toggles the one-time code step. Without it a booking is
// approved by payment confirmation or by an admin.
func WithVerification(required bool) BookingServiceOption {
	return func(s *BookingService) {
		s.requireVerification = required
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithCodeIssuer(codes CodeIssuer) BookingServiceOption {
	return func(s *BookingService) {
		s.codes = codes
	}
}

// NewBookingService wires the lifecycle. cache and producer may be nil.
func NewBookingService(
	bookings repository.BookingRepository,
	cars repository.CarRepository,
	customers repository.CustomerRepository,
	availability Availability,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:            bookings,
		cars:                cars,
		customers:           customers,
		availability:        availability,
		codes:               otp.NewGenerator(otp.DefaultTTL),
		cache:               cache,
		producer:            producer,
		bookingTopic:        bookingTopic,
		requireVerification: true,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, id domain.Identity, input CreateBookingInput) (*CreateBookingResult, error) {
	if !id.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	car, err := s.cars.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerFor(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rng, err := domain.DateRange{Start: input.StartDate, End: input.EndDate}.Normalize(now)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		CarID:           car.ID,
		CustomerID:      customer.ID,
		CustomerEmail:   customer.Email,
		CustomerName:    customer.FullName(),
		StartDate:       rng.Start,
		EndDate:         rng.End,
		TotalPriceCents: pricing.ComputePrice(rng.Start, rng.End, car.RentPerDayCents),
		PaymentStatus:   domain.PaymentStatusPending,
		Status:          domain.BookingStatusPending,
	}

	if s.requireVerification {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, err
		}
		generatedAt := now.UTC()
		booking.Code = code
		booking.CodeGeneratedAt = &generatedAt
	}

	if err := s.insertExclusive(ctx, booking); err != nil {
		return nil, err
	}

	result := &CreateBookingResult{Booking: booking}
	if err := s.publish(ctx, kafka.EventBookingCreated, booking); err != nil {
		log.Printf("WARNING: Failed to publish %s event for booking %d: %v", kafka.EventBookingCreated, booking.ID, err)
	}
	if booking.Code != "" {
		if err := s.publish(ctx, kafka.EventCodeIssued, booking); err != nil {
			log.Printf("WARNING: Failed to queue verification code for booking %d: %v", booking.ID, err)
			result.Warnings = append(result.Warnings, "verification code could not be sent, please request a new booking if it does not arrive")
		}
	}
	return result, nil
}

// insertExclusive pre-checks availability and inserts. The repository repeats
// the check under a row lock on the car, which is what makes concurrent
// creates for the same car exclusive.
func (s *BookingService) insertExclusive(ctx context.Context, booking *domain.Booking) error {
	overlapping, err := s.availability.IsOverlapping(ctx, booking.CarID, booking.Range(), 0)
	if err != nil {
		return err
	}
	if overlapping {
		return domain.ErrDateOverlap
	}

	return s.bookings.Create(ctx, booking)
}

func (s *BookingService) VerifyCode(ctx context.Context, id domain.Identity, bookingID int64, code string) (*domain.Booking, error) {
	booking, err := s.ownedBooking(ctx, id, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending || booking.Code == "" || booking.CodeGeneratedAt == nil {
		return nil, domain.ErrInvalidTransition
	}

	if expired, err := s.cancelIfCodeExpired(ctx, booking); expired {
		if errors.Is(err, domain.ErrCodeExpired) {
			return booking, err
		}
		return nil, err
	}

	if !otp.Equal(code, booking.Code) {
		return nil, domain.ErrInvalidCode
	}

	booking.Status = domain.BookingStatusCodeVerified
	booking.ClearCode()
	if err := s.save(ctx, booking, domain.BookingStatusPending); err != nil {
		return nil, err
	}
	s.publishLogged(ctx, kafka.EventCodeVerified, booking)
	return booking, nil
}

// cancelIfCodeExpired cancels a pending booking whose code has outlived the
// TTL and reports ErrCodeExpired. A booking with no code is left alone.
func (s *BookingService) cancelIfCodeExpired(ctx context.Context, booking *domain.Booking) (bool, error) {
	if booking.Status != domain.BookingStatusPending || booking.CodeGeneratedAt == nil {
		return false, nil
	}
	if !s.codes.IsExpired(*booking.CodeGeneratedAt, s.now()) {
		return false, nil
	}

	booking.Status = domain.BookingStatusCancelled
	booking.ClearCode()
	if err := s.save(ctx, booking, domain.BookingStatusPending); err != nil {
		return true, err
	}
	s.publishLogged(ctx, kafka.EventBookingCancelled, booking)
	return true, domain.ErrCodeExpired
}

func (s *BookingService) Approve(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return s.review(ctx, id, bookingID, domain.BookingStatusApproved)
}

func (s *BookingService) Reject(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	return s.review(ctx, id, bookingID, domain.BookingStatusRejected)
}

// review applies an admin decision. Bookings not awaiting review, including
// ones decided by a concurrent request, are returned unchanged.
func (s *BookingService) review(ctx context.Context, id domain.Identity, bookingID int64, decision domain.BookingStatus) (*domain.Booking, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.AwaitingReview() {
		return booking, nil
	}

	previous := booking.Status
	booking.Status = decision
	booking.ClearCode()

	eventType := kafka.EventBookingApproved
	switch decision {
	case domain.BookingStatusApproved:
		booking.PaymentStatus = domain.PaymentStatusPaid
	case domain.BookingStatusRejected:
		booking.PaymentStatus = domain.PaymentStatusFailed
		eventType = kafka.EventBookingRejected
	default:
		return nil, fmt.Errorf("%w: %s is not a review decision", domain.ErrValidation, decision)
	}

	if err := s.bookings.Update(ctx, booking, previous); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return s.bookings.GetByID(ctx, bookingID)
		}
		return nil, err
	}

	s.syncCarFlag(ctx, booking.CarID, decision == domain.BookingStatusApproved)
	s.publishLogged(ctx, eventType, booking)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	booking, err := s.ownedBooking(ctx, id, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}
	if !booking.StartDate.After(domain.Day(s.now())) {
		return nil, domain.ErrAlreadyStarted
	}

	previous := booking.Status
	booking.Status = domain.BookingStatusCancelled
	booking.ClearCode()
	if err := s.save(ctx, booking, previous); err != nil {
		return nil, err
	}

	if previous == domain.BookingStatusApproved {
		s.syncCarFlag(ctx, booking.CarID, false)
	}
	s.publishLogged(ctx, kafka.EventBookingCancelled, booking)
	return booking, nil
}

// ConfirmPayment is the payment provider callback. In the flow without
// verification codes it is also the step that approves a pending booking.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid {
		return booking, nil
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusApproved {
		return nil, domain.ErrInvalidTransition
	}
	if expired, err := s.cancelIfCodeExpired(ctx, booking); expired {
		return nil, err
	}

	previous := booking.Status
	booking.PaymentStatus = domain.PaymentStatusPaid
	approve := !s.requireVerification && previous == domain.BookingStatusPending
	if approve {
		booking.Status = domain.BookingStatusApproved
		booking.ClearCode()
	}

	if err := s.save(ctx, booking, previous); err != nil {
		return nil, err
	}

	s.publishLogged(ctx, kafka.EventPaymentConfirmed, booking)
	if approve {
		s.syncCarFlag(ctx, booking.CarID, true)
		s.publishLogged(ctx, kafka.EventBookingApproved, booking)
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	if id.IsAdmin() {
		return s.bookings.GetByID(ctx, bookingID)
	}
	return s.ownedBooking(ctx, id, bookingID)
}

func (s *BookingService) ListMyBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error) {
	if !id.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	customer, err := s.customerFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByCustomer(ctx, customer.ID)
}

func (s *BookingService) ListBookings(ctx context.Context, id domain.Identity) ([]domain.Booking, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx)
}

func (s *BookingService) Dashboard(ctx context.Context, id domain.Identity) (*DashboardStats, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var (
		stats DashboardStats
		err   error
	)
	if stats.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCars, err = s.cars.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingBookings, err = s.bookings.Count(ctx, domain.BookingStatusPending, domain.BookingStatusCodeVerified); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExpireStaleCodes cancels pending bookings whose code expired without being
// verified, the same outcome a late VerifyCode call would have.
func (s *BookingService) ExpireStaleCodes(ctx context.Context) ([]domain.Booking, error) {
	now := s.now()
	candidates, err := s.bookings.ListCodeExpired(ctx, now.Add(-s.codes.TTL()))
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Booking, 0, len(candidates))
	for i := range candidates {
		b := &candidates[i]
		if b.CodeGeneratedAt == nil || !s.codes.IsExpired(*b.CodeGeneratedAt, now) {
			continue
		}
		b.Status = domain.BookingStatusCancelled
		b.ClearCode()
		if err := s.bookings.Update(ctx, b, domain.BookingStatusPending); err != nil {
			if errors.Is(err, repository.ErrStale) {
				continue
			}
			return expired, err
		}
		s.publishLogged(ctx, kafka.EventBookingCancelled, b)
		expired = append(expired, *b)
	}
	return expired, nil
}

func requireAdmin(id domain.Identity) error {
	if !id.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *BookingService) customerFor(ctx context.Context, id domain.Identity) (*domain.Customer, error) {
	if id.Email == "" {
		return nil, domain.ErrProfileIncomplete
	}
	customer, err := s.customers.GetByEmail(ctx, id.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProfileIncomplete
	}
	return customer, err
}

// ownedBooking loads a booking that must belong to the calling customer.
func (s *BookingService) ownedBooking(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error) {
	if !id.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerFor(ctx, id)
	if errors.Is(err, domain.ErrProfileIncomplete) {
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if customer.ID != booking.CustomerID {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

// save persists a customer-driven transition. Losing a race against another
// transition surfaces as ErrInvalidTransition.
func (s *BookingService) save(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error {
	err := s.bookings.Update(ctx, booking, expected)
	if errors.Is(err, repository.ErrStale) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTransition, err)
	}
	return err
}

// syncCarFlag keeps the advisory availability flag in line with the car's
// approved bookings. approved is true when the current transition itself
// approved a booking.
func (s *BookingService) syncCarFlag(ctx context.Context, carID int64, approved bool) {
	available := !approved
	if available {
		active, err := s.bookings.ListBlockingByCar(ctx, carID)
		if err != nil {
			log.Printf("WARNING: Failed to load bookings of car %d: %v", carID, err)
			return
		}
		for _, b := range active {
			if b.Status == domain.BookingStatusApproved {
				available = false
				break
			}
		}
	}

	if err := s.cars.SetAvailability(ctx, carID, available); err != nil {
		log.Printf("WARNING: Failed to set availability of car %d: %v", carID, err)
		return
	}
	if s.cache != nil {
		if err := s.cache.InvalidateCars(ctx); err != nil {
			log.Printf("WARNING: Failed to invalidate car cache: %v", err)
		}
	}
}

func (s *BookingService) publishLogged(ctx context.Context, eventType string, booking *domain.Booking) {
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.Printf("WARNING: Failed to publish %s event for booking %d: %v", eventType, booking.ID, err)
	}
}

// publish sends the event to the booking topic and, with the code attached
// for code events, to the notifications topic.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	key := strconv.FormatInt(booking.ID, 10)

	if s.bookingTopic != "" {
		if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
			return err
		}
	}
	if s.notificationsTopic != "" {
		if eventType == kafka.EventCodeIssued {
			event.Code = booking.Code
		}
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
