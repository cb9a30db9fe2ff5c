package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	// Create inserts a pending booking unless a blocking booking of the same
	// car overlaps it. The check and the insert run in one transaction that
	// holds a row lock on the car.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListBlockingByCar(ctx context.Context, carID int64) ([]domain.Booking, error)
	ListBlockingBetween(ctx context.Context, rng domain.DateRange) ([]domain.Booking, error)
	ListCodeExpired(ctx context.Context, generatedBefore time.Time) ([]domain.Booking, error)
	// Update persists status, payment status and code fields if the stored
	// status still equals expected; otherwise it returns ErrStale.
	Update(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error
	Count(ctx context.Context, statuses ...domain.BookingStatus) (int, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingSelect = `SELECT b.id, b.car_id, b.customer_id, COALESCE(c.email, ''), COALESCE(c.first_name, ''), COALESCE(c.last_name, ''), b.start_date, b.end_date, b.total_price_cents, b.payment_status, b.status, b.code, b.code_generated_at, b.created_at, b.updated_at
	FROM bookings b LEFT JOIN customers c ON c.id = b.customer_id`

func blockingStatuses() []string {
	return []string{
		string(domain.BookingStatusPending),
		string(domain.BookingStatusCodeVerified),
		string(domain.BookingStatusApproved),
	}
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var (
		b                   domain.Booking
		first, last         string
		paymentRaw, statRaw string
		code                *string
		err                 error
	)
	if err := row.Scan(&b.ID, &b.CarID, &b.CustomerID, &b.CustomerEmail, &first, &last, &b.StartDate, &b.EndDate, &b.TotalPriceCents, &paymentRaw, &statRaw, &code, &b.CodeGeneratedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if b.PaymentStatus, err = domain.ParsePaymentStatus(paymentRaw); err != nil {
		return nil, fmt.Errorf("booking %d: %w", b.ID, err)
	}
	if b.Status, err = domain.ParseBookingStatus(statRaw); err != nil {
		return nil, fmt.Errorf("booking %d: %w", b.ID, err)
	}
	b.CustomerName = domain.Customer{FirstName: first, LastName: last}.FullName()
	if code != nil {
		b.Code = *code
	}
	return &b, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := createInTx(ctx, tx, booking); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func createInTx(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	var carID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id=$1 FOR UPDATE`, booking.CarID).Scan(&carID); err != nil {
		return notFound(err, "car", booking.CarID)
	}

	var overlapping bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE car_id=$1 AND status = ANY($2) AND start_date <= $4 AND $3 <= end_date)`,
		booking.CarID, blockingStatuses(), booking.StartDate, booking.EndDate).Scan(&overlapping); err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if overlapping {
		return domain.ErrDateOverlap
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (car_id, customer_id, start_date, end_date, total_price_cents, payment_status, status, code, code_generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.CarID, booking.CustomerID, booking.StartDate, booking.EndDate, booking.TotalPriceCents,
		booking.PaymentStatus, booking.Status, nullable(booking.Code), booking.CodeGeneratedAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id))
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` ORDER BY b.start_date DESC, b.id DESC`)
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.customer_id=$1 ORDER BY b.start_date DESC, b.id DESC`, customerID)
}

func (r *PGBookingRepository) ListBlockingByCar(ctx context.Context, carID int64) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.car_id=$1 AND b.status = ANY($2) ORDER BY b.start_date`, carID, blockingStatuses())
}

func (r *PGBookingRepository) ListBlockingBetween(ctx context.Context, rng domain.DateRange) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.status = ANY($1) AND b.start_date <= $3 AND $2 <= b.end_date ORDER BY b.car_id, b.start_date`,
		blockingStatuses(), rng.Start, rng.End)
}

func (r *PGBookingRepository) ListCodeExpired(ctx context.Context, generatedBefore time.Time) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.status=$1 AND b.code_generated_at IS NOT NULL AND b.code_generated_at < $2 ORDER BY b.id`,
		domain.BookingStatusPending, generatedBefore)
}

func (r *PGBookingRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error {
	err := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, payment_status=$2, code=$3, code_generated_at=$4, updated_at=now()
		WHERE id=$5 AND status=$6 RETURNING updated_at`,
		booking.Status, booking.PaymentStatus, nullable(booking.Code), booking.CodeGeneratedAt, booking.ID, expected).
		Scan(&booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking %d is no longer %s: %w", booking.ID, expected, ErrStale)
	}
	return err
}

func (r *PGBookingRepository) Count(ctx context.Context, statuses ...domain.BookingStatus) (int, error) {
	var n int
	if len(statuses) == 0 {
		err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n)
		return n, err
	}

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE status = ANY($1)`, names).Scan(&n)
	return n, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
