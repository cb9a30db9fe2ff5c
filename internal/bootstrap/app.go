package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/quickrent/config"
	"github.com/Domenick1991/quickrent/internal/availability"
	"github.com/Domenick1991/quickrent/internal/cache"
	"github.com/Domenick1991/quickrent/internal/kafka"
	"github.com/Domenick1991/quickrent/internal/otp"
	"github.com/Domenick1991/quickrent/internal/repository"
	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/Domenick1991/quickrent/internal/service/cars"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the services shared by the API server, the worker and the CLI.
type App struct {
	Bookings *booking.BookingService
	Cars     *cars.CarService

	pool     *pgxpool.Pool
	cache    *cache.RedisCache
	producer *kafka.Producer
}

// NewApp connects to Postgres and, when configured, Redis and Kafka, and
// wires the services on top of them.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	app := &App{pool: pool}

	carRepo := repository.NewCarRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	checker := availability.NewChecker(bookingRepo, carRepo)

	// Optional backends stay nil interfaces when disabled.
	var (
		bookingCache booking.Cache
		carCache     cars.CarCache
		producer     booking.Producer
	)
	if cfg.Redis.Enabled() {
		app.cache = cache.NewRedisCache(cfg.Redis, cfg.Booking.CarsCacheDuration())
		if err := app.cache.Ping(ctx); err != nil {
			log.Printf("WARNING: redis ping failed: %v", err)
		}
		bookingCache, carCache = app.cache, app.cache
	} else {
		log.Printf("Redis not configured: car cache disabled")
	}
	if len(cfg.Kafka.Brokers) > 0 {
		app.producer = kafka.NewProducer(cfg.Kafka.Brokers)
		producer = app.producer.WithRetries(cfg.Kafka.PublishAttempts)
	} else {
		log.Printf("Kafka not configured: booking events and notifications disabled")
	}

	app.Cars = cars.NewCarService(carRepo, carCache, checker)
	app.Bookings = booking.NewBookingService(
		bookingRepo,
		carRepo,
		customerRepo,
		checker,
		bookingCache,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithVerification(cfg.Booking.VerificationRequired()),
		booking.WithCodeIssuer(otp.NewGenerator(cfg.Booking.CodeTTL())),
	)
	return app, nil
}

// CheckKafka verifies the brokers are reachable when Kafka is configured.
func (a *App) CheckKafka(ctx context.Context) error {
	if a.producer == nil {
		return nil
	}
	return a.producer.CheckConnection(ctx)
}

func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Printf("close kafka producer: %v", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	a.pool.Close()
}
