package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/quickrent/config"
	"github.com/Domenick1991/quickrent/internal/bootstrap"
	"github.com/Domenick1991/quickrent/internal/email"
	"github.com/Domenick1991/quickrent/internal/kafka"
	"github.com/Domenick1991/quickrent/internal/notify"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()
		dispatcher := notify.NewDispatcher(email.NewSender(cfg.SMTP))

		g.Go(func() error {
			log.Printf("consuming notifications from %s", cfg.Kafka.NotificationsTopic)
			return consumer.Consume(gctx, dispatcher.Handle)
		})
	} else {
		log.Printf("Kafka not configured: notification consumer disabled")
	}

	g.Go(func() error {
		sweepExpiredCodes(gctx, app, time.Duration(cfg.Worker.ExpirationSweepMinutes)*time.Minute)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
	log.Printf("worker stopped")
}

func sweepExpiredCodes(ctx context.Context, app *bootstrap.App, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := app.Bookings.ExpireStaleCodes(ctx)
			if err != nil {
				log.Printf("expire stale codes error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("cancelled %d bookings with expired codes", len(expired))
			}
		case <-ctx.Done():
			return
		}
	}
}
