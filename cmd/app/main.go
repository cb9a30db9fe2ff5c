package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/quickrent/api"
	"github.com/Domenick1991/quickrent/config"
	"github.com/Domenick1991/quickrent/internal/bootstrap"
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
	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("auth.jwt_secret (or JWT_SECRET) is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer app.Close()

	if err := app.CheckKafka(ctx); err != nil {
		log.Printf("WARNING: %v; booking events will fail until Kafka is reachable", err)
	}

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:            cfg.Auth.JWTSecret,
		PaymentWebhookSecret: cfg.Auth.PaymentWebhookSecret,
		AllowedOrigins:       cfg.HTTP.AllowedOrigins,
		CodeTTL:              cfg.Booking.CodeTTL(),
	}, app.Cars, app.Bookings)

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
