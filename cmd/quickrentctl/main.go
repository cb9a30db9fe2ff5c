package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/quickrent/config"
	"github.com/Domenick1991/quickrent/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openApp(ctx context.Context, cfgPath string) (services, func(), error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return services{}, nil, fmt.Errorf("load config: %w", err)
	}
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return services{}, nil, err
	}
	return services{bookings: app.Bookings, cars: app.Cars}, app.Close, nil
}
