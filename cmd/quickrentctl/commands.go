package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/spf13/cobra"
)

type bookingAdmin interface {
	Approve(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, id domain.Identity, bookingID int64) (*domain.Booking, error)
	ExpireStaleCodes(ctx context.Context) ([]domain.Booking, error)
}

type carFinder interface {
	Available(ctx context.Context, start, end time.Time) ([]domain.Car, error)
}

type services struct {
	bookings bookingAdmin
	cars     carFinder
}

type opener func(ctx context.Context, cfgPath string) (services, func(), error)

func newRootCmd(open opener) *cobra.Command {
	var (
		cfgPath string
		asEmail string
		svc     services
		closeFn func()
	)

	root := &cobra.Command{
		Use:           "quickrentctl",
		Short:         "QuickRent administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			svc, closeFn, err = open(cmd.Context(), cfgPath)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeFn != nil {
				closeFn()
			}
		},
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfig, "path to config file")
	root.PersistentFlags().StringVar(&asEmail, "as", "admin@quickrent.local", "admin email recorded as the acting identity")

	admin := func() domain.Identity {
		return domain.Identity{UserID: "quickrentctl", Email: asEmail, Role: domain.RoleAdmin}
	}

	root.AddCommand(
		reviewCmd("approve", "Approve a booking awaiting review", func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svc.bookings.Approve(ctx, admin(), id)
		}),
		reviewCmd("reject", "Reject a booking awaiting review", func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svc.bookings.Reject(ctx, admin(), id)
		}),
		sweepCmd(func() bookingAdmin { return svc.bookings }),
		availableCmd(func() carFinder { return svc.cars }),
	)
	return root
}

func reviewCmd(use, short string, review func(ctx context.Context, id int64) (*domain.Booking, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <booking-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid booking id %q", args[0])
			}
			b, err := review(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booking %d: %s (payment %s)\n", b.ID, b.Status, b.PaymentStatus)
			return nil
		},
	}
}

func sweepCmd(bookings func() bookingAdmin) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Cancel pending bookings whose verification code expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expired, err := bookings().ExpireStaleCodes(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range expired {
				fmt.Fprintf(cmd.OutOrStdout(), "cancelled booking %d (car %d)\n", b.ID, b.CarID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d bookings cancelled\n", len(expired))
			return nil
		},
	}
}

func availableCmd(finder func() carFinder) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List cars free for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := domain.ParseDay(start)
			if err != nil {
				return err
			}
			to, err := domain.ParseDay(end)
			if err != nil {
				return err
			}
			list, err := finder().Available(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s  %-12s  %-24s  %10s\n", "ID", "Plate", "Car", "Per day")
			for _, car := range list {
				fmt.Fprintf(out, "%-6d  %-12s  %-24s  %7d.%02d\n", car.ID, car.NumberPlate, car.Brand+" "+car.Model,
					car.RentPerDayCents/100, car.RentPerDayCents%100)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
