package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/hostledger/internal/adapter/repository/postgres"
	"github.com/iho/hostledger/internal/infrastructure/config"
	"github.com/iho/hostledger/internal/infrastructure/logger"
	"github.com/iho/hostledger/internal/infrastructure/postgres"
)

type rateStore interface {
	Save(ctx context.Context, from, to string, date time.Time, rate decimal.Decimal) error
}

// openRateStore is replaced in tests.
var openRateStore = func(ctx context.Context, url string) (rateStore, func(), error) {
	pool, err := postgres.NewPool(ctx, url, 2, 0)
	if err != nil {
		return nil, nil, err
	}
	return postgresRepo.NewFxRateRepository(pool), pool.Close, nil
}

func resolveDatabaseURL() (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DatabaseURL, nil
}

func fxCmd() *cobra.Command {
	fx := &cobra.Command{
		Use:   "fx",
		Short: "Manage stored FX rates",
	}

	var date string
	set := &cobra.Command{
		Use:   "set <from> <to> <rate>",
		Short: "Store the rate converting one unit of from into to",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := strings.ToUpper(args[0]), strings.ToUpper(args[1])
			rate, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[2], err)
			}
			day := time.Now().UTC()
			if date != "" {
				if day, err = time.Parse(time.DateOnly, date); err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}

			url, err := resolveDatabaseURL()
			if err != nil {
				return err
			}
			store, closeFn, err := openRateStore(cmd.Context(), url)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Save(cmd.Context(), from, to, day, rate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s->%s = %s on %s\n", from, to, rate, day.Format(time.DateOnly))
			return nil
		},
	}
	set.Flags().StringVar(&date, "date", "", "Rate date (YYYY-MM-DD, default today)")

	fx.AddCommand(set)
	return fx
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(fn func(string, zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			url, err := resolveDatabaseURL()
			if err != nil {
				return err
			}
			return fn(url, logger.NewWithWriter(logger.Config{Format: "console"}, cmd.ErrOrStderr()))
		}
	}

	migrate.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", Args: cobra.NoArgs, RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", Args: cobra.NoArgs, RunE: run(postgres.RunMigrationsDown)},
	)
	return migrate
}
