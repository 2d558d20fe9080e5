package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/clock"
	"github.com/solerma/slotreserve/internal/config"
	"github.com/solerma/slotreserve/internal/seed"
	"github.com/solerma/slotreserve/internal/storage/postgres"
	"github.com/solerma/slotreserve/migrations"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create sample time slots and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Environment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if err := migrations.Apply(ctx, pool); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			svc := app.NewTimeSlotService(postgres.NewSlotRepository(pool), logger)
			if err := seed.Run(ctx, svc, clock.NewSystem(), logger); err != nil {
				return fmt.Errorf("seed data: %w", err)
			}
			return nil
		},
	}
}
