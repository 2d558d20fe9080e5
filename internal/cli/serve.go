package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/solerma/slotreserve/internal/app"
	"github.com/solerma/slotreserve/internal/clock"
	"github.com/solerma/slotreserve/internal/config"
	kafkapub "github.com/solerma/slotreserve/internal/messaging/kafka"
	"github.com/solerma/slotreserve/internal/observability"
	"github.com/solerma/slotreserve/internal/seed"
	"github.com/solerma/slotreserve/internal/storage/postgres"
	transporthttp "github.com/solerma/slotreserve/internal/transport/http"
	"github.com/solerma/slotreserve/migrations"
)

func newServeCmd() *cobra.Command {
	var (
		migrateUp bool
		seedData  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API server",
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

			startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			tp, shutdownTracing, err := observability.SetupTracing(startupCtx, cfg.OTLPEndpoint, cfg.Environment)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(shutdownCtx); err != nil {
					logger.Warn("tracing shutdown", zap.Error(err))
				}
			}()

			pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(startupCtx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if migrateUp {
				if err := migrations.Apply(startupCtx, pool); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			baseWriter := &kafka.Writer{
				Addr:         kafka.TCP(cfg.KafkaBrokers...),
				Balancer:     &kafka.LeastBytes{},
				BatchTimeout: 10 * time.Millisecond,
			}
			var writer *otelkafka.Writer
			if tp != nil {
				writer, err = otelkafka.NewWriter(baseWriter,
					otelkafka.WithTracerProvider(tp),
					otelkafka.WithPropagator(propagation.TraceContext{}),
				)
			} else {
				writer, err = otelkafka.NewWriter(baseWriter,
					otelkafka.WithPropagator(propagation.TraceContext{}),
				)
			}
			if err != nil {
				return fmt.Errorf("create kafka writer: %w", err)
			}
			publisher := kafkapub.NewPublisher(writer)
			defer func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("close kafka writer", zap.Error(err))
				}
			}()

			slotRepo := postgres.NewSlotRepository(pool)
			reservationRepo := postgres.NewReservationRepository(pool)
			clk := clock.NewSystem()
			reservationSvc := app.NewReservationService(slotRepo, reservationRepo, publisher, clk, logger)
			timeSlotSvc := app.NewTimeSlotService(slotRepo, logger)

			if seedData {
				if err := seed.Run(startupCtx, timeSlotSvc, clk, logger); err != nil {
					return fmt.Errorf("seed data: %w", err)
				}
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/health", transporthttp.HealthHandler)
			mux.Handle("/reservations", transporthttp.HandleReservations(reservationSvc))
			mux.Handle("/reservations/by-customer", transporthttp.HandleReservationsByCustomer(reservationSvc))
			mux.Handle("/reservations/", transporthttp.HandleReservationByID(reservationSvc))
			mux.Handle("/time-slots", transporthttp.HandleTimeSlots(timeSlotSvc))
			mux.Handle("/time-slots/by-date", transporthttp.HandleTimeSlotsByDate(timeSlotSvc))
			mux.Handle("/time-slots/available", transporthttp.HandleAvailableTimeSlots(timeSlotSvc))
			mux.Handle("/time-slots/by-delivery-mode/", transporthttp.HandleTimeSlotsByMode(timeSlotSvc))
			mux.Handle("/time-slots/", transporthttp.HandleTimeSlotByID(timeSlotSvc))
			mux.Handle("/", transporthttp.NotFoundHandler())

			handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
			}

			logger.Info("api listening", zap.String("port", cfg.Port))

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
			case <-stopCtx.Done():
				logger.Info("shutdown signal received, stopping server")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server shutdown", zap.Error(err))
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().BoolVar(&seedData, "seed", false, "create sample time slots on startup")

	return cmd
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
