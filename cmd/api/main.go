package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/email"
	authHandler "github.com/jwalitptl/clinic-api/internal/handler/auth"
	clinicHandler "github.com/jwalitptl/clinic-api/internal/handler/clinic"
	doctorHandler "github.com/jwalitptl/clinic-api/internal/handler/doctor"
	"github.com/jwalitptl/clinic-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/clinic-api/internal/handler/patient"
	promhandler "github.com/jwalitptl/clinic-api/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-api/internal/handler/schedule"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-api/internal/router"
	authService "github.com/jwalitptl/clinic-api/internal/service/auth"
	clinicService "github.com/jwalitptl/clinic-api/internal/service/clinic"
	doctorService "github.com/jwalitptl/clinic-api/internal/service/doctor"
	eventService "github.com/jwalitptl/clinic-api/internal/service/event"
	patientService "github.com/jwalitptl/clinic-api/internal/service/patient"
	internalworker "github.com/jwalitptl/clinic-api/internal/worker"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/currency"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
	"github.com/jwalitptl/clinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/worker"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-api",
		Short:        "Clinic management API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), watchCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and outbox workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.NewDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.NewMigrator(db).Up(ctx)
			if err != nil {
				return err
			}
			log.Info("migrations applied", "count", applied)
			return nil
		},
	})
	return cmd
}

// watchCmd prints change notifications as they arrive on the broker.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Log change notifications published to the broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if !cfg.Redis.Enabled {
				return errors.New("redis is disabled; nothing to watch")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			broker, err := redis.NewRedisBroker(ctx, redisConfig(cfg.Redis), log.Zerolog())
			if err != nil {
				return err
			}
			defer broker.Close()

			messages, err := broker.Subscribe(ctx, cfg.Redis.Channel)
			if err != nil {
				return err
			}
			log.Info("watching for changes", "channel", cfg.Redis.Channel)

			for data := range messages {
				msg, err := messaging.Decode(data)
				if err != nil {
					log.Warn("undecodable message", "error", err.Error())
					continue
				}
				log.Info("change received", "type", msg.Type, "payload", string(msg.Payload))
			}
			return nil
		},
	}
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.Format == "json",
	})
	log.SetGlobal()
	return cfg, log, nil
}

func redisConfig(cfg config.RedisConfig) redis.Config {
	return redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
}

func newBroker(ctx context.Context, cfg *config.Config, log *logger.Logger) (messaging.Broker, error) {
	if !cfg.Redis.Enabled {
		log.Warn("redis disabled, change notifications are only logged")
		return messaging.NewLogBroker(log.Zerolog()), nil
	}
	return redis.NewRedisBroker(ctx, redisConfig(cfg.Redis), log.Zerolog())
}

func serve(parent context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Locale.Location()
	if err != nil {
		return err
	}
	prices, err := currency.NewFormatter(cfg.Locale.Language, cfg.Locale.Currency)
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	broker, err := newBroker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer broker.Close()

	m := metrics.NewMetrics(cfg.Monitoring.Namespace)

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	clinicRepo := postgres.NewClinicRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Services
	events := eventService.NewEventService(outboxRepo)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())
	sessions := authService.NewSessionCache(cfg.SessionCache.TTL, cfg.SessionCache.CleanupInterval)
	authSvc := authService.NewService(userRepo, clinicRepo, jwtSvc, email.New(cfg.SMTP, log), sessions, log)
	clinicSvc := clinicService.NewService(clinicRepo, authSvc, log)
	doctorSvc := doctorService.NewService(doctorRepo, events, loc, prices, log, doctorService.WithMetrics(m))
	patientSvc := patientService.NewService(patientRepo, events, log, m)

	var metricsHandler *promhandler.Handler
	if cfg.Monitoring.PrometheusEnabled {
		metricsHandler = promhandler.New(m)
	}

	r := router.NewRouter(
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RequestTimeout:   cfg.Server.RequestTimeout,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins),
			MetricsPath:      cfg.Monitoring.MetricsPath,
		},
		log,
		middleware.NewAuthMiddleware(authSvc),
		metricsHandler,
		router.Handlers{
			Health:   health.NewHandler(readinessChecks(db, broker)),
			Auth:     authHandler.NewHandler(authSvc),
			Clinic:   clinicHandler.NewHandler(clinicSvc),
			Doctor:   doctorHandler.NewHandler(doctorSvc),
			Patient:  patientHandler.NewHandler(patientSvc),
			Schedule: schedule.NewHandler(),
		},
	)
	r.Setup()

	processor, err := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		Channel:       cfg.Redis.Channel,
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		Retention:     cfg.Outbox.Retention,
		ClaimLease:    cfg.Outbox.ClaimLease,
	}, log, m)
	if err != nil {
		return fmt.Errorf("failed to create outbox processor: %w", err)
	}
	cleanup := internalworker.NewOutboxCleanupWorker(processor, cfg.Outbox.CleanupInterval, log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(workerCtx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(workerCtx)
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error(runErr, "server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "server forced to shutdown")
	}

	cancelWorkers()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Warn("workers did not stop before the shutdown timeout")
	}

	log.Info("server exited")
	return runErr
}

func readinessChecks(db *sqlx.DB, broker messaging.Broker) map[string]health.Pinger {
	return map[string]health.Pinger{
		"database": db,
		"broker":   health.PingFunc(broker.Ping),
	}
}
