package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/hostel-api/internal/app"
	"github.com/hostelhub/hostel-api/internal/config"
	"github.com/hostelhub/hostel-api/internal/repository"
	"github.com/hostelhub/hostel-api/internal/service"
	"github.com/hostelhub/hostel-api/internal/session"
	"github.com/hostelhub/hostel-api/internal/transport/httpapi"
	"github.com/hostelhub/hostel-api/internal/validation"
	"github.com/hostelhub/hostel-api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting hostel API",
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("env_file", cfg.LoadedEnvFile),
	)

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	users := repository.NewUserRepository(pool)
	landlords := repository.NewLandlordRepository(pool)
	hostels := repository.NewHostelRepository(pool)
	rooms := repository.NewRoomRepository(pool)
	bookings := repository.NewBookingRepository(pool)
	reviews := repository.NewReviewRepository(pool)
	reports := repository.NewReportRepository(pool)
	saved := repository.NewSavedHostelRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	tokens := session.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	sessions := session.NewStore(rdb, tokens, users, logger)

	v := validation.New()
	notifications := service.NewNotificationService(notificationRepo, logger)
	metrics := service.NewMetricsService(users, landlords, hostels, bookings, reports, logger)

	svc := httpapi.Services{
		Users:         service.NewUserService(users, sessions, notifications, v, logger),
		Verification:  service.NewVerificationService(landlords, hostels, notifications, v, logger),
		Listing:       service.NewListingService(hostels, rooms, landlords, bookings, notifications, v, logger),
		Bookings:      service.NewBookingService(bookings, rooms, hostels, landlords, notifications, v, logger),
		Reviews:       service.NewReviewService(reviews, hostels, notifications, v, logger),
		Moderation:    service.NewModerationService(reports, hostels, notifications, v, logger),
		Saved:         service.NewSavedHostelService(saved, hostels, logger),
		Metrics:       metrics,
		Notifications: notifications,
	}

	scheduler, err := app.NewScheduler(ctx, cfg.MetricsSnapshotSpec, metrics, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewHandler(svc, sessions, logger).Router(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
