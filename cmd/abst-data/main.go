package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"abst-data/internal/config"
	"abst-data/internal/database"
	httpapi "abst-data/internal/http"
	"abst-data/internal/logger"
	"abst-data/internal/notify"
	"abst-data/internal/repository"
	"abst-data/internal/service"
	"abst-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "abst-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	// Repositories
	facilitiesRepo := repository.NewPostgresFacilitiesRepository(db)
	residentsRepo := repository.NewPostgresResidentsRepository(db)
	adlsRepo := repository.NewPostgresADLsRepository(db)
	staffRepo := repository.NewPostgresStaffRepository(db)
	shiftsRepo := repository.NewPostgresShiftsRepository(db)
	usersRepo := repository.NewPostgresUsersRepository(db)

	// Services
	notifier := notify.NewWebhookNotifier(cfg.Notify, log)
	facilityService := service.NewFacilityService(facilitiesRepo, log)
	residentService := service.NewResidentService(residentsRepo, facilitiesRepo, adlsRepo, log)
	adlService := service.NewADLService(adlsRepo, residentsRepo, log)
	staffService := service.NewStaffService(staffRepo, log)

	// A nil *WebhookNotifier must stay a nil interface.
	var understaffedNotifier service.UnderstaffedNotifier
	if notifier != nil {
		understaffedNotifier = notifier
	}
	shiftService := service.NewShiftService(shiftsRepo, staffRepo, understaffedNotifier, log)

	recommendationService := service.NewRecommendationService(
		residentsRepo, adlsRepo, staffRepo, shiftsRepo, kv, cfg.Engine, log)
	authService := service.NewAuthService(usersRepo, log)

	// HTTP
	sessions := httpapi.NewSessionStore(24 * time.Hour)
	guard := httpapi.NewAccessGuard(sessions, authService, log)
	router := httpapi.NewRouter(log)
	router.RegisterHealth(db)
	router.RegisterAPIRoutes(
		guard,
		httpapi.NewFacilityHandler(facilityService, log),
		httpapi.NewResidentHandler(residentService, log),
		httpapi.NewADLHandler(adlService, log),
		httpapi.NewStaffHandler(staffService, log),
		httpapi.NewShiftHandler(shiftService, log),
		httpapi.NewAIHandler(recommendationService, facilityService, log),
		httpapi.NewAuthHandler(authService, sessions, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("server stopped", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}
