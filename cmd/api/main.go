package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chachabrian/rentmyride-backend/internal/config"
	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/handlers"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := config.LoadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// the process environment still applies
		logger.New(logger.Config{}).Warn("could not read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("invalid configuration", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Service: "rentmyride-api"})
	log.Info("configuration loaded", cfg.LogFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	store := repository.NewStore(db)

	healthChecks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Redis is optional. Without it availability is never cached and
	// booking events stay in-process.
	var (
		cache     services.AvailabilityCache = services.NopCache{}
		publisher *services.RedisPublisher
	)
	if cfg.RedisURL != "" {
		rdb, err := services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to initialize Redis", "error", err)
		}
		defer rdb.Close()
		cache = services.NewRedisCache(rdb, log)
		publisher = services.NewRedisPublisher(rdb)
		healthChecks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
		log.Info("Redis connected")
	}

	push, err := services.NewPushClient(ctx, cfg.FirebaseServiceAccountPath)
	if err != nil {
		log.Warn("Firebase initialization failed, push disabled", "error", err)
	}

	storage, err := services.NewStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", "error", err)
	}

	mailer := utils.NewMailer(utils.MailerConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.EmailFrom,
		Password: cfg.EmailPassword,
		BaseURL:  cfg.BaseURL,
	})

	hub := services.NewHub(log)
	go hub.Run(ctx)

	deps := services.NotifierDeps{
		Users:       store.Users,
		Preferences: store.Preferences,
		Hub:         hub,
		Mailer:      mailer,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	if push != nil && push.Enabled() {
		deps.Push = push
	}
	notifier := services.NewNotifier(deps, log)

	scheduler, err := services.NewScheduler(
		services.NewArchiver(store.Messages, cfg.ArchiveRetention, log),
		cfg.ArchiveCron, cfg.TZ, log,
	)
	if err != nil {
		log.Fatal("failed to schedule message archive", "error", err)
	}
	scheduler.Start()

	if cfg.LogLevel != logger.DEBUG {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(log), middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserIDHeader, middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	uploadDir := ""
	if !storage.IsUsingS3() {
		uploadDir = cfg.UploadDir
	}
	handlers.RegisterRoutes(r, handlers.Deps{
		Auth:     services.NewAuthService(store.Users, cfg.JWTSecret, cfg.JWTTTL, log),
		Users:    services.NewUserService(store.Users, store.Preferences),
		Catalog:  services.NewCatalogService(store.Vehicles, store.Businesses, store.Bookings, storage, cache, log),
		Bookings: services.NewBookingService(store.Bookings, store.Vehicles, notifier, cache, log),
		Messages: services.NewMessageService(store.Messages, store.Users, hub),
		Reviews:  services.NewReviewService(store.Reviews, store.Bookings, store.Vehicles),
		Hub:      hub,
		AuthConfig: middleware.AuthConfig{
			JWTSecret:  cfg.JWTSecret,
			HeaderShim: cfg.AuthHeaderShim,
		},
		HealthChecks: healthChecks,
		UploadDir:    uploadDir,
		StaticDir:    cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	scheduler.Stop(shutdownCtx)
	notifier.Wait()
	log.Info("server stopped")
}
