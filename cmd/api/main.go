package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/config"
	"github.com/noah-isme/educollab-analytics/internal/database"
	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/events"
	"github.com/noah-isme/educollab-analytics/internal/handler"
	"github.com/noah-isme/educollab-analytics/internal/locker"
	"github.com/noah-isme/educollab-analytics/internal/middleware"
	"github.com/noah-isme/educollab-analytics/internal/repository"
	"github.com/noah-isme/educollab-analytics/internal/router"
	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	db, err := database.ConnectRelational(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to relational database")
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout+5*time.Second)
	connector, store, err := docstore.Open(startupCtx, docstore.Config{
		URI:             cfg.MongoURI,
		Database:        cfg.MongoDatabase,
		ConnectTimeout:  cfg.MongoConnectTimeout,
		DisableFallback: !cfg.DocStoreFallback,
	}, logger)
	cancelStartup()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open document store")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}

	var metricLock locker.Locker
	if cfg.SerializeMetricUpserts {
		if redisClient != nil {
			metricLock = locker.NewRedis(redisClient, "educollab", cfg.LockTTL)
		} else {
			metricLock = locker.NewKeyed()
		}
	}

	var (
		natsConn  *nats.Conn
		publisher events.Publisher = events.Nop{}
	)
	if cfg.NATSURL != "" {
		natsConn, err = events.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		publisher = events.NewNATSPublisher(natsConn, cfg.NATSSubjectPrefix, logger)
	}

	validate := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	postRepo := repository.NewForumPostRepository(db)
	activityRepo := repository.NewActivityRepository(store)
	metricsRepo := repository.NewCourseMetricsRepository(store)
	interactionRepo := repository.NewForumInteractionRepository(store)

	activityService := service.NewActivityService(activityRepo, publisher, validate, logger)
	courseService := service.NewCourseAnalyticsService(courseRepo, metricsRepo, metricLock, validate, logger)
	forumService := service.NewForumAnalyticsService(userRepo, postRepo, interactionRepo, publisher, validate, logger)
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		Users:        userRepo,
		Enrollments:  repository.NewEnrollmentRepository(db),
		Notes:        repository.NewNoteRepository(db),
		Posts:        postRepo,
		Activities:   activityRepo,
		Interactions: interactionRepo,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:        handler.NewActivityHandler(activityService, logger),
		CourseAnalyticsHandler: handler.NewCourseAnalyticsHandler(courseService, logger),
		ForumAnalyticsHandler:  handler.NewForumAnalyticsHandler(forumService, logger),
		DashboardHandler:       handler.NewDashboardHandler(dashboardService, logger),
		DocStore:               connector,
		WriteLimiter:           middleware.RateLimit("analytics-write", cfg.RateLimitMax, cfg.RateLimitWindow),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("docstore", store.Name()).Msg("analytics api listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger, func(ctx context.Context) {
		if natsConn != nil {
			if err := natsConn.Drain(); err != nil {
				logger.Warn().Err(err).Msg("nats drain failed")
			}
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if err := connector.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("document store close failed")
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger, cleanup func(context.Context)) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	cleanup(ctx)

	logger.Info().Msg("server stopped")
}
