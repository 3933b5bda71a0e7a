package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "fairway/docs"
	"fairway/internal/caching"
	"fairway/internal/config"
	"fairway/internal/events"
	"fairway/internal/handlers"
	"fairway/internal/jobs"
	"fairway/internal/jobs/background"
	"fairway/internal/logging"
	"fairway/internal/middleware"
	"fairway/internal/repositories"
	"fairway/internal/services"
	"fairway/pkg/database"
	"fairway/pkg/obs"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "fairway", version, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	// Database connection
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	// JWT configuration
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Warn().Msg("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}
	jwtOpts := middleware.JWTOptions{Secret: jwtSecret}
	if cfg.JWKSURL != "" {
		jwks, err := middleware.LoadJWKS(cfg.JWKSURL)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.JWKSURL).Msg("failed to load JWKS")
		}
		defer jwks.EndBackground()
		jwtOpts.JWKS = jwks
	}

	// Redis backs the tenant cache, guest rate limits and the task queue
	redisClient, err := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid redis configuration")
	}
	cacheSvc := caching.NewRedisCacheService(redisClient)
	defer cacheSvc.Close()

	// Course images
	var imageSvc services.MinioService
	if cfg.MinioEndpoint != "" {
		imageSvc, err = services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioPublicBaseURL, cfg.MinioUseSSL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialise MinIO")
		}
		if err := imageSvc.EnsureBucketExists(ctx); err != nil {
			log.Error().Err(err).Str("bucket", cfg.MinioBucket).Msg("course image bucket unavailable")
		}
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set, course image uploads are disabled")
	}

	// Domain events
	publisher := events.NewNoopPublisher()
	if cfg.RabbitURL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
	}
	defer publisher.Close()

	// Create repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	courseRepo := repositories.NewCourseRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	slotRepo := repositories.NewTeeTimeSlotRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	ruleRepo := repositories.NewPricingRuleRepo(pool)
	closureRepo := repositories.NewClosureRepo(pool)
	tx := repositories.NewTransactor(pool, cfg.BookingLockTimeout)

	// Create services
	tenantSvc := services.NewTenantService(tenantRepo, tx, cacheSvc)
	authSvc := services.NewAuthService(userRepo, jwtSecret, cfg.JWTTTL)
	courseSvc := services.NewCourseService(courseRepo, imageSvc)
	closureSvc := services.NewClosureService(closureRepo)
	resolver := services.NewPricingResolver(ruleRepo)
	ruleSvc := services.NewPricingRuleService(ruleRepo, resolver)
	generator := services.NewSlotGenerator(slotRepo, ruleRepo)
	teeTimeSvc := services.NewTeeTimeService(slotRepo, generator)
	availabilitySvc := services.NewAvailabilityService(slotRepo, closureRepo)
	bookingSvc := services.NewBookingService(tx, slotRepo, bookingRepo, publisher, cfg.BookingTxTimeout)

	// Task queue
	redisOpt := asynqRedisOpt(cfg)
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	var worker *asynq.Server
	if cfg.WorkerEnabled {
		var mux *asynq.ServeMux
		worker, mux = jobs.NewServer(redisOpt, cfg.Worker.Queuing, generator)
		if err := worker.Start(mux); err != nil {
			log.Fatal().Err(err).Msg("failed to start task worker")
		}
	}

	var scheduler *background.JobScheduler
	if cfg.SchedulerEnabled {
		scheduler, err = background.NewJobScheduler(tenantSvc, bookingSvc, cfg.Worker.Scheduler)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create scheduler")
		}
		scheduler.Start()
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Global middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit("6M"))
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	routes := &handlers.Routes{
		Tenants:  tenantSvc,
		JWT:      jwtOpts,
		Version:  middleware.NewVersionMiddleware(version),
		Health:   handlers.NewHealthHandlers(pool, cacheSvc, version),
		Tenant:   handlers.NewTenantHandlers(tenantSvc, courseSvc),
		Public:   handlers.NewPublicHandlers(availabilitySvc, closureSvc),
		Auth:     handlers.NewAuthHandlers(authSvc),
		Bookings: handlers.NewBookingHandlers(bookingSvc, cacheSvc, cfg.GuestBookingRateLimit),
		Courses:  handlers.NewCourseHandlers(courseSvc),
		TeeTimes: handlers.NewTeeTimeHandlers(teeTimeSvc, asynqClient, cfg.Worker.Queuing.MaxRetry),
		Closures: handlers.NewClosureHandlers(closureSvc),
		Pricing:  handlers.NewPricingRuleHandlers(ruleSvc),
	}
	routes.Register(e)

	go func() {
		log.Info().Str("version", version).Int("port", cfg.Port).Msg("fairway server starting")
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown")
		}
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
}

func asynqRedisOpt(cfg config.App) asynq.RedisConnOpt {
	if strings.HasPrefix(cfg.RedisAddr, "redis://") || strings.HasPrefix(cfg.RedisAddr, "rediss://") {
		opt, err := asynq.ParseRedisURI(cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		return opt
	}
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}
