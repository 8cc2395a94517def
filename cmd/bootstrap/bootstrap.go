package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"awn-booking/config"
	deliveryHttp "awn-booking/internal/delivery/http"
	"awn-booking/internal/delivery/http/handler"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/infrastructure/cache"
	"awn-booking/internal/infrastructure/database"
	"awn-booking/internal/infrastructure/metrics"
	"awn-booking/internal/infrastructure/notification"
	"awn-booking/internal/repository"
	"awn-booking/internal/service"
	"awn-booking/internal/usecase"
	"awn-booking/pkg/jwt"
	"awn-booking/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, log, db, err := connect()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log, DB: db}

	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(db, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	server, err := initializeServer(cfg, log, db, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// Migrate runs schema migrations in the given direction without starting the server.
func Migrate(direction string, steps int) error {
	_, log, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	switch direction {
	case "up":
		return database.MigrateUp(db, log)
	case "down":
		return database.MigrateDown(db, log, steps)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

func connect() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("Database connected successfully")

	return cfg, log, db, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	catalog, err := entity.NewSlotCatalog(cfg.Booking.Slots)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_SLOTS: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(registry)
	mailer := notification.NewEmailSender(cfg.Mail, log)
	tx := database.NewTransactor(db, log, cfg.DB)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	therapistRepo := repository.NewTherapistProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	bookingRepo := repository.NewBookingRepository()
	planRepo := repository.NewTreatmentPlanRepository()
	ratingRepo := repository.NewRatingRepository()
	favoriteRepo := repository.NewFavoriteRepository()
	historyRepo := repository.NewMedicalHistoryRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	contactRepo := repository.NewContactRepository()

	// Initialize services
	var availabilityCache *service.AvailabilityCache
	if cfg.Booking.AvailabilityCache {
		availabilityCache = service.NewAvailabilityCache(redisClient, log)
	}
	auditService := service.NewAuditService(log, auditLogRepo)
	otpService := service.NewOTPService(redisClient, log)
	conflicts := service.NewConflictChecker(tx, bookingRepo)
	availability := service.NewAvailabilityCalculator(tx, bookingRepo, catalog, availabilityCache)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(tx, log, userRepo, therapistRepo, patientProfileRepo, auditService, jwtService, redisClient, otpService, mailer)
	bookingUsecase := usecase.NewBookingUsecase(tx, log, bookingRepo, therapistRepo, conflicts, availability, auditService, mailer, appMetrics, catalog)
	planUsecase := usecase.NewTreatmentPlanUsecase(tx, log, planRepo, userRepo, auditService, appMetrics)
	ratingUsecase := usecase.NewRatingUsecase(tx, log, ratingRepo, bookingRepo, auditService)
	favoriteUsecase := usecase.NewFavoriteUsecase(tx, log, favoriteRepo, therapistRepo)
	therapistUsecase := usecase.NewTherapistUsecase(tx, log, therapistRepo, ratingRepo)
	historyUsecase := usecase.NewMedicalHistoryUsecase(tx, log, historyRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(tx, log, auditLogRepo)
	patientUsecase := usecase.NewPatientProfileUsecase(tx, log, userRepo, patientProfileRepo, auditService, otpService, mailer)
	contactUsecase := usecase.NewContactUsecase(tx, log, contactRepo, auditService)

	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Therapist:      handler.NewTherapistHandler(therapistUsecase, customValidator),
		Booking:        handler.NewBookingHandler(bookingUsecase, customValidator),
		TreatmentPlan:  handler.NewTreatmentPlanHandler(planUsecase, customValidator),
		Rating:         handler.NewRatingHandler(ratingUsecase),
		Favorite:       handler.NewFavoriteHandler(favoriteUsecase, customValidator),
		MedicalHistory: handler.NewMedicalHistoryHandler(historyUsecase, customValidator),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase, customValidator),
		Contact:        handler.NewContactHandler(contactUsecase, customValidator),
	}

	middlewares := deliveryHttp.Middlewares{
		Auth:      middleware.NewAuthMiddleware(jwtService, redisClient, log),
		CORS:      middleware.NewCORSMiddleware(cfg.App.AllowedOrigins...),
		RateLimit: middleware.NewRateLimitMiddleware(cfg.RateLimit, log),
		Metrics:   middleware.NewMetricsMiddleware(appMetrics),
		Recovery:  middleware.NewRecoveryMiddleware(log),
	}

	router := deliveryHttp.NewRouter(handlers, middlewares, registry)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	closeDB(app.DB)

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
