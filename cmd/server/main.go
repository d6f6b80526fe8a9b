package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	activityapp "github.com/gestium/backend/internal/application/activity"
	billingapp "github.com/gestium/backend/internal/application/billing"
	governanceapp "github.com/gestium/backend/internal/application/governance"
	identityapp "github.com/gestium/backend/internal/application/identity"
	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/infrastructure/auth"
	"github.com/gestium/backend/internal/infrastructure/config"
	"github.com/gestium/backend/internal/infrastructure/logger"
	"github.com/gestium/backend/internal/infrastructure/persistence"
	"github.com/gestium/backend/internal/interfaces/http/handler"
	"github.com/gestium/backend/internal/interfaces/http/middleware"
	"github.com/gestium/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Gestium backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	departmentRepo := persistence.NewGormDepartmentRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	findingRepo := persistence.NewGormFindingRepository(db.DB)
	actionRepo := persistence.NewGormCorrectiveActionRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	usageCounter := persistence.NewGormUsageCounter(db.DB)

	// Governance pipeline: limits resolve from the active subscription's
	// plan, the gate decides creates, the recorder appends the trail, and
	// the orchestrator runs gate -> write -> record for every mutation.
	limitResolver := governanceapp.NewPlanLimitResolver(subscriptionRepo, planRepo, log)
	quotaGate := governanceapp.NewQuotaGate(limitResolver, usageCounter, log)
	recorder := activityapp.NewRecorder(activityRepo, log)
	orchestrator := governanceapp.NewOrchestrator(quotaGate, recorder, log)

	// Application services
	organizationService := identityapp.NewOrganizationService(orgRepo, recorder, log)
	userService := identityapp.NewUserService(userRepo, orchestrator, log)
	departmentService := qmsapp.NewDepartmentService(departmentRepo, orchestrator, log)
	documentService := qmsapp.NewDocumentService(documentRepo, orchestrator, log)
	auditService := qmsapp.NewAuditService(auditRepo, orchestrator, log)
	findingService := qmsapp.NewFindingService(findingRepo, auditRepo, orchestrator, log)
	actionService := qmsapp.NewActionService(actionRepo, findingRepo, orchestrator, log)
	activityQueryService := activityapp.NewQueryService(activityRepo, log)
	subscriptionService := billingapp.NewSubscriptionService(subscriptionRepo, planRepo, usageCounter, log)
	planService := billingapp.NewPlanService(planRepo, log)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// HTTP handlers
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(db, version),
		Organization: handler.NewOrganizationHandler(organizationService),
		User:         handler.NewUserHandler(userService),
		Department:   handler.NewDepartmentHandler(departmentService),
		Document:     handler.NewDocumentHandler(documentService),
		Audit:        handler.NewAuditHandler(auditService),
		Finding:      handler.NewFindingHandler(findingService),
		Action:       handler.NewActionHandler(actionService),
		Activity:     handler.NewActivityHandler(activityQueryService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Plan:         handler.NewPlanHandler(planService),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      []string{"/health", "/api/v1/health"},
		Logger:         log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.APIRoutes(handlers))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
