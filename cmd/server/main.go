package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	estateapp "github.com/koperasi/backend/internal/application/estate"
	identityapp "github.com/koperasi/backend/internal/application/identity"
	memberapp "github.com/koperasi/backend/internal/application/member"
	settingsapp "github.com/koperasi/backend/internal/application/settings"
	shuapp "github.com/koperasi/backend/internal/application/shu"
	"github.com/koperasi/backend/internal/domain/identity"
	"github.com/koperasi/backend/internal/infrastructure/auth"
	"github.com/koperasi/backend/internal/infrastructure/cache"
	"github.com/koperasi/backend/internal/infrastructure/config"
	"github.com/koperasi/backend/internal/infrastructure/logger"
	"github.com/koperasi/backend/internal/infrastructure/persistence"
	"github.com/koperasi/backend/internal/infrastructure/scheduler"
	"github.com/koperasi/backend/internal/infrastructure/telemetry"
	"github.com/koperasi/backend/internal/interfaces/http/handler"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
	"github.com/koperasi/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Koperasi Backend API
//	@version		1.0
//	@description	Cooperative management backend: members, savings, SHU profit sharing and estate fee billing

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Koperasi Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize telemetry providers. Disabled config yields no-op providers.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	savingsAccountRepo := persistence.NewGormSavingsAccountRepository(db.DB)
	savingsTransactionRepo := persistence.NewGormSavingsTransactionRepository(db.DB)
	shuSettingRepo := persistence.NewGormPercentageSettingRepository(db.DB)
	shuDistributionRepo := persistence.NewGormDistributionRepository(db.DB)
	shuAllocationRepo := persistence.NewGormMemberAllocationRepository(db.DB)
	residentRepo := persistence.NewGormResidentRepository(db.DB)
	feeRepo := persistence.NewGormFeeRepository(db.DB)
	feePaymentRepo := persistence.NewGormFeePaymentRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	transactor := persistence.NewGormTransactor(db.DB)

	// Settings cache: Redis with in-memory fallback for single-instance setups
	cacheFactory := cache.NewCacheFactory(cfg.Redis, cache.WithLogger(log))
	settingsCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create settings cache", zap.Error(err))
	}

	// Token revocation shares the Redis connection when available so logouts
	// survive restarts; otherwise revocations are process-local.
	var revocations auth.TokenRevocationList
	if redisCache, ok := settingsCache.(*cache.RedisCache); ok {
		revocations = auth.NewRedisTokenRevocationList(redisCache.GetClient())
	} else {
		revocations = auth.NewInMemoryTokenRevocationList()
		log.Warn("Using in-memory token revocation list; revoked tokens are forgotten on restart")
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	memberService := memberapp.NewMemberService(memberRepo, savingsAccountRepo, transactor)
	savingsService := memberapp.NewSavingsService(savingsAccountRepo, savingsTransactionRepo, transactor)
	shuSettingService := shuapp.NewSettingService(shuSettingRepo, shuDistributionRepo)
	shuDistributionService := shuapp.NewDistributionService(
		shuDistributionRepo,
		shuSettingRepo,
		shuAllocationRepo,
		memberRepo,
		savingsAccountRepo,
		savingsTransactionRepo,
		transactor,
		log,
	)
	settingsService := settingsapp.NewService(settingRepo, settingsCache)
	residentService := estateapp.NewResidentService(residentRepo, feeRepo)
	feePaymentService := estateapp.NewFeePaymentService(
		feePaymentRepo,
		residentRepo,
		feeRepo,
		settingsService,
		transactor,
		log,
	)

	// Business metrics with periodic gauge collection
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:    meterProvider.Meter("koperasi.business"),
			Logger:   log,
			Provider: telemetry.NewGormCooperativeMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
		defer businessMetrics.Stop()

		savingsService.SetMetricsRecorder(businessMetrics)
		shuDistributionService.SetMetricsRecorder(businessMetrics)
		feePaymentService.SetMetricsRecorder(businessMetrics)
	}

	// Monthly bill generation scheduler
	if cfg.Billing.SchedulerEnabled {
		schedulerCfg := scheduler.DefaultBillingSchedulerConfig()
		schedulerCfg.RunDay = cfg.Billing.RunDay
		schedulerCfg.RunHour = cfg.Billing.RunHour
		schedulerCfg.RunMinute = cfg.Billing.RunMinute

		billingScheduler, err := scheduler.NewBillingScheduler(schedulerCfg, feePaymentService, log)
		if err != nil {
			log.Fatal("Failed to initialize billing scheduler", zap.Error(err))
		}
		if err := billingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start billing scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := billingScheduler.Stop(ctx); err != nil {
				log.Warn("Billing scheduler shutdown error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, revocations)
	memberHandler := handler.NewMemberHandler(memberService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	shuSettingHandler := handler.NewShuSettingHandler(shuSettingService)
	shuDistributionHandler := handler.NewShuDistributionHandler(shuDistributionService)
	residentHandler := handler.NewResidentHandler(residentService)
	feePaymentHandler := handler.NewFeePaymentHandler(feePaymentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - Observability (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("koperasi.http"), meterProvider.IsEnabled()))
	}

	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		RevocationList: revocations,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Admin-only and management guards
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)
	management := middleware.RequireRoles(identity.RoleAdmin, identity.RolePengurus)

	// Auth routes (login is public via skip paths). Login gets its own
	// tight per-IP limit so credential stuffing cannot hide under the
	// global limiter.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login",
		middleware.RateLimitByKey(loginLimiter, func(c *gin.Context) string { return c.ClientIP() }),
		authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.POST("/change-password", authHandler.ChangePassword)

	// User management routes (admin only)
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("", adminOnly, authHandler.CreateUser)
	userRoutes.GET("", adminOnly, authHandler.ListUsers)
	userRoutes.GET("/:id", adminOnly, authHandler.GetUser)

	// Member routes
	memberRoutes := router.NewDomainGroup("members", "/members")
	memberRoutes.POST("", memberHandler.Register)
	memberRoutes.GET("", memberHandler.List)
	memberRoutes.GET("/:id", memberHandler.GetByID)
	memberRoutes.PUT("/:id", memberHandler.Update)
	memberRoutes.POST("/:id/suspend", management, memberHandler.Suspend)
	memberRoutes.POST("/:id/activate", management, memberHandler.Activate)

	// Savings routes
	savingsRoutes := router.NewDomainGroup("savings", "/savings")
	savingsRoutes.POST("/deposits", savingsHandler.Deposit)
	savingsRoutes.POST("/withdrawals", savingsHandler.Withdraw)
	savingsRoutes.GET("/transactions", savingsHandler.ListTransactions)

	// SHU routes (settings and yearly distributions)
	shuRoutes := router.NewDomainGroup("shu", "/shu")
	shuRoutes.POST("/settings", management, shuSettingHandler.Create)
	shuRoutes.GET("/settings", shuSettingHandler.List)
	shuRoutes.GET("/settings/:id", shuSettingHandler.GetByID)
	shuRoutes.PUT("/settings/:id", management, shuSettingHandler.Update)
	shuRoutes.DELETE("/settings/:id", management, shuSettingHandler.Delete)
	shuRoutes.POST("/settings/:id/activate", management, shuSettingHandler.Activate)
	shuRoutes.POST("/distributions", management, shuDistributionHandler.Create)
	shuRoutes.GET("/distributions", shuDistributionHandler.List)
	shuRoutes.GET("/distributions/:id", shuDistributionHandler.GetByID)
	shuRoutes.PUT("/distributions/:id", management, shuDistributionHandler.Update)
	shuRoutes.DELETE("/distributions/:id", management, shuDistributionHandler.Delete)
	shuRoutes.GET("/distributions/:id/allocations", shuDistributionHandler.Allocations)
	shuRoutes.POST("/distributions/:id/calculate", management, shuDistributionHandler.Calculate)
	shuRoutes.POST("/distributions/:id/approve", management, shuDistributionHandler.Approve)
	shuRoutes.POST("/distributions/:id/payout", management, shuDistributionHandler.Payout)

	// Estate routes (residents, fee catalog, billing)
	estateRoutes := router.NewDomainGroup("estate", "/estate")
	estateRoutes.POST("/residents", residentHandler.Register)
	estateRoutes.GET("/residents", residentHandler.List)
	estateRoutes.GET("/residents/:id", residentHandler.GetByID)
	estateRoutes.PUT("/residents/:id", residentHandler.Update)
	estateRoutes.POST("/residents/:id/move-out", residentHandler.MoveOut)
	estateRoutes.POST("/fees", management, residentHandler.CreateFee)
	estateRoutes.GET("/fees", residentHandler.ListFees)
	estateRoutes.PUT("/fees/:id", management, residentHandler.UpdateFee)
	estateRoutes.POST("/fee-payments", feePaymentHandler.Create)
	estateRoutes.GET("/fee-payments", feePaymentHandler.List)
	estateRoutes.GET("/fee-payments/:id", feePaymentHandler.GetByID)
	estateRoutes.POST("/fee-payments/:id/pay", feePaymentHandler.Pay)
	estateRoutes.POST("/fee-payments/:id/reschedule", management, feePaymentHandler.Reschedule)
	estateRoutes.POST("/fee-payments/:id/cancel", management, feePaymentHandler.Cancel)
	estateRoutes.POST("/fee-payments/generate", management, feePaymentHandler.GenerateBills)
	estateRoutes.POST("/fee-payments/mark-overdue", management, feePaymentHandler.MarkOverdue)

	// Settings routes (admin only for writes)
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.PUT("", adminOnly, settingsHandler.Upsert)
	settingsRoutes.GET("", settingsHandler.List)
	settingsRoutes.GET("/:key", settingsHandler.Get)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(userRoutes).
		Register(memberRoutes).
		Register(savingsRoutes).
		Register(shuRoutes).
		Register(estateRoutes).
		Register(settingsRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
