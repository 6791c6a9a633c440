package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centavo-app/centavo-backend/internal/config"
	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/handler"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/repository/localstore"
	"github.com/centavo-app/centavo-backend/internal/repository/postgres"
	"github.com/centavo-app/centavo-backend/internal/repository/storage"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/centavo-app/centavo-backend/docs"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize repositories. With Auth0 configured the server is
	// multi-user and persists to Postgres; otherwise it runs in
	// single-user local mode backed by a JSON snapshot file.
	var (
		userRepo     domain.UserRepository
		settingsRepo domain.SettingsRepository
		expenseRepo  domain.ExpenseRepository
		incomeRepo   domain.IncomeRepository
		goalRepo     domain.GoalRepository
		ruleRepo     domain.BudgetRuleRepository
	)

	if cfg.AuthEnabled() {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Connected to database")

		userRepo = postgres.NewUserRepository(pool)
		settingsRepo = postgres.NewSettingsRepository(pool)
		expenseRepo = postgres.NewExpenseRepository(pool)
		incomeRepo = postgres.NewIncomeRepository(pool)
		goalRepo = postgres.NewGoalRepository(pool)
		ruleRepo = postgres.NewBudgetRuleRepository(pool)
	} else {
		store, err := localstore.Open(cfg.DataFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DataFile).Msg("Failed to open data file")
		}
		log.Info().Str("path", cfg.DataFile).Msg("Running in local mode")

		userRepo = store.Users()
		settingsRepo = store.Settings()
		expenseRepo = store.Expenses()
		incomeRepo = store.Incomes()
		goalRepo = store.Goals()
		ruleRepo = store.BudgetRules()
	}

	// Initialize receipt storage if configured
	var receiptStorage storage.ReceiptRepository
	if cfg.S3Enabled() {
		s3Repo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStorage = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Info().Msg("Receipt storage not configured, uploads disabled")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, settingsRepo, ruleRepo)
	profileService := service.NewProfileService(userRepo, settingsRepo)
	expenseService := service.NewExpenseService(expenseRepo, goalRepo)
	incomeService := service.NewIncomeService(incomeRepo)
	goalService := service.NewGoalService(goalRepo, expenseRepo)
	ruleService := service.NewBudgetRuleService(ruleRepo, settingsRepo, expenseRepo, incomeRepo)
	summaryService := service.NewSummaryService(expenseRepo, incomeRepo)
	receiptService := service.NewReceiptService(receiptStorage, expenseRepo)

	// WebSocket hub broadcasts entity change events to connected clients
	hub := websocket.NewHub()
	profileService.SetEventPublisher(hub)
	expenseService.SetEventPublisher(hub)
	incomeService.SetEventPublisher(hub)
	goalService.SetEventPublisher(hub)
	ruleService.SetEventPublisher(hub)

	// Auth wiring. The /auth group validates the token only, since the
	// callback is what provisions first-time users; everything else also
	// resolves the subject to a user ID.
	var (
		authenticate echo.MiddlewareFunc
		protect      echo.MiddlewareFunc
		wsValidator  handler.TokenValidator
	)

	if cfg.AuthEnabled() {
		tokenMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
		userMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
		authenticate = tokenMiddleware.Authenticate()
		protect = userMiddleware.Authenticate()

		validator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create websocket validator")
		}
		wsValidator = validator
	} else {
		// Provision the anonymous user up front so every request can
		// assume its settings and default budget rule exist
		if _, err := authService.AuthenticateUser("local", "local@localhost", nil); err != nil {
			log.Fatal().Err(err).Msg("Failed to provision local user")
		}
		anonymous := middleware.AnonymousMiddleware()
		authenticate = anonymous
		protect = anonymous
		wsValidator = &websocket.AnonymousValidator{UserID: domain.AnonymousUserID}
	}

	// Per-user rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	rateLimit := middleware.RateLimitMiddleware(rateLimiter)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	expenseHandler := handler.NewExpenseHandler(expenseService, receiptService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	goalHandler := handler.NewGoalHandler(goalService)
	ruleHandler := handler.NewBudgetRuleHandler(ruleService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authenticate, protect, rateLimit, authHandler, profileHandler, expenseHandler, incomeHandler, goalHandler, ruleHandler, summaryHandler)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)

	// API documentation
	e.GET("/openapi.json", handler.ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
