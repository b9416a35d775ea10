package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hateco-vn/quotation-api/docs"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/database"
	"github.com/hateco-vn/quotation-api/internal/http/handler"
	"github.com/hateco-vn/quotation-api/internal/http/middleware"
	"github.com/hateco-vn/quotation-api/internal/http/router"
	"github.com/hateco-vn/quotation-api/internal/jobs"
	"github.com/hateco-vn/quotation-api/internal/logger"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"go.uber.org/zap"
)

// @title Hateco Quotation API
// @version 1.0
// @description Quotation workflow API for towel manufacturing: RFQs, quotations, sales orders and production tracking

// @contact.name API Support
// @contact.email support@hateco.vn

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch cfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "quotation-staging.hateco.vn"
	case "production":
		docs.SwaggerInfo.Host = "api.hateco.vn"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	rfqRepo := repository.NewRFQRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	tokenService := auth.NewTokenService(&cfg.JWT)
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	activityService := service.NewActivityService(activityRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	authService := service.NewAuthService(db, userRepo, customerRepo, tokenService, log)
	pricingService := service.NewPricingService(&cfg.Pricing, productRepo, log)
	rfqService := service.NewRFQService(rfqRepo, productRepo, numberSequenceService, activityService, notificationService, log)
	quotationService := service.NewQuotationService(db, quotationRepo, rfqService, orderRepo, pricingService, &cfg.Pricing, numberSequenceService, activityService, notificationService, log)
	orderService := service.NewOrderService(orderRepo, activityService, notificationService, log)
	productService := service.NewProductService(productRepo, log)
	dashboardService := service.NewDashboardService(rfqRepo, quotationRepo, orderRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenService, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	rfqHandler := handler.NewRFQHandler(rfqService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	productHandler := handler.NewProductHandler(productService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		rfqHandler,
		quotationHandler,
		orderHandler,
		productHandler,
		dashboardHandler,
		activityHandler,
		notificationHandler,
	)

	// Start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		expiryJob := jobs.NewQuotationExpiryJob(quotationService, log, jobs.DefaultExpiryTimeout)
		if err := scheduler.AddJob(jobs.QuotationExpiryJobName, cfg.Jobs.QuotationExpiryCron, expiryJob.Run); err != nil {
			log.Error("Failed to register quotation expiry job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("cron_expr", cfg.Jobs.QuotationExpiryCron))
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
