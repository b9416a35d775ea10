package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/database"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/http/handler"
	"github.com/hateco-vn/quotation-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/hateco-vn/quotation-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	rfqHandler          *handler.RFQHandler
	quotationHandler    *handler.QuotationHandler
	orderHandler        *handler.OrderHandler
	productHandler      *handler.ProductHandler
	dashboardHandler    *handler.DashboardHandler
	activityHandler     *handler.ActivityHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	rfqHandler *handler.RFQHandler,
	quotationHandler *handler.QuotationHandler,
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	dashboardHandler *handler.DashboardHandler,
	activityHandler *handler.ActivityHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		rfqHandler:          rfqHandler,
		quotationHandler:    quotationHandler,
		orderHandler:        orderHandler,
		productHandler:      productHandler,
		dashboardHandler:    dashboardHandler,
		activityHandler:     activityHandler,
		notificationHandler: notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.RequestLogging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/customer/register", rt.authHandler.RegisterCustomer)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth & profile
			r.Get("/auth/me", rt.authHandler.Me)
			r.With(rt.authMiddleware.RequireRole(domain.RoleCustomer)).
				Post("/customers/complete-profile", rt.authHandler.CompleteProfile)

			// RFQs
			r.Route("/rfqs", func(r chi.Router) {
				r.Get("/", rt.rfqHandler.List)
				r.With(rt.authMiddleware.RequireRole(domain.RoleCustomer)).
					Post("/", rt.rfqHandler.Create)
				r.Get("/my", rt.rfqHandler.ListMine)
				r.Get("/customer/{customerId}", rt.rfqHandler.ListByCustomer)
				r.Get("/{id}", rt.rfqHandler.Get)
				r.Patch("/{id}", rt.rfqHandler.Update)
				r.With(rt.authMiddleware.RequireRole(domain.RoleSaleStaff, domain.RoleAdmin)).
					Post("/{id}/forward-to-planning", rt.rfqHandler.ForwardToPlanning)
				r.With(rt.authMiddleware.RequireRole(domain.RolePlanningDept, domain.RoleAdmin)).
					Post("/{id}/receive-by-planning", rt.rfqHandler.ReceiveByPlanning)
				r.Post("/{id}/cancel", rt.rfqHandler.Cancel)
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Get("/customer/{customerId}", rt.quotationHandler.ListByCustomer)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(
						domain.RolePlanningDept, domain.RoleDirector, domain.RoleAdmin))
					r.Post("/calculate-price", rt.quotationHandler.CalculatePrice)
					r.Post("/recalculate-price", rt.quotationHandler.CalculatePrice)
					r.Post("/create-from-rfq", rt.quotationHandler.CreateFromRFQ)
				})

				r.Get("/{id}", rt.quotationHandler.Get)
				r.With(rt.authMiddleware.RequireRole(domain.RoleCustomer)).
					Post("/{id}/approve", rt.quotationHandler.Approve)
				r.With(rt.authMiddleware.RequireRole(domain.RoleCustomer)).
					Post("/{id}/reject", rt.quotationHandler.Reject)
				r.Post("/{id}/create-order", rt.quotationHandler.CreateOrder)
			})

			// Orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.List)
				r.Get("/me", rt.orderHandler.ListMine)
				r.Get("/customer", rt.orderHandler.ListMine)
				r.Get("/customer/{customerId}", rt.orderHandler.ListByCustomer)
				r.Get("/{id}", rt.orderHandler.Get)
				r.With(rt.authMiddleware.RequireRole(domain.RoleCustomer)).
					Post("/{id}/confirm", rt.orderHandler.Confirm)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(
						domain.RoleProductionLead, domain.RoleAdmin))
					r.Post("/{id}/start-production", rt.orderHandler.StartProduction)
					r.Post("/{id}/complete", rt.orderHandler.Complete)
				})

				r.With(rt.authMiddleware.RequireRole(
					domain.RoleProductionLead, domain.RoleWorker, domain.RoleAdmin)).
					Post("/{id}/steps/{step}/complete", rt.orderHandler.CompleteStep)
				r.With(rt.authMiddleware.RequireRole(
					domain.RoleQCStaff, domain.RoleAdmin)).
					Post("/{id}/pass-qc", rt.orderHandler.PassQC)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.List)
				r.Get("/categories", rt.productHandler.ListCategories)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).
					Post("/", rt.productHandler.Create)
				r.Get("/{id}", rt.productHandler.Get)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).
					Put("/{id}", rt.productHandler.Update)
			})
			r.Get("/product-categories", rt.productHandler.ListCategories)

			// Dashboard
			r.With(rt.authMiddleware.RequireInternal).
				Get("/dashboard/metrics", rt.dashboardHandler.Metrics)

			// Activities
			r.Route("/activities", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireInternal)
				r.Get("/", rt.activityHandler.ListRecent)
				r.Get("/{targetType}/{targetId}", rt.activityHandler.ListByTarget)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Post("/read-all", rt.notificationHandler.MarkAllRead)
				r.Post("/{id}/read", rt.notificationHandler.MarkRead)
			})
		})
	})

	return r
}
