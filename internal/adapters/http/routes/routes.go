package routes

import (
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/handlers"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services is everything the HTTP layer dispatches to
type Services struct {
	Auth         *services.AuthService
	Applications *services.ApplicationService
	Feedback     *services.FeedbackService
	Files        *services.FileService
	References   *services.ReferenceService

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Health probes reported by /health, keyed by dependency name
	Health map[string]handlers.HealthCheck
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, svc.Health)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	applicationHandler := handlers.NewApplicationHandler(svc.Applications)
	feedbackHandler := handlers.NewFeedbackHandler(svc.Feedback)
	fileHandler := handlers.NewFileHandler(svc.Files)
	referenceHandler := handlers.NewReferenceHandler(svc.References)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	if svc.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	setupAuthRoutes(api.Group("/auth"), authHandler, cfg)
	setupReferenceRoutes(api, referenceHandler)
	setupApplicationRoutes(api.Group("/applications"), applicationHandler, cfg)

	feedbackRoutes := api.Group("/feedback")
	feedbackRoutes.Use(middleware.AuthMiddleware(cfg))
	setupFeedbackRoutes(feedbackRoutes, feedbackHandler)

	setupFileRoutes(api.Group("/files"), fileHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupReferenceRoutes configures the public catalogue routes
func setupReferenceRoutes(router fiber.Router, handler *handlers.ReferenceHandler) {
	router.Get("/application-types", middleware.ReferenceDataCache(), handler.ApplicationTypes)
	router.Get("/officers", middleware.ReferenceDataCache(), handler.Officers)
}

// setupApplicationRoutes configures application routes. Static paths are
// registered before /:trackingNumber so they are not captured by it.
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)

	// Public routes
	router.Post("/", middleware.SubmitRateLimiter(), handler.Submit)

	// Staff routes
	router.Get("/", auth, middleware.StaffOnly(), handler.ListAll)
	router.Get("/comprehensive", auth, middleware.StaffOnly(), handler.ListComprehensive)
	router.Get("/admin/comprehensive", auth, middleware.AdminOnly(), handler.ListAdminComprehensive)

	// Authenticated users
	router.Get("/my/comprehensive", auth, middleware.NoCacheHeaders(), handler.ListMine)
	router.Get("/user/details/:nationalId", auth, handler.UserDetails)
	router.Get("/user/:nationalId/summary", auth, handler.SummaryForUser)
	router.Get("/user/:nationalId", auth, handler.ListForUser)

	router.Get("/:trackingNumber", handler.GetByTrackingNumber)
	router.Put("/:trackingNumber/status", auth, middleware.StaffOnly(), handler.UpdateStatus)
}

// setupFeedbackRoutes configures feedback routes (authenticated)
func setupFeedbackRoutes(router fiber.Router, handler *handlers.FeedbackHandler) {
	router.Post("/", handler.Create)
	router.Get("/user", handler.UserInbox)
	router.Get("/officer", middleware.StaffOnly(), handler.OfficerInbox)
	router.Get("/application/:applicationId", handler.ByApplication)
	router.Post("/:feedbackId/reply", handler.Reply)
	router.Put("/:feedbackId/read", handler.MarkRead)
	router.Delete("/:feedbackId", handler.Delete)
}

// setupFileRoutes configures file routes. Upload is open so applicants can
// attach documents before they have an account.
func setupFileRoutes(router fiber.Router, handler *handlers.FileHandler, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)

	router.Post("/upload", middleware.SubmitRateLimiter(), middleware.OptionalAuth(cfg), handler.Upload)
	router.Get("/", auth, handler.List)
	router.Get("/:id", auth, handler.Get)
	router.Delete("/:id", auth, handler.Delete)
}
