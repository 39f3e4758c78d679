// Package app assembles the HTTP application from configuration and storage.
package app

import (
	"fmt"
	"strings"
	"time"

	"ai-governance/internal/config"
	"ai-governance/internal/domain"
	"ai-governance/internal/handler"
	"ai-governance/internal/middleware"
	"ai-governance/internal/repository"
	"ai-governance/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/jmoiron/sqlx"
)

const bodyLimit = 1 * 1024 * 1024

// Services are the use cases the handlers depend on.
type Services struct {
	Auth       service.AuthService
	Assessment service.AssessmentService
	Mailer     service.Mailer
}

// NewServices builds repositories and services on db. cache may be nil.
func NewServices(cfg *config.Config, db *sqlx.DB, cache domain.Cache) (*Services, error) {
	userRepo := repository.NewSQLXUserRepository(db)
	failedLoginRepo := repository.NewSQLXFailedLoginRepository(db)
	resetRepo := repository.NewSQLXPasswordResetRepository(db)
	assessmentRepo := repository.NewSQLXAssessmentRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	authService, err := service.NewAuthService(userRepo, failedLoginRepo, resetRepo, txManager, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	var summaryCache service.SummaryCacheService
	if cache != nil {
		summaryCache = service.NewSummaryCacheService(cache, cfg.Redis.SummaryTTL)
	}

	var mailer service.Mailer
	if cfg.Mail.Enabled {
		mailer = service.NewLogMailer(cfg.Mail)
	}

	return &Services{
		Auth:       authService,
		Assessment: service.NewAssessmentService(assessmentRepo, txManager, summaryCache),
		Mailer:     mailer,
	}, nil
}

// New creates the Fiber app with middleware and every route registered.
func New(cfg *config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	app.Use(recover.New())

	registerRoutes(app, cfg, svc)
	return app
}

func registerRoutes(app *fiber.App, cfg *config.Config, svc *Services) {
	healthHandler := handler.NewHealthHandler(cfg.App)
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Mailer)
	questionnaireHandler := handler.NewQuestionnaireHandler()
	assessmentHandler := handler.NewAssessmentHandler(svc.Assessment)
	validationMiddleware := middleware.NewValidationMiddleware()
	protected := middleware.Protected(svc.Auth)

	app.Get("/", rootLimiter(cfg.Server.RateLimitPerMinute), healthHandler.Root)
	app.Get("/health", healthHandler.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.RequestPasswordReset)
	auth.Post("/reset-password/confirm", authHandler.ConfirmPasswordReset)
	auth.Get("/me", protected, authHandler.Me)

	assessments := api.Group("/assessments")
	// Registered before /:id so "questionnaires" is not taken for an id.
	assessments.Get("/questionnaires", questionnaireHandler.GetQuestionnaires)
	assessments.Get("/questionnaires/:category", validationMiddleware.ValidateCategory(), questionnaireHandler.GetQuestionnaire)

	assessments.Post("/", protected, assessmentHandler.CreateAssessment)
	assessments.Get("/", protected, assessmentHandler.ListAssessments)
	assessments.Get("/:id", protected, assessmentHandler.GetAssessment)
	assessments.Put("/:id", protected, assessmentHandler.UpdateAssessment)
	assessments.Delete("/:id", protected, assessmentHandler.DeleteAssessment)
	assessments.Post("/:id/answers", protected, assessmentHandler.SubmitAnswers)
	assessments.Get("/:id/summary", protected, assessmentHandler.GetSummary)
	assessments.Get("/:id/export/csv", protected, assessmentHandler.ExportCSV)
	assessments.Get("/:id/export/pdf", protected, assessmentHandler.ExportPDF)
}

func rootLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(middleware.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Too many requests",
				Status:  fiber.StatusTooManyRequests,
			})
		},
	})
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}
	// Credentials are only allowed with an explicit origin list.
	if len(origins) > 0 {
		c.AllowOrigins = strings.Join(origins, ",")
		c.AllowCredentials = true
	}
	return c
}
