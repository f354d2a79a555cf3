package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/IoBuilders/payoutable-token/internal/auth"
	"github.com/IoBuilders/payoutable-token/internal/config"
	"github.com/IoBuilders/payoutable-token/internal/events"
	"github.com/IoBuilders/payoutable-token/internal/identity"
	"github.com/IoBuilders/payoutable-token/internal/issuance"
	"github.com/IoBuilders/payoutable-token/internal/ledger"
	"github.com/IoBuilders/payoutable-token/internal/middleware"
	"github.com/IoBuilders/payoutable-token/internal/operators"
	"github.com/IoBuilders/payoutable-token/internal/payout"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Backends
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
	}

	var accountRepo identity.Repository
	var operatorRepo operators.Repository
	var orderRepo payout.Repository
	if d.DB != nil {
		accountRepo = identity.NewPostgresRepository(d.DB)
		operatorRepo = operators.NewPostgresRepository(d.DB)
		orderRepo = payout.NewPostgresRepository(d.DB)
	} else {
		accountRepo = identity.NewMemoryRepository()
		operatorRepo = operators.NewMemoryRepository()
		orderRepo = payout.NewMemoryRepository()
	}

	// Services
	emitter := events.NewLoggerEmitter(d.Logger)
	identitySvc := identity.NewService(accountRepo, ledgerBackend)
	authSvc := auth.NewService(d.Cfg)
	operatorSvc := operators.NewService(operatorRepo, emitter)
	payoutSvc, err := payout.NewService(context.Background(), ledgerBackend, orderRepo, operatorSvc, emitter,
		d.Cfg.SuspenseAccount, d.Cfg.PayoutAgent)
	if err != nil {
		return err
	}
	issuanceSvc, err := issuance.NewService(ledgerBackend, identitySvc, nil)
	if err != nil {
		return err
	}

	// Handlers
	authHandler := auth.NewHandler(identitySvc, authSvc)
	operatorHandler := operators.NewHandler(operatorSvc)
	payoutHandler := payout.NewHandler(payoutSvc)
	issuanceHandler := issuance.NewHandler(issuanceSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identitySvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	api.Get("/operators/:operator/for/:holder", operatorHandler.IsAuthorizedFor)

	// Protected routes
	callerAuth := middleware.CallerAuth(authSvc, identitySvc)
	protected := api.Group("", callerAuth)
	RegisterAccountRoutes(protected, identitySvc)
	RegisterOperatorRoutes(protected, operatorHandler)
	RegisterPayoutRoutes(protected, payoutHandler)
	RegisterIssuanceRoutes(protected, issuanceHandler, agentOnly(d.Cfg.PayoutAgent))

	return nil
}

// agentOnly restricts a route group to the configured payout agent identity.
func agentOnly(payoutAgent string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, _ := c.Locals("account_id").(string)
		if accountID != payoutAgent {
			return fiber.NewError(http.StatusForbidden, "payout agent only")
		}
		return c.Next()
	}
}
