// Package webapi assembles the Fiber application: global middleware, health
// and metrics endpoints, and the operation routes.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/ledger"
	authsvc "github.com/hbenmansour/cashops/pkg/service/auth"
	operationsvc "github.com/hbenmansour/cashops/pkg/service/operation"
	"github.com/hbenmansour/cashops/webapi/common"
	operationapi "github.com/hbenmansour/cashops/webapi/operation"
)

// NewApp builds the Fiber application with rate limiting, panic recovery,
// the health and metrics endpoints, and the operation routes.
func NewApp(
	cfg *config.App,
	orch *ledger.Orchestrator,
	opSvc *operationsvc.Service,
	authSvc *authsvc.Service,
	registry *prometheus.Registry,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"fetch":  orch.State().String(),
		})
	})
	if registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		))
	}

	operationapi.Routes(app, orch, opSvc, authSvc, cfg)

	return app
}
