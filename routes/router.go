package routes

import (
	"strings"
	"time"

	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AppConfig are the HTTP-level settings of the application.
type AppConfig struct {
	CORSAllowOrigins string
	PublicRateLimit  int
	// LimiterStorage shares rate limit counters between instances; nil keeps
	// them in memory.
	LimiterStorage fiber.Storage
	// ProxyHeader names the header carrying the client IP when running behind
	// a gateway.
	ProxyHeader string
}

// NewApp builds the fiber application with every route registered.
func NewApp(cfg AppConfig, svc *services.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "bridebuddy",
		DisableStartupMessage: true,
		ProxyHeader:           cfg.ProxyHeader,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
	})
	SetupRoutes(app, cfg, svc)
	return app
}

// SetupRoutes registers the global middleware and every route group.
func SetupRoutes(app *fiber.App, cfg AppConfig, svc *services.Registry) {
	app.Use(recoverMiddleware.New())
	app.Use(requestid.New())
	// ${route} rather than ${path}: invite tokens travel in the path.
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${route}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.CORSAllowOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	registerAPIRoutes(app, cfg, svc)

	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found", "reason": "not_found"})
}

// errorHandler renders fiber's own errors (bad method, body too large) in the
// API's error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	reason := "internal"
	msg := "internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
		reason = "http_error"
	}
	return c.Status(code).JSON(fiber.Map{"error": msg, "reason": reason})
}
