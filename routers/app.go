package routers

import (
	"elearn/config"
	"elearn/middleware"
	"elearn/routers/adminRoutes"
	"elearn/routers/authRoutes"
	"elearn/routers/courseRoutes"
	"elearn/routers/progressRoutes"
	userProfileRoutes "elearn/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with every route group mounted. accessLog
// toggles the request log line.
func NewApp(cfg *config.Config, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "elearn",
		ErrorHandler: errorHandler,
		// c.IP() reads ProxyHeader only when the peer is a trusted proxy
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if accessLog {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	return app
}

// errorHandler keeps fiber's own errors (404 route, 405, body limit) in the
// response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
