package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/artem13815/expenses/api/http/presenter"
	"github.com/artem13815/expenses/pkg/logger"
	"github.com/artem13815/expenses/pkg/security/jwt"
)

// NewApp builds the Fiber app with middlewares, routes, Swagger UI and the
// enveloped 404 fallback.
func NewApp(log *slog.Logger, h Handlers, tokens jwt.TokenParser) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "expense-tracker",
		ErrorHandler: presenter.NewErrorHandler(log),
	})

	app.Use(logger.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New())

	Register(app, h, tokens)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(presenter.NotFound)
	return app
}
