package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/controllers"
	"github.com/traceback-app/traceback/internal/pkg/middleware"
	"github.com/traceback-app/traceback/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize the claim engine on top of the repositories
	controllers.InitializeClaimEngine()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "traceback",
			"message": "campus lost and found",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
