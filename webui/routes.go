package webui

import (
	fiber "github.com/gofiber/fiber/v2"
)

func (a *App) registerRoutes(webapp *fiber.App) {
	webapp.Get("/", func(c *fiber.Ctx) error {
		return c.Render("views/index", fiber.Map{})
	})

	webapp.Post("/api/chat", a.Chat())
	webapp.Get("/api/chat", a.Status())
}
