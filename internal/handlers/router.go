package handlers

import (
	"gamecatalog/internal/app"
	"gamecatalog/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	HealthHandler(router, app.Config)
	NewGameHandler(*app, router).Register()

	return nil
}
