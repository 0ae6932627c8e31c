package routes

import (
	"inventar-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes настраивает маршруты аутентификации
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	auth := app.Group("/api/auth")

	// POST /api/auth/register - регистрация пользователя
	auth.Post("/register", authController.Register)

	// POST /api/auth/login - вход пользователя
	auth.Post("/login", authController.Login)
}
