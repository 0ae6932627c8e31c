package routes

import (
	"inventar-backend/controllers"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes настраивает маршруты дашборда
func SetupDashboardRoutes(app *fiber.App, dashboardController *controllers.DashboardController) {
	dashboard := app.Group("/api/dashboard", utils.AuthMiddleware)

	// GET /api/dashboard - сводная статистика по активам
	dashboard.Get("/", dashboardController.GetDashboard)
}
