package routes

import (
	"inventar-backend/controllers"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupCategoryRoutes настраивает маршруты для категорий
func SetupCategoryRoutes(app *fiber.App, categoryController *controllers.CategoryController) {
	categories := app.Group("/api/categories", utils.AuthMiddleware)

	// GET /api/categories - список категорий
	categories.Get("/", categoryController.GetCategories)

	// POST /api/categories - создать категорию
	categories.Post("/", categoryController.CreateCategory)

	// GET /api/categories/:id - получить категорию
	categories.Get("/:id", categoryController.GetCategory)

	// PUT /api/categories/:id - обновить категорию
	categories.Put("/:id", categoryController.UpdateCategory)

	// DELETE /api/categories/:id - удалить категорию
	categories.Delete("/:id", categoryController.DeleteCategory)
}
