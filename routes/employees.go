package routes

import (
	"inventar-backend/controllers"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupEmployeeRoutes настраивает маршруты для сотрудников
func SetupEmployeeRoutes(app *fiber.App, employeeController *controllers.EmployeeController) {
	employees := app.Group("/api/employees", utils.AuthMiddleware)

	// GET /api/employees - список сотрудников
	employees.Get("/", employeeController.GetEmployees)

	// POST /api/employees - создать сотрудника
	employees.Post("/", employeeController.CreateEmployee)

	// GET /api/employees/:id - получить сотрудника
	employees.Get("/:id", employeeController.GetEmployee)

	// PUT /api/employees/:id - обновить сотрудника
	employees.Put("/:id", employeeController.UpdateEmployee)

	// DELETE /api/employees/:id - удалить сотрудника
	employees.Delete("/:id", employeeController.DeleteEmployee)
}
