package controllers

import (
	"errors"
	"strings"

	"inventar-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EmployeeController обрабатывает HTTP запросы для сотрудников
type EmployeeController struct {
	DB *gorm.DB
}

// NewEmployeeController создает новый контроллер сотрудников
func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

// EmployeeRequest структура запроса создания/обновления сотрудника
type EmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// GetEmployees возвращает всех сотрудников
func (ec *EmployeeController) GetEmployees(ctx *fiber.Ctx) error {
	var employees []models.Employee
	if err := ec.DB.Order("name asc").Find(&employees).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to list employees",
		})
	}
	return ctx.JSON(fiber.Map{
		"employees": employees,
	})
}

// GetEmployee возвращает сотрудника по ID
func (ec *EmployeeController) GetEmployee(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Employee not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get employee",
		})
	}
	return ctx.JSON(employee)
}

// CreateEmployee создает нового сотрудника
func (ec *EmployeeController) CreateEmployee(ctx *fiber.Ctx) error {
	var req EmployeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Employee name is required",
		})
	}

	employee := models.Employee{
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
	}
	if err := ec.DB.Create(&employee).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to create employee",
		})
	}

	return ctx.Status(201).JSON(employee)
}

// UpdateEmployee обновляет сотрудника
func (ec *EmployeeController) UpdateEmployee(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Employee not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get employee",
		})
	}

	var req EmployeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Employee name is required",
		})
	}

	employee.Name = req.Name
	employee.Email = req.Email
	employee.Position = req.Position
	if err := ec.DB.Save(&employee).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to update employee",
		})
	}

	return ctx.JSON(employee)
}

// DeleteEmployee удаляет сотрудника. Сотрудник с закреплёнными активами
// не удаляется.
func (ec *EmployeeController) DeleteEmployee(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid employee ID",
		})
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Employee not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get employee",
		})
	}

	var count int64
	if err := ec.DB.Model(&models.Asset{}).Where("employee_id = ?", employee.ID).Count(&count).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to check employee assignments",
		})
	}
	if count > 0 {
		return ctx.Status(409).JSON(fiber.Map{
			"error": "Employee has assigned assets",
		})
	}

	if err := ec.DB.Delete(&employee).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to delete employee",
		})
	}

	return ctx.JSON(fiber.Map{
		"message": "Employee deleted",
	})
}
