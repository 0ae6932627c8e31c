package controllers

import (
	"errors"
	"strings"

	"inventar-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CategoryController обрабатывает HTTP запросы для категорий активов
type CategoryController struct {
	DB *gorm.DB
}

// NewCategoryController создает новый контроллер категорий
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// CategoryRequest структура запроса создания/обновления категории
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetCategories возвращает все категории
func (cc *CategoryController) GetCategories(ctx *fiber.Ctx) error {
	var categories []models.Category
	if err := cc.DB.Order("name asc").Find(&categories).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}
	return ctx.JSON(fiber.Map{
		"categories": categories,
	})
}

// GetCategory возвращает категорию по ID
func (cc *CategoryController) GetCategory(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get category",
		})
	}
	return ctx.JSON(category)
}

// CreateCategory создает новую категорию
func (cc *CategoryController) CreateCategory(ctx *fiber.Ctx) error {
	var req CategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Category name is required",
		})
	}

	// Проверяем уникальность имени
	var existing models.Category
	if err := cc.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return ctx.Status(409).JSON(fiber.Map{
			"error": "Category with this name already exists",
		})
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to create category",
		})
	}

	return ctx.Status(201).JSON(category)
}

// UpdateCategory обновляет категорию
func (cc *CategoryController) UpdateCategory(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get category",
		})
	}

	var req CategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Category name is required",
		})
	}

	var existing models.Category
	if err := cc.DB.Where("name = ? AND id <> ?", req.Name, category.ID).First(&existing).Error; err == nil {
		return ctx.Status(409).JSON(fiber.Map{
			"error": "Category with this name already exists",
		})
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := cc.DB.Save(&category).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to update category",
		})
	}

	return ctx.JSON(category)
}

// DeleteCategory удаляет категорию. Категория с привязанными активами
// не удаляется, чтобы не оставлять висячие ссылки.
func (cc *CategoryController) DeleteCategory(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(404).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to get category",
		})
	}

	var count int64
	if err := cc.DB.Model(&models.Asset{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to check category usage",
		})
	}
	if count > 0 {
		return ctx.Status(409).JSON(fiber.Map{
			"error": "Category is referenced by assets",
		})
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to delete category",
		})
	}

	return ctx.JSON(fiber.Map{
		"message": "Category deleted",
	})
}
