package controllers

import (
	"inventar-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardController отдает сводную статистику по парку активов
type DashboardController struct {
	DB *gorm.DB
}

// NewDashboardController создает новый контроллер дашборда
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// DashboardResponse структура ответа дашборда
type DashboardResponse struct {
	TotalAssets     int64                 `json:"total_assets"`
	ByStatus        map[string]int64      `json:"by_status"`
	TotalCost       float64               `json:"total_cost"`
	TotalCategories int64                 `json:"total_categories"`
	TotalEmployees  int64                 `json:"total_employees"`
	RecentHistory   []models.AssetHistory `json:"recent_history"`
}

// GetDashboard возвращает счетчики по статусам и последние записи истории
func (dc *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	var resp DashboardResponse
	resp.ByStatus = make(map[string]int64)

	if err := dc.DB.Model(&models.Asset{}).Count(&resp.TotalAssets).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to count assets",
		})
	}

	// Счетчики по каждому статусу, включая нулевые
	statuses := []models.AssetStatus{
		models.AssetStatusAvailable,
		models.AssetStatusAssigned,
		models.AssetStatusMaintenance,
		models.AssetStatusRetired,
	}
	for _, status := range statuses {
		var count int64
		if err := dc.DB.Model(&models.Asset{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return ctx.Status(500).JSON(fiber.Map{
				"error": "Failed to count assets by status",
			})
		}
		resp.ByStatus[string(status)] = count
	}

	if err := dc.DB.Model(&models.Asset{}).Select("COALESCE(SUM(purchase_cost), 0)").Scan(&resp.TotalCost).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to sum asset cost",
		})
	}

	dc.DB.Model(&models.Category{}).Count(&resp.TotalCategories)
	dc.DB.Model(&models.Employee{}).Count(&resp.TotalEmployees)

	if err := dc.DB.Order("date DESC, id DESC").Limit(10).Find(&resp.RecentHistory).Error; err != nil {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Failed to load recent history",
		})
	}

	return ctx.JSON(resp)
}
