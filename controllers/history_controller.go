package controllers

import (
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HistoryController обрабатывает HTTP запросы для истории активов
type HistoryController struct {
	assets *services.AssetService
	hub    *services.Hub
}

// NewHistoryController создает новый контроллер истории
func NewHistoryController(db *gorm.DB, hub *services.Hub) *HistoryController {
	return &HistoryController{
		assets: services.NewAssetService(db),
		hub:    hub,
	}
}

// AddHistoryRequest структура запроса ручной записи истории
type AddHistoryRequest struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// GetHistory возвращает историю актива, новые записи первыми
func (hc *HistoryController) GetHistory(ctx *fiber.Ctx) error {
	assetID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	history, err := hc.assets.GetHistory(assetID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"history": history,
	})
}

// AddHistoryEntry добавляет ручную запись в историю актива
func (hc *HistoryController) AddHistoryEntry(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(uint)

	assetID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	var req AddHistoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	entry, err := hc.assets.AddHistoryEntry(assetID, req.Action, req.Description, userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if hc.hub != nil {
		hc.hub.BroadcastAssetEvent(services.EventHistoryAdded, assetID, entry, userID)
	}

	return ctx.Status(201).JSON(entry)
}
