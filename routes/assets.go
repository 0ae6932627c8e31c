package routes

import (
	"inventar-backend/controllers"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAssetRoutes настраивает маршруты для активов, их истории и вложений
func SetupAssetRoutes(app *fiber.App, assetController *controllers.AssetController, historyController *controllers.HistoryController, attachmentController *controllers.AttachmentController) {
	// Все маршруты активов требуют авторизации
	assets := app.Group("/api/assets", utils.AuthMiddleware)

	// GET /api/assets - список активов с поиском, сортировкой и пагинацией
	assets.Get("/", assetController.GetAssets)

	// POST /api/assets - создать актив
	assets.Post("/", assetController.CreateAsset)

	// GET /api/assets/:id - получить актив
	assets.Get("/:id", assetController.GetAsset)

	// PUT /api/assets/:id - обновить актив
	assets.Put("/:id", assetController.UpdateAsset)

	// DELETE /api/assets/:id - удалить актив
	assets.Delete("/:id", assetController.DeleteAsset)

	// GET /api/assets/:id/history - история актива
	assets.Get("/:id/history", historyController.GetHistory)

	// POST /api/assets/:id/history - ручная запись истории
	assets.Post("/:id/history", historyController.AddHistoryEntry)

	// POST /api/assets/:id/attachments - загрузить вложение
	assets.Post("/:id/attachments", attachmentController.UploadAttachment)

	// GET /api/assets/:id/attachments - вложения актива
	assets.Get("/:id/attachments", attachmentController.GetAssetAttachments)
}
