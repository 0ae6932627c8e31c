package routes

import (
	"inventar-backend/controllers"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAttachmentRoutes настраивает маршруты для вложений
func SetupAttachmentRoutes(app *fiber.App, attachmentController *controllers.AttachmentController) {
	attachments := app.Group("/api/attachments", utils.AuthMiddleware)

	// GET /api/attachments/:id/file - получить файл вложения
	attachments.Get("/:id/file", attachmentController.GetAttachmentFile)

	// DELETE /api/attachments/:id - удалить вложение
	attachments.Delete("/:id", attachmentController.DeleteAttachment)
}
