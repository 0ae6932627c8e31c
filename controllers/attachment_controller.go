package controllers

import (
	"fmt"
	"os"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttachmentController обрабатывает HTTP запросы для вложений активов
type AttachmentController struct {
	attachments *services.AttachmentService
	hub         *services.Hub
}

// NewAttachmentController создает новый контроллер вложений
func NewAttachmentController(db *gorm.DB, uploadDir string, hub *services.Hub) *AttachmentController {
	return &AttachmentController{
		attachments: services.NewAttachmentService(db, uploadDir),
		hub:         hub,
	}
}

// UploadAttachment загружает вложение для актива
func (c *AttachmentController) UploadAttachment(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(uint)

	assetID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	// Получаем файл из формы
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	attachment, err := c.attachments.SaveUpload(assetID, file, userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if c.hub != nil {
		c.hub.BroadcastAssetEvent(services.EventAssetUpdated, assetID, nil, userID)
	}

	return ctx.Status(201).JSON(fiber.Map{
		"attachment": attachment,
		"file_url":   fmt.Sprintf("/api/attachments/%d/file", attachment.ID),
	})
}

// GetAssetAttachments возвращает вложения актива
func (c *AttachmentController) GetAssetAttachments(ctx *fiber.Ctx) error {
	assetID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	attachments, err := c.attachments.ListByAsset(assetID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"attachments": attachments,
	})
}

// GetAttachmentFile возвращает файл вложения
func (c *AttachmentController) GetAttachmentFile(ctx *fiber.Ctx) error {
	attachmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid attachment ID",
		})
	}

	attachment, err := c.attachments.Get(attachmentID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	// Проверяем, что файл существует
	if _, err := os.Stat(attachment.FilePath); os.IsNotExist(err) {
		return ctx.Status(404).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	return ctx.SendFile(attachment.FilePath)
}

// DeleteAttachment удаляет вложение
func (c *AttachmentController) DeleteAttachment(ctx *fiber.Ctx) error {
	attachmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid attachment ID",
		})
	}

	if err := c.attachments.Delete(attachmentID); err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Attachment deleted",
	})
}
