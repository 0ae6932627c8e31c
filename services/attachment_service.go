package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inventar-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxAttachmentSize максимальный размер загружаемого файла (10 MB)
const MaxAttachmentSize = 10 * 1024 * 1024

// AttachmentService отвечает за файлы вложений: бинарник на диске,
// метаданные в базе. Порядок фиксированный: сначала файл, потом строка
// метаданных, чтобы в базе не появлялись ссылки на несуществующие файлы.
type AttachmentService struct {
	db        *gorm.DB
	uploadDir string
}

// NewAttachmentService создает новый сервис вложений
func NewAttachmentService(db *gorm.DB, uploadDir string) *AttachmentService {
	if uploadDir == "" {
		uploadDir = "uploads/assets"
	}
	return &AttachmentService{db: db, uploadDir: uploadDir}
}

// ValidateFile валидирует загружаемый файл
func (s *AttachmentService) ValidateFile(file *multipart.FileHeader) error {
	if file.Size > MaxAttachmentSize {
		return validationError("file size exceeds 10MB limit")
	}
	// Проверяем имя файла на безопасность
	if strings.Contains(file.Filename, "..") || strings.ContainsAny(file.Filename, "/\\") {
		return validationError("invalid file name")
	}
	return nil
}

// SaveUpload сохраняет файл на диск и создает строку метаданных.
// Актив должен существовать до приёма файла; при ошибке записи метаданных
// файл удаляется, чтобы не оставлять беспризорные бинарники.
func (s *AttachmentService) SaveUpload(assetID uint, file *multipart.FileHeader, performedBy uint) (*models.Attachment, error) {
	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}

	if err := s.ValidateFile(file); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, storageError("failed to create upload directory", err)
	}

	// Уникальное имя сохранённого файла, оригинальное имя остаётся в метаданных
	storedName := fmt.Sprintf("%d_%s%s", assetID, uuid.NewString(), filepath.Ext(file.Filename))
	storedPath := filepath.Join(s.uploadDir, storedName)

	if err := s.writeFile(file, storedPath); err != nil {
		return nil, storageError("failed to save file", err)
	}

	attachment := models.Attachment{
		AssetID:    assetID,
		FileName:   file.Filename,
		FilePath:   storedPath,
		MimeType:   file.Header.Get("Content-Type"),
		Size:       file.Size,
		UploadedBy: performedBy,
	}

	if err := s.db.Create(&attachment).Error; err != nil {
		// Файл без строки метаданных не нужен
		os.Remove(storedPath)
		return nil, queryError("failed to save attachment record", err)
	}

	history := models.AssetHistory{
		AssetID:     assetID,
		Action:      models.HistoryActionUpdated,
		Description: "Attachment uploaded: " + file.Filename,
		Date:        time.Now(),
		PerformedBy: performedBy,
	}
	if err := s.db.Create(&history).Error; err != nil {
		log.Printf("Warning: failed to log attachment upload for asset %d: %v", assetID, err)
	}

	return &attachment, nil
}

// writeFile копирует содержимое загруженного файла на диск
func (s *AttachmentService) writeFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// ListByAsset возвращает вложения актива
func (s *AttachmentService) ListByAsset(assetID uint) ([]models.Attachment, error) {
	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}

	var attachments []models.Attachment
	if err := s.db.Where("asset_id = ?", assetID).Order("created_at DESC").Find(&attachments).Error; err != nil {
		return nil, queryError("failed to list attachments", err)
	}
	return attachments, nil
}

// Get возвращает вложение по ID
func (s *AttachmentService) Get(id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := s.db.First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("attachment not found")
		}
		return nil, queryError("failed to get attachment", err)
	}
	return &attachment, nil
}

// Delete удаляет строку метаданных и файл вложения
func (s *AttachmentService) Delete(id uint) error {
	attachment, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Attachment{}, attachment.ID).Error; err != nil {
		return queryError("failed to delete attachment record", err)
	}

	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to delete file %s: %v", attachment.FilePath, err)
	}
	return nil
}
