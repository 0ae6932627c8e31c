package models

import (
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// Attachment представляет вложение к активу. Сам файл хранится на диске,
// в базе остаются только метаданные.
type Attachment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AssetID    uint      `json:"asset_id" gorm:"not null;index"`
	FileName   string    `json:"file_name" gorm:"not null;size:255"` // Оригинальное имя файла
	FilePath   string    `json:"file_path" gorm:"not null"`          // Путь к сохранённому файлу
	MimeType   string    `json:"mime_type" gorm:"size:100"`
	Size       int64     `json:"size" gorm:"not null"`
	UploadedBy uint      `json:"uploaded_by" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate хук для установки времени создания
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	a.CreatedAt = time.Now()
	return nil
}

// StoredName возвращает имя сохранённого файла из пути
func (a *Attachment) StoredName() string {
	return filepath.Base(a.FilePath)
}
