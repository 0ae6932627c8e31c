package models

import (
	"time"

	"gorm.io/gorm"
)

// Действия, фиксируемые в истории актива
const (
	HistoryActionCreated  = "created"
	HistoryActionUpdated  = "updated"
	HistoryActionStatus   = "status_changed"
	HistoryActionCategory = "category_changed"
	HistoryActionAssigned = "assignment_changed"
	HistoryActionDeleted  = "deleted"
)

// AssetHistory представляет запись журнала изменений актива.
// Записи только добавляются: приложение никогда не изменяет и не удаляет их,
// журнал сохраняется даже после удаления самого актива.
type AssetHistory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AssetID     uint      `json:"asset_id" gorm:"not null;index"`
	Action      string    `json:"action" gorm:"not null;size:50"`
	Description string    `json:"description" gorm:"type:text"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	PerformedBy uint      `json:"performed_by" gorm:"not null"` // ID пользователя, выполнившего действие
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate хук для установки времени создания
func (h *AssetHistory) BeforeCreate(tx *gorm.DB) error {
	if h.Date.IsZero() {
		h.Date = time.Now()
	}
	h.CreatedAt = time.Now()
	return nil
}
