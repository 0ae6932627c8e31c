package models

import (
	"time"

	"gorm.io/gorm"
)

// AssetStatus представляет статус актива
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"   // Доступен для выдачи
	AssetStatusAssigned    AssetStatus = "assigned"    // Выдан сотруднику
	AssetStatusMaintenance AssetStatus = "maintenance" // На обслуживании
	AssetStatusRetired     AssetStatus = "retired"     // Списан
)

// ValidAssetStatus проверяет, что статус входит в известный набор
func ValidAssetStatus(s string) bool {
	switch AssetStatus(s) {
	case AssetStatusAvailable, AssetStatusAssigned, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// Asset представляет модель актива (единицы ИТ-имущества) в системе
type Asset struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	AssetName    string      `json:"asset_name" gorm:"not null;size:255"`
	AssetNumber  string      `json:"asset_number" gorm:"not null;size:100;uniqueIndex"` // Инвентарный номер
	Description  string      `json:"description" gorm:"type:text"`
	PurchaseDate *time.Time  `json:"purchase_date"`
	PurchaseCost float64     `json:"purchase_cost" gorm:"type:decimal(10,2);default:0"`
	Status       AssetStatus `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	Location     string      `json:"location" gorm:"size:255"`
	CategoryID   *uint       `json:"category_id" gorm:"index"`
	EmployeeID   *uint       `json:"employee_id" gorm:"index"` // Текущий держатель актива
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Связи
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

// BeforeCreate хук для установки времени создания
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (a *Asset) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}
