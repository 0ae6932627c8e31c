package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// Разрешённые колонки сортировки. Значение sortBy подставляется в ORDER BY
// только через эту таблицу, чтобы исключить SQL-инъекцию.
var assetSortColumns = map[string]string{
	"id":            "id",
	"asset_name":    "asset_name",
	"asset_number":  "asset_number",
	"status":        "status",
	"purchase_date": "purchase_date",
	"purchase_cost": "purchase_cost",
	"location":      "location",
	"created_at":    "created_at",
}

// AssetService предоставляет методы для работы с активами и их историей
type AssetService struct {
	db *gorm.DB
}

// NewAssetService создает новый сервис активов
func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

// ListAssetsParams параметры постраничной выборки активов
type ListAssetsParams struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string
	Search    string
}

// AssetPage страница выборки активов
type AssetPage struct {
	Assets      []models.Asset
	TotalItems  int64
	CurrentPage int
	TotalPages  int
}

// CreateAssetInput входные данные создания актива
type CreateAssetInput struct {
	AssetName    string
	AssetNumber  string
	Description  string
	PurchaseDate *time.Time
	PurchaseCost float64
	Status       string
	Location     string
	CategoryID   *uint
	EmployeeID   *uint
}

// UpdateAssetInput входные данные частичного обновления актива.
// nil означает "поле не менять"; CategoryID/EmployeeID со значением 0
// снимают привязку.
type UpdateAssetInput struct {
	AssetName    *string
	AssetNumber  *string
	Description  *string
	PurchaseDate *time.Time
	PurchaseCost *float64
	Status       *string
	Location     *string
	CategoryID   *uint
	EmployeeID   *uint
}

// ListAssets возвращает страницу активов с подгруженными категорией и
// сотрудником. Поиск идёт подстрокой без учёта регистра по имени или
// инвентарному номеру. Вторичная сортировка по id даёт стабильный порядок
// страниц при равных ключах.
func (s *AssetService) ListAssets(p ListAssetsParams) (*AssetPage, error) {
	if p.Page < 1 {
		return nil, validationError("page must be >= 1")
	}
	if p.Size < 1 {
		return nil, validationError("size must be >= 1")
	}
	if p.Size > 100 {
		p.Size = 100
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "asset_name"
	}
	column, ok := assetSortColumns[sortBy]
	if !ok {
		return nil, validationError("unknown sort field: " + sortBy)
	}

	direction := "asc"
	switch strings.ToLower(p.SortOrder) {
	case "", "asc":
	case "desc":
		direction = "desc"
	default:
		return nil, validationError("sort order must be asc or desc")
	}

	query := s.db.Model(&models.Asset{})
	if p.Search != "" {
		pattern := "%" + strings.ToLower(p.Search) + "%"
		query = query.Where("LOWER(asset_name) LIKE ? OR LOWER(asset_number) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, queryError("failed to count assets", err)
	}

	offset := (p.Page - 1) * p.Size

	var assets []models.Asset
	err := query.Preload("Category").Preload("Employee").
		Order(fmt.Sprintf("%s %s, id asc", column, direction)).
		Offset(offset).Limit(p.Size).
		Find(&assets).Error
	if err != nil {
		return nil, queryError("failed to list assets", err)
	}

	return &AssetPage{
		Assets:      assets,
		TotalItems:  total,
		CurrentPage: p.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(p.Size))),
	}, nil
}

// GetAsset возвращает актив по ID
func (s *AssetService) GetAsset(id uint) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.Preload("Category").Preload("Employee").First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}
	return &asset, nil
}

// CreateAsset создает актив и запись истории "created" в одной транзакции.
// Либо выполняются обе записи, либо ни одной.
func (s *AssetService) CreateAsset(in CreateAssetInput, performedBy uint) (*models.Asset, error) {
	if strings.TrimSpace(in.AssetName) == "" {
		return nil, validationError("asset_name is required")
	}
	if strings.TrimSpace(in.AssetNumber) == "" {
		return nil, validationError("asset_number is required")
	}

	status := in.Status
	if status == "" {
		status = string(models.AssetStatusAvailable)
	}
	if !models.ValidAssetStatus(status) {
		return nil, validationError("unknown status: " + status)
	}

	in.CategoryID = normalizeRef(in.CategoryID)
	in.EmployeeID = normalizeRef(in.EmployeeID)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Проверяем уникальность инвентарного номера
	var existing models.Asset
	err := tx.Where("asset_number = ?", in.AssetNumber).First(&existing).Error
	if err == nil {
		tx.Rollback()
		return nil, conflictError("asset with number " + in.AssetNumber + " already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, queryError("failed to check asset number", err)
	}

	// Проверяем ссылки на категорию и сотрудника
	if _, err := resolveCategory(tx, in.CategoryID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := resolveEmployee(tx, in.EmployeeID); err != nil {
		tx.Rollback()
		return nil, err
	}

	asset := models.Asset{
		AssetName:    in.AssetName,
		AssetNumber:  in.AssetNumber,
		Description:  in.Description,
		PurchaseDate: in.PurchaseDate,
		PurchaseCost: in.PurchaseCost,
		Status:       models.AssetStatus(status),
		Location:     in.Location,
		CategoryID:   in.CategoryID,
		EmployeeID:   in.EmployeeID,
	}

	if err := tx.Create(&asset).Error; err != nil {
		tx.Rollback()
		return nil, queryError("failed to create asset", err)
	}

	history := models.AssetHistory{
		AssetID:     asset.ID,
		Action:      models.HistoryActionCreated,
		Description: "Asset was created",
		Date:        time.Now(),
		PerformedBy: performedBy,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, queryError("failed to create history entry", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, queryError("failed to save asset", err)
	}

	return s.GetAsset(asset.ID)
}

// UpdateAsset применяет частичное обновление. Для отслеживаемых полей
// (статус, категория, сотрудник) в той же транзакции пишется запись истории
// с переходом "старое -> новое"; если изменились только прочие поля,
// пишется одна запись "updated".
func (s *AssetService) UpdateAsset(id uint, in UpdateAssetInput, performedBy uint) (*models.Asset, error) {
	if in.Status != nil && !models.ValidAssetStatus(*in.Status) {
		return nil, validationError("unknown status: " + *in.Status)
	}
	if in.AssetName != nil && strings.TrimSpace(*in.AssetName) == "" {
		return nil, validationError("asset_name must not be empty")
	}
	if in.AssetNumber != nil && strings.TrimSpace(*in.AssetNumber) == "" {
		return nil, validationError("asset_number must not be empty")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var asset models.Asset
	if err := tx.Preload("Category").Preload("Employee").First(&asset, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}

	// При смене инвентарного номера проверяем уникальность среди других активов
	if in.AssetNumber != nil && *in.AssetNumber != asset.AssetNumber {
		var existing models.Asset
		err := tx.Where("asset_number = ? AND id <> ?", *in.AssetNumber, asset.ID).First(&existing).Error
		if err == nil {
			tx.Rollback()
			return nil, conflictError("asset with number " + *in.AssetNumber + " already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, queryError("failed to check asset number", err)
		}
	}

	changes, changed, err := s.applyAssetChanges(tx, &asset, in)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !changed {
		tx.Rollback()
		return s.GetAsset(asset.ID)
	}

	// Если изменились только неотслеживаемые поля, пишем одну общую запись
	if len(changes) == 0 {
		changes = append(changes, models.AssetHistory{
			AssetID:     asset.ID,
			Action:      models.HistoryActionUpdated,
			Description: "Asset fields updated",
		})
	}

	// Сохраняем только сам актив, строки ассоциаций не трогаем
	asset.Category = nil
	asset.Employee = nil
	if err := tx.Save(&asset).Error; err != nil {
		tx.Rollback()
		return nil, queryError("failed to update asset", err)
	}

	now := time.Now()
	for i := range changes {
		changes[i].Date = now
		changes[i].PerformedBy = performedBy
		if err := tx.Create(&changes[i]).Error; err != nil {
			tx.Rollback()
			return nil, queryError("failed to create history entry", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, queryError("failed to update asset", err)
	}

	return s.GetAsset(asset.ID)
}

// applyAssetChanges переносит поля из входных данных в актив и собирает
// записи истории для отслеживаемых переходов. Единая точка "изменить и
// залогировать", отдельные вызовы не дублируют эту логику.
func (s *AssetService) applyAssetChanges(tx *gorm.DB, asset *models.Asset, in UpdateAssetInput) ([]models.AssetHistory, bool, error) {
	var changes []models.AssetHistory
	changed := false

	if in.Status != nil && models.AssetStatus(*in.Status) != asset.Status {
		changes = append(changes, models.AssetHistory{
			AssetID:     asset.ID,
			Action:      models.HistoryActionStatus,
			Description: fmt.Sprintf("status: %s -> %s", asset.Status, *in.Status),
		})
		asset.Status = models.AssetStatus(*in.Status)
		changed = true
	}

	if in.CategoryID != nil && !sameRef(asset.CategoryID, in.CategoryID) {
		oldName := "-"
		if asset.Category != nil {
			oldName = asset.Category.Name
		}
		newID := normalizeRef(in.CategoryID)
		category, err := resolveCategory(tx, newID)
		if err != nil {
			return nil, false, err
		}
		newName := "-"
		if category != nil {
			newName = category.Name
		}
		changes = append(changes, models.AssetHistory{
			AssetID:     asset.ID,
			Action:      models.HistoryActionCategory,
			Description: fmt.Sprintf("category: %s -> %s", oldName, newName),
		})
		asset.CategoryID = newID
		asset.Category = category
		changed = true
	}

	if in.EmployeeID != nil && !sameRef(asset.EmployeeID, in.EmployeeID) {
		oldName := "-"
		if asset.Employee != nil {
			oldName = asset.Employee.Name
		}
		newID := normalizeRef(in.EmployeeID)
		employee, err := resolveEmployee(tx, newID)
		if err != nil {
			return nil, false, err
		}
		newName := "-"
		if employee != nil {
			newName = employee.Name
		}
		changes = append(changes, models.AssetHistory{
			AssetID:     asset.ID,
			Action:      models.HistoryActionAssigned,
			Description: fmt.Sprintf("employee: %s -> %s", oldName, newName),
		})
		asset.EmployeeID = newID
		asset.Employee = employee
		changed = true
	}

	if in.AssetName != nil && *in.AssetName != asset.AssetName {
		asset.AssetName = *in.AssetName
		changed = true
	}
	if in.AssetNumber != nil && *in.AssetNumber != asset.AssetNumber {
		asset.AssetNumber = *in.AssetNumber
		changed = true
	}
	if in.Description != nil && *in.Description != asset.Description {
		asset.Description = *in.Description
		changed = true
	}
	if in.PurchaseDate != nil {
		asset.PurchaseDate = in.PurchaseDate
		changed = true
	}
	if in.PurchaseCost != nil && *in.PurchaseCost != asset.PurchaseCost {
		asset.PurchaseCost = *in.PurchaseCost
		changed = true
	}
	if in.Location != nil && *in.Location != asset.Location {
		asset.Location = *in.Location
		changed = true
	}

	return changes, changed, nil
}

// DeleteAsset удаляет актив и его вложения. Записи истории сохраняются для
// аудита, последней записью фиксируется само удаление. Файлы вложений
// удаляются с диска после коммита.
func (s *AssetService) DeleteAsset(id uint, performedBy uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var asset models.Asset
	if err := tx.First(&asset, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("asset not found")
		}
		return queryError("failed to get asset", err)
	}

	var attachments []models.Attachment
	if err := tx.Where("asset_id = ?", asset.ID).Find(&attachments).Error; err != nil {
		tx.Rollback()
		return queryError("failed to list attachments", err)
	}

	if err := tx.Where("asset_id = ?", asset.ID).Delete(&models.Attachment{}).Error; err != nil {
		tx.Rollback()
		return queryError("failed to delete attachments", err)
	}

	history := models.AssetHistory{
		AssetID:     asset.ID,
		Action:      models.HistoryActionDeleted,
		Description: fmt.Sprintf("Asset %s (%s) was deleted", asset.AssetName, asset.AssetNumber),
		Date:        time.Now(),
		PerformedBy: performedBy,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return queryError("failed to create history entry", err)
	}

	if err := tx.Delete(&models.Asset{}, asset.ID).Error; err != nil {
		tx.Rollback()
		return queryError("failed to delete asset", err)
	}

	if err := tx.Commit().Error; err != nil {
		return queryError("failed to delete asset", err)
	}

	for _, attachment := range attachments {
		if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to delete file %s: %v", attachment.FilePath, err)
		}
	}

	return nil
}

// GetHistory возвращает историю актива, новые записи первыми
func (s *AssetService) GetHistory(assetID uint) ([]models.AssetHistory, error) {
	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}

	var history []models.AssetHistory
	err := s.db.Where("asset_id = ?", assetID).
		Order("date DESC, id DESC").
		Find(&history).Error
	if err != nil {
		return nil, queryError("failed to list history", err)
	}
	return history, nil
}

// AddHistoryEntry добавляет ручную запись в историю актива
func (s *AssetService) AddHistoryEntry(assetID uint, action, description string, performedBy uint) (*models.AssetHistory, error) {
	if strings.TrimSpace(action) == "" {
		return nil, validationError("action is required")
	}

	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("asset not found")
		}
		return nil, queryError("failed to get asset", err)
	}

	history := models.AssetHistory{
		AssetID:     assetID,
		Action:      action,
		Description: description,
		Date:        time.Now(),
		PerformedBy: performedBy,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return nil, queryError("failed to create history entry", err)
	}
	return &history, nil
}

// resolveCategory проверяет ссылку на категорию. nil означает отсутствие привязки.
func resolveCategory(tx *gorm.DB, id *uint) (*models.Category, error) {
	if id == nil {
		return nil, nil
	}
	var category models.Category
	if err := tx.First(&category, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referenceError(fmt.Sprintf("category %d not found", *id))
		}
		return nil, queryError("failed to get category", err)
	}
	return &category, nil
}

// resolveEmployee проверяет ссылку на сотрудника. nil означает отсутствие привязки.
func resolveEmployee(tx *gorm.DB, id *uint) (*models.Employee, error) {
	if id == nil {
		return nil, nil
	}
	var employee models.Employee
	if err := tx.First(&employee, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referenceError(fmt.Sprintf("employee %d not found", *id))
		}
		return nil, queryError("failed to get employee", err)
	}
	return &employee, nil
}

// normalizeRef превращает 0 в nil (снятие привязки)
func normalizeRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// sameRef сравнивает текущую привязку с запрошенной с учётом 0 как nil
func sameRef(current, requested *uint) bool {
	normalized := normalizeRef(requested)
	if current == nil || normalized == nil {
		return current == nil && normalized == nil
	}
	return *current == *normalized
}
