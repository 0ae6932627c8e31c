package controllers

import (
	"errors"
	"strconv"
	"time"

	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetController обрабатывает HTTP запросы для активов
type AssetController struct {
	assets *services.AssetService
	hub    *services.Hub
}

// NewAssetController создает новый контроллер активов. hub может быть nil,
// тогда события изменений не рассылаются.
func NewAssetController(db *gorm.DB, hub *services.Hub) *AssetController {
	return &AssetController{
		assets: services.NewAssetService(db),
		hub:    hub,
	}
}

// CreateAssetRequest структура запроса создания актива
type CreateAssetRequest struct {
	AssetName    string  `json:"asset_name"`
	AssetNumber  string  `json:"asset_number"`
	Description  string  `json:"description"`
	PurchaseDate string  `json:"purchase_date"`
	PurchaseCost float64 `json:"purchase_cost"`
	Status       string  `json:"status"`
	Location     string  `json:"location"`
	CategoryID   *uint   `json:"category_id"`
	EmployeeID   *uint   `json:"employee_id"`
}

// UpdateAssetRequest структура запроса обновления актива.
// Отсутствующие поля не меняются; category_id/employee_id со значением 0
// снимают привязку.
type UpdateAssetRequest struct {
	AssetName    *string  `json:"asset_name"`
	AssetNumber  *string  `json:"asset_number"`
	Description  *string  `json:"description"`
	PurchaseDate *string  `json:"purchase_date"`
	PurchaseCost *float64 `json:"purchase_cost"`
	Status       *string  `json:"status"`
	Location     *string  `json:"location"`
	CategoryID   *uint    `json:"category_id"`
	EmployeeID   *uint    `json:"employee_id"`
}

// AssetsListResponse структура ответа списка активов
type AssetsListResponse struct {
	TotalItems  int64       `json:"totalItems"`
	Assets      interface{} `json:"assets"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
}

// respondServiceError отображает вид ошибки сервиса в HTTP статус.
// Сервисы о статус-кодах не знают, это единственное место отображения.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		return ctx.Status(500).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	status := 500
	switch svcErr.Kind {
	case services.ErrKindValidation:
		status = 400
	case services.ErrKindNotFound:
		status = 404
	case services.ErrKindConflict:
		status = 409
	case services.ErrKindReference:
		status = 422
	case services.ErrKindStorage, services.ErrKindQuery:
		status = 500
	}

	return ctx.Status(status).JSON(fiber.Map{
		"error": svcErr.Message,
		"kind":  string(svcErr.Kind),
	})
}

// GetAssets возвращает страницу активов с поиском и сортировкой
func (ac *AssetController) GetAssets(ctx *fiber.Ctx) error {
	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid page parameter",
		})
	}
	size, err := strconv.Atoi(ctx.Query("size", "10"))
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid size parameter",
		})
	}

	result, err := ac.assets.ListAssets(services.ListAssetsParams{
		Page:      page,
		Size:      size,
		SortBy:    ctx.Query("sortBy", "asset_name"),
		SortOrder: ctx.Query("sortOrder", "asc"),
		Search:    ctx.Query("search"),
	})
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(AssetsListResponse{
		TotalItems:  result.TotalItems,
		Assets:      result.Assets,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}

// GetAsset возвращает актив по ID
func (ac *AssetController) GetAsset(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	asset, err := ac.assets.GetAsset(id)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(asset)
}

// CreateAsset создает новый актив
func (ac *AssetController) CreateAsset(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(uint)

	var req CreateAssetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid purchase_date format",
		})
	}

	asset, err := ac.assets.CreateAsset(services.CreateAssetInput{
		AssetName:    req.AssetName,
		AssetNumber:  req.AssetNumber,
		Description:  req.Description,
		PurchaseDate: purchaseDate,
		PurchaseCost: req.PurchaseCost,
		Status:       req.Status,
		Location:     req.Location,
		CategoryID:   req.CategoryID,
		EmployeeID:   req.EmployeeID,
	}, userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if ac.hub != nil {
		ac.hub.BroadcastAssetEvent(services.EventAssetCreated, asset.ID, asset, userID)
	}

	return ctx.Status(201).JSON(asset)
}

// UpdateAsset применяет частичное обновление актива
func (ac *AssetController) UpdateAsset(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(uint)

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	var req UpdateAssetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input := services.UpdateAssetInput{
		AssetName:    req.AssetName,
		AssetNumber:  req.AssetNumber,
		Description:  req.Description,
		PurchaseCost: req.PurchaseCost,
		Status:       req.Status,
		Location:     req.Location,
		CategoryID:   req.CategoryID,
		EmployeeID:   req.EmployeeID,
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := parseDate(*req.PurchaseDate)
		if err != nil {
			return ctx.Status(400).JSON(fiber.Map{
				"error": "Invalid purchase_date format",
			})
		}
		input.PurchaseDate = purchaseDate
	}

	asset, err := ac.assets.UpdateAsset(id, input, userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if ac.hub != nil {
		ac.hub.BroadcastAssetEvent(services.EventAssetUpdated, asset.ID, asset, userID)
	}

	return ctx.JSON(asset)
}

// DeleteAsset удаляет актив вместе с вложениями, история сохраняется
func (ac *AssetController) DeleteAsset(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(uint)

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(400).JSON(fiber.Map{
			"error": "Invalid asset ID",
		})
	}

	if err := ac.assets.DeleteAsset(id, userID); err != nil {
		return respondServiceError(ctx, err)
	}

	if ac.hub != nil {
		ac.hub.BroadcastAssetEvent(services.EventAssetDeleted, id, nil, userID)
	}

	return ctx.JSON(fiber.Map{
		"message": "Asset deleted",
	})
}

// parseIDParam парсит числовой параметр пути
func parseIDParam(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseDate парсит дату в формате RFC3339 или YYYY-MM-DD
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
