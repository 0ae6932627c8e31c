package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// jsonRequest создает JSON запрос с токеном авторизации
func jsonRequest(method, target, token string, payload interface{}) *http.Request {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeBody декодирует JSON тело ответа в map
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	var result map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&result)
	assert.NoError(t, err)
	return result
}

func TestAssetsRequireAuth(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())

	req := httptest.NewRequest("GET", "/api/assets", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCreateAsset(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	userID, token := createTestUser(db)

	payload := map[string]interface{}{
		"asset_name":    "Laptop A",
		"asset_number":  "AST-001",
		"description":   "Рабочий ноутбук",
		"purchase_date": "2024-03-15",
		"purchase_cost": 85000.50,
		"status":        "available",
		"location":      "Офис 1",
	}

	resp, err := app.Test(jsonRequest("POST", "/api/assets", token, payload))
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Laptop A", body["asset_name"])
	assert.Equal(t, "AST-001", body["asset_number"])
	assert.Equal(t, "available", body["status"])

	// Ровно одна запись истории "created" в той же операции
	var history []models.AssetHistory
	db.Where("asset_id = ?", uint(body["id"].(float64))).Find(&history)
	assert.Len(t, history, 1)
	assert.Equal(t, models.HistoryActionCreated, history[0].Action)
	assert.Equal(t, userID, history[0].PerformedBy)
}

func TestCreateAssetRoundTrip(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	payload := map[string]interface{}{
		"asset_name":    "Monitor B",
		"asset_number":  "AST-042",
		"description":   "27 дюймов",
		"purchase_cost": 45000.0,
		"status":        "maintenance",
		"location":      "Склад",
	}

	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, payload))
	assert.Equal(t, 201, resp.StatusCode)
	created := decodeBody(t, resp)
	id := uint(created["id"].(float64))

	// Чтение возвращает все переданные поля без изменений
	resp, _ = app.Test(jsonRequest("GET", fmt.Sprintf("/api/assets/%d", id), token, nil))
	assert.Equal(t, 200, resp.StatusCode)
	fetched := decodeBody(t, resp)

	assert.Equal(t, "Monitor B", fetched["asset_name"])
	assert.Equal(t, "AST-042", fetched["asset_number"])
	assert.Equal(t, "27 дюймов", fetched["description"])
	assert.Equal(t, 45000.0, fetched["purchase_cost"])
	assert.Equal(t, "maintenance", fetched["status"])
	assert.Equal(t, "Склад", fetched["location"])
}

func TestCreateAssetDuplicateNumber(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	payload := map[string]interface{}{
		"asset_name":   "Laptop A",
		"asset_number": "AST-001",
	}

	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, payload))
	assert.Equal(t, 201, resp.StatusCode)

	// Повторное создание с тем же номером отклоняется
	resp, _ = app.Test(jsonRequest("POST", "/api/assets", token, payload))
	assert.Equal(t, 409, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "conflict", body["kind"])

	// В базе остался ровно один актив с этим номером
	var count int64
	db.Model(&models.Asset{}).Where("asset_number = ?", "AST-001").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateAssetValidation(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name:    "Без имени",
			payload: map[string]interface{}{"asset_number": "AST-100"},
		},
		{
			name:    "Без номера",
			payload: map[string]interface{}{"asset_name": "Laptop"},
		},
		{
			name: "Неизвестный статус",
			payload: map[string]interface{}{
				"asset_name":   "Laptop",
				"asset_number": "AST-100",
				"status":       "lost",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, tt.payload))
			assert.Equal(t, 400, resp.StatusCode)

			// Ничего не записано
			var count int64
			db.Model(&models.Asset{}).Count(&count)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestCreateAssetUnknownReferences(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop",
		"asset_number": "AST-100",
		"category_id":  999,
	}))
	assert.Equal(t, 422, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "reference", body["kind"])

	resp, _ = app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop",
		"asset_number": "AST-100",
		"employee_id":  999,
	}))
	assert.Equal(t, 422, resp.StatusCode)

	// Ни актива, ни истории после отказов
	var assets, history int64
	db.Model(&models.Asset{}).Count(&assets)
	db.Model(&models.AssetHistory{}).Count(&history)
	assert.Equal(t, int64(0), assets)
	assert.Equal(t, int64(0), history)
}

// seedAssets создает n активов с номерами AST-001..AST-n
func seedAssets(db *gorm.DB, n int) {
	for i := 1; i <= n; i++ {
		db.Create(&models.Asset{
			AssetName:    fmt.Sprintf("Asset %02d", i),
			AssetNumber:  fmt.Sprintf("AST-%03d", i),
			Status:       models.AssetStatusAvailable,
			PurchaseCost: float64(i) * 1000,
		})
	}
}

func TestGetAssetsPagination(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	seedAssets(db, 25)

	resp, _ := app.Test(jsonRequest("GET", "/api/assets?page=2&size=10", token, nil))
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(25), body["totalItems"])
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Equal(t, float64(3), body["totalPages"])

	assets := body["assets"].([]interface{})
	assert.Len(t, assets, 10)

	// Последняя страница неполная
	resp, _ = app.Test(jsonRequest("GET", "/api/assets?page=3&size=10", token, nil))
	body = decodeBody(t, resp)
	assert.Len(t, body["assets"].([]interface{}), 5)

	// За пределами данных возвращается пустая страница, не ошибка
	resp, _ = app.Test(jsonRequest("GET", "/api/assets?page=10&size=10", token, nil))
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGetAssetsPaginationStable(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	// У всех активов одинаковое имя, сортировка по имени неоднозначна,
	// порядок должен определяться вторичным ключом
	for i := 1; i <= 20; i++ {
		db.Create(&models.Asset{
			AssetName:   "Same Name",
			AssetNumber: fmt.Sprintf("AST-%03d", i),
			Status:      models.AssetStatusAvailable,
		})
	}

	seen := make(map[string]bool)
	for page := 1; page <= 2; page++ {
		resp, _ := app.Test(jsonRequest("GET", fmt.Sprintf("/api/assets?page=%d&size=10&sortBy=asset_name", page), token, nil))
		body := decodeBody(t, resp)
		for _, item := range body["assets"].([]interface{}) {
			number := item.(map[string]interface{})["asset_number"].(string)
			assert.False(t, seen[number], "asset %s returned twice", number)
			seen[number] = true
		}
	}
	assert.Len(t, seen, 20)
}

func TestGetAssetsSearch(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	db.Create(&models.Asset{AssetName: "Laptop A", AssetNumber: "AST-001", Status: models.AssetStatusAvailable})
	db.Create(&models.Asset{AssetName: "Monitor B", AssetNumber: "MON-002", Status: models.AssetStatusAvailable})
	db.Create(&models.Asset{AssetName: "Printer ast edition", AssetNumber: "PRN-003", Status: models.AssetStatusAvailable})

	// Поиск по номеру без учёта регистра
	resp, _ := app.Test(jsonRequest("GET", "/api/assets?search=ast-0", token, nil))
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["totalItems"])
	first := body["assets"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "AST-001", first["asset_number"])

	// Поиск совпадает и по имени, и по номеру
	resp, _ = app.Test(jsonRequest("GET", "/api/assets?search=AST", token, nil))
	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["totalItems"])

	// Без поискового запроса возвращаются все
	resp, _ = app.Test(jsonRequest("GET", "/api/assets", token, nil))
	body = decodeBody(t, resp)
	assert.Equal(t, float64(3), body["totalItems"])
}

func TestGetAssetsValidation(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	tests := []struct {
		name  string
		query string
	}{
		{"Нулевая страница", "?page=0"},
		{"Отрицательный размер", "?size=-5"},
		{"Нечисловая страница", "?page=abc"},
		{"Неизвестная колонка сортировки", "?sortBy=password_hash"},
		{"Неизвестное направление", "?sortOrder=sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := app.Test(jsonRequest("GET", "/api/assets"+tt.query, token, nil))
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestGetAssetsSorting(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	db.Create(&models.Asset{AssetName: "Zebra", AssetNumber: "AST-001", PurchaseCost: 10, Status: models.AssetStatusAvailable})
	db.Create(&models.Asset{AssetName: "Alpha", AssetNumber: "AST-002", PurchaseCost: 30, Status: models.AssetStatusAvailable})
	db.Create(&models.Asset{AssetName: "Mango", AssetNumber: "AST-003", PurchaseCost: 20, Status: models.AssetStatusAvailable})

	resp, _ := app.Test(jsonRequest("GET", "/api/assets?sortBy=purchase_cost&sortOrder=desc", token, nil))
	body := decodeBody(t, resp)
	assets := body["assets"].([]interface{})
	costs := []float64{}
	for _, item := range assets {
		costs = append(costs, item.(map[string]interface{})["purchase_cost"].(float64))
	}
	assert.Equal(t, []float64{30, 20, 10}, costs)

	// Дефолтная сортировка по имени по возрастанию
	resp, _ = app.Test(jsonRequest("GET", "/api/assets", token, nil))
	body = decodeBody(t, resp)
	firstName := body["assets"].([]interface{})[0].(map[string]interface{})["asset_name"]
	assert.Equal(t, "Alpha", firstName)
}

func TestUpdateAssetStatusHistory(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	employee := models.Employee{Name: "Иванов Иван", Position: "Разработчик"}
	db.Create(&employee)

	// Создаем актив
	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop A",
		"asset_number": "AST-001",
		"status":       "available",
	}))
	assert.Equal(t, 201, resp.StatusCode)
	created := decodeBody(t, resp)
	id := uint(created["id"].(float64))

	// Поиск находит именно его
	resp, _ = app.Test(jsonRequest("GET", "/api/assets?search=AST-0", token, nil))
	list := decodeBody(t, resp)
	assert.Equal(t, float64(1), list["totalItems"])

	// Меняем статус
	resp, _ = app.Test(jsonRequest("PUT", fmt.Sprintf("/api/assets/%d", id), token, map[string]interface{}{
		"status": "assigned",
	}))
	assert.Equal(t, 200, resp.StatusCode)

	// История: запись о создании и запись о переходе статуса
	resp, _ = app.Test(jsonRequest("GET", fmt.Sprintf("/api/assets/%d/history", id), token, nil))
	assert.Equal(t, 200, resp.StatusCode)
	history := decodeBody(t, resp)["history"].([]interface{})
	assert.Len(t, history, 2)

	// Новые записи первыми
	newest := history[0].(map[string]interface{})
	oldest := history[1].(map[string]interface{})
	assert.Equal(t, models.HistoryActionStatus, newest["action"])
	assert.Contains(t, newest["description"], "available -> assigned")
	assert.Equal(t, models.HistoryActionCreated, oldest["action"])

	// Закрепляем за сотрудником, ожидаем отдельную запись о смене держателя
	resp, _ = app.Test(jsonRequest("PUT", fmt.Sprintf("/api/assets/%d", id), token, map[string]interface{}{
		"employee_id": employee.ID,
	}))
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = app.Test(jsonRequest("GET", fmt.Sprintf("/api/assets/%d/history", id), token, nil))
	history = decodeBody(t, resp)["history"].([]interface{})
	assert.Len(t, history, 3)
	newest = history[0].(map[string]interface{})
	assert.Equal(t, models.HistoryActionAssigned, newest["action"])
	assert.Contains(t, newest["description"], "Иванов Иван")
}

func TestUpdateAssetUntrackedFields(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop A",
		"asset_number": "AST-001",
	}))
	created := decodeBody(t, resp)
	id := uint(created["id"].(float64))

	// Изменение только описания даёт одну общую запись "updated"
	resp, _ = app.Test(jsonRequest("PUT", fmt.Sprintf("/api/assets/%d", id), token, map[string]interface{}{
		"description": "Новое описание",
	}))
	assert.Equal(t, 200, resp.StatusCode)

	var history []models.AssetHistory
	db.Where("asset_id = ?", id).Order("id asc").Find(&history)
	assert.Len(t, history, 2)
	assert.Equal(t, models.HistoryActionUpdated, history[1].Action)
}

func TestUpdateAssetConflictAndNotFound(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop A",
		"asset_number": "AST-001",
	}))
	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop B",
		"asset_number": "AST-002",
	}))
	second := decodeBody(t, resp)
	id := uint(second["id"].(float64))

	// Смена номера на занятый
	resp, _ = app.Test(jsonRequest("PUT", fmt.Sprintf("/api/assets/%d", id), token, map[string]interface{}{
		"asset_number": "AST-001",
	}))
	assert.Equal(t, 409, resp.StatusCode)

	resp, _ = app.Test(jsonRequest("PUT", "/api/assets/9999", token, map[string]interface{}{
		"asset_name": "Ghost",
	}))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteAsset(t *testing.T) {
	db := setupTestDB()
	uploadDir := t.TempDir()
	app := createTestApp(db, uploadDir)
	_, token := createTestUser(db)

	resp, _ := app.Test(jsonRequest("POST", "/api/assets", token, map[string]interface{}{
		"asset_name":   "Laptop A",
		"asset_number": "AST-001",
	}))
	created := decodeBody(t, resp)
	id := uint(created["id"].(float64))

	// Вложение с файлом на диске
	filePath := filepath.Join(uploadDir, "doc.txt")
	assert.NoError(t, os.WriteFile(filePath, []byte("contents"), 0644))
	db.Create(&models.Attachment{
		AssetID:    id,
		FileName:   "doc.txt",
		FilePath:   filePath,
		Size:       8,
		UploadedBy: 1,
	})

	resp, _ = app.Test(jsonRequest("DELETE", fmt.Sprintf("/api/assets/%d", id), token, nil))
	assert.Equal(t, 200, resp.StatusCode)

	// Актив удален
	resp, _ = app.Test(jsonRequest("GET", fmt.Sprintf("/api/assets/%d", id), token, nil))
	assert.Equal(t, 404, resp.StatusCode)

	// Вложения не осиротели: строки и файл удалены
	var attachments int64
	db.Model(&models.Attachment{}).Where("asset_id = ?", id).Count(&attachments)
	assert.Equal(t, int64(0), attachments)
	_, err := os.Stat(filePath)
	assert.True(t, os.IsNotExist(err))

	// История сохранена, последняя запись об удалении
	var history []models.AssetHistory
	db.Where("asset_id = ?", id).Order("id asc").Find(&history)
	assert.Len(t, history, 2)
	assert.Equal(t, models.HistoryActionCreated, history[0].Action)
	assert.Equal(t, models.HistoryActionDeleted, history[1].Action)

	// Повторное удаление возвращает 404
	resp, _ = app.Test(jsonRequest("DELETE", fmt.Sprintf("/api/assets/%d", id), token, nil))
	assert.Equal(t, 404, resp.StatusCode)
}
