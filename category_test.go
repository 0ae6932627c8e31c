package main

import (
	"fmt"
	"testing"

	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCategoryCRUD(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	// Создание
	resp, _ := app.Test(jsonRequest("POST", "/api/categories", token, map[string]interface{}{
		"name":        "Ноутбуки",
		"description": "Портативные компьютеры",
	}))
	assert.Equal(t, 201, resp.StatusCode)
	created := decodeBody(t, resp)
	id := uint(created["id"].(float64))

	// Дубликат имени
	resp, _ = app.Test(jsonRequest("POST", "/api/categories", token, map[string]interface{}{
		"name": "Ноутбуки",
	}))
	assert.Equal(t, 409, resp.StatusCode)

	// Пустое имя
	resp, _ = app.Test(jsonRequest("POST", "/api/categories", token, map[string]interface{}{
		"name": "  ",
	}))
	assert.Equal(t, 400, resp.StatusCode)

	// Список
	resp, _ = app.Test(jsonRequest("GET", "/api/categories", token, nil))
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body["categories"].([]interface{}), 1)

	// Обновление
	resp, _ = app.Test(jsonRequest("PUT", fmt.Sprintf("/api/categories/%d", id), token, map[string]interface{}{
		"name":        "Ноутбуки и ультрабуки",
		"description": "Портативные компьютеры",
	}))
	assert.Equal(t, 200, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "Ноутбуки и ультрабуки", updated["name"])

	// Удаление
	resp, _ = app.Test(jsonRequest("DELETE", fmt.Sprintf("/api/categories/%d", id), token, nil))
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = app.Test(jsonRequest("GET", fmt.Sprintf("/api/categories/%d", id), token, nil))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	category := models.Category{Name: "Ноутбуки"}
	db.Create(&category)
	db.Create(&models.Asset{
		AssetName:   "Laptop A",
		AssetNumber: "AST-001",
		Status:      models.AssetStatusAvailable,
		CategoryID:  &category.ID,
	})

	// Категория с активами не удаляется
	resp, _ := app.Test(jsonRequest("DELETE", fmt.Sprintf("/api/categories/%d", category.ID), token, nil))
	assert.Equal(t, 409, resp.StatusCode)

	var count int64
	db.Model(&models.Category{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
