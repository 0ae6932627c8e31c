package main

import (
	"testing"

	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestDashboard(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db, t.TempDir())
	_, token := createTestUser(db)

	db.Create(&models.Asset{AssetName: "A", AssetNumber: "AST-001", Status: models.AssetStatusAvailable, PurchaseCost: 1000})
	db.Create(&models.Asset{AssetName: "B", AssetNumber: "AST-002", Status: models.AssetStatusAvailable, PurchaseCost: 2000})
	db.Create(&models.Asset{AssetName: "C", AssetNumber: "AST-003", Status: models.AssetStatusAssigned, PurchaseCost: 3000})
	db.Create(&models.Asset{AssetName: "D", AssetNumber: "AST-004", Status: models.AssetStatusRetired, PurchaseCost: 500})
	db.Create(&models.Category{Name: "Ноутбуки"})
	db.Create(&models.AssetHistory{AssetID: 1, Action: "created", PerformedBy: 1})

	resp, _ := app.Test(jsonRequest("GET", "/api/dashboard", token, nil))
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(4), body["total_assets"])
	assert.Equal(t, 6500.0, body["total_cost"])
	assert.Equal(t, float64(1), body["total_categories"])

	byStatus := body["by_status"].(map[string]interface{})
	assert.Equal(t, float64(2), byStatus["available"])
	assert.Equal(t, float64(1), byStatus["assigned"])
	assert.Equal(t, float64(0), byStatus["maintenance"])
	assert.Equal(t, float64(1), byStatus["retired"])

	assert.Len(t, body["recent_history"].([]interface{}), 1)
}
