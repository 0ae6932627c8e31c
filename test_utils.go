package main

import (
	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.User{}, &models.Category{}, &models.Employee{}, &models.Asset{}, &models.AssetHistory{}, &models.Attachment{})
	return db
}

// createTestApp создает тестовое приложение со всеми маршрутами.
// uploadDir задает каталог вложений, хаб событий не используется.
func createTestApp(db *gorm.DB, uploadDir string) *fiber.App {
	app := fiber.New()

	authController := controllers.NewAuthController(db)
	assetController := controllers.NewAssetController(db, nil)
	historyController := controllers.NewHistoryController(db, nil)
	attachmentController := controllers.NewAttachmentController(db, uploadDir, nil)
	categoryController := controllers.NewCategoryController(db)
	employeeController := controllers.NewEmployeeController(db)
	dashboardController := controllers.NewDashboardController(db)

	routes.SetupAuthRoutes(app, authController)
	routes.SetupAssetRoutes(app, assetController, historyController, attachmentController)
	routes.SetupAttachmentRoutes(app, attachmentController)
	routes.SetupCategoryRoutes(app, categoryController)
	routes.SetupEmployeeRoutes(app, employeeController)
	routes.SetupDashboardRoutes(app, dashboardController)

	return app
}

// createTestUser создает тестового пользователя и возвращает его ID и токен
func createTestUser(db *gorm.DB) (uint, string) {
	user := models.User{
		Name:         "Test User",
		Email:        "user@test.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	db.Create(&user)

	token, _ := utils.GenerateJWT(user.ID, user.Email)
	return user.ID, token
}
