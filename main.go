package main

import (
	"log"
	"os"
	"time"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"
	"inventar-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Загружаем .env, если он есть
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	db.AutoMigrate(&models.User{}, &models.Category{}, &models.Employee{}, &models.Asset{}, &models.AssetHistory{}, &models.Attachment{})

	// Инициализация базовых категорий
	initDefaultCategories(db)

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Хаб событий изменений активов
	hub := services.NewHub(db)
	go hub.Run()

	// Инициализация контроллеров
	uploadDir := os.Getenv("UPLOAD_DIR")
	authController := controllers.NewAuthController(db)
	assetController := controllers.NewAssetController(db, hub)
	historyController := controllers.NewHistoryController(db, hub)
	attachmentController := controllers.NewAttachmentController(db, uploadDir, hub)
	categoryController := controllers.NewCategoryController(db)
	employeeController := controllers.NewEmployeeController(db)
	dashboardController := controllers.NewDashboardController(db)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupAssetRoutes(app, assetController, historyController, attachmentController)
	routes.SetupAttachmentRoutes(app, attachmentController)
	routes.SetupCategoryRoutes(app, categoryController)
	routes.SetupEmployeeRoutes(app, employeeController)
	routes.SetupDashboardRoutes(app, dashboardController)

	// WebSocket маршрут для событий изменений активов
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Inventar Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// initDefaultCategories инициализирует базовые категории активов
func initDefaultCategories(db *gorm.DB) {
	defaultCategories := []models.Category{
		{Name: "Ноутбуки", Description: "Портативные компьютеры"},
		{Name: "Настольные ПК", Description: "Стационарные рабочие станции"},
		{Name: "Мониторы", Description: "Мониторы и дисплеи"},
		{Name: "Периферия", Description: "Клавиатуры, мыши, гарнитуры"},
		{Name: "Сетевое оборудование", Description: "Коммутаторы, маршрутизаторы, точки доступа"},
		{Name: "Принтеры и МФУ", Description: "Печатающая техника"},
		{Name: "Серверы", Description: "Серверное оборудование"},
		{Name: "Мобильные устройства", Description: "Телефоны и планшеты"},
	}

	// Проверяем, есть ли уже категории в базе
	var count int64
	db.Model(&models.Category{}).Count(&count)

	if count == 0 {
		log.Println("Инициализация базовых категорий...")
		for _, category := range defaultCategories {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Ошибка при создании категории '%s': %v", category.Name, err)
			}
		}
		log.Println("Базовые категории инициализированы")
	} else {
		log.Printf("Категории уже существуют (%d элементов)", count)
	}
}
