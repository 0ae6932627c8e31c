package controllers

import (
	"errors"
	"regexp"
	"strings"

	"inventar-backend/models"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController контроллер для аутентификации
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// RegisterRequest структура запроса регистрации
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse структура ответа аутентификации
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register обрабатывает регистрацию пользователя
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest

	// Парсим JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if err := validateRegisterRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Проверяем, существует ли пользователь
	var existingUser models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&existingUser).Error; err == nil {
		return c.Status(409).JSON(AuthResponse{
			Success: false,
			Message: "Пользователь с таким email уже существует",
		})
	}

	// Хэшируем пароль
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Ошибка при создании пользователя",
		})
	}

	// Создаем пользователя
	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Ошибка при создании пользователя",
		})
	}

	// Генерируем JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Ошибка при генерации токена",
		})
	}

	response := AuthResponse{
		Success: true,
		Message: "Пользователь успешно зарегистрирован",
		Token:   token,
	}
	response.User.ID = user.ID
	response.User.Name = user.Name
	response.User.Email = user.Email

	return c.Status(201).JSON(response)
}

// Login обрабатывает вход пользователя
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Email и пароль обязательны",
		})
	}

	// Ищем пользователя
	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Неверный email или пароль",
		})
	}

	if !user.IsActive {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Учетная запись заблокирована",
		})
	}

	// Проверяем пароль
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Неверный email или пароль",
		})
	}

	// Генерируем JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Ошибка при генерации токена",
		})
	}

	response := AuthResponse{
		Success: true,
		Message: "Вход выполнен успешно",
		Token:   token,
	}
	response.User.ID = user.ID
	response.User.Name = user.Name
	response.User.Email = user.Email

	return c.JSON(response)
}

// validateRegisterRequest валидирует данные регистрации
func validateRegisterRequest(req *RegisterRequest) error {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return errors.New("Имя должно содержать минимум 2 символа")
	}
	if !emailPattern.MatchString(req.Email) {
		return errors.New("Неверный формат email")
	}
	if len(req.Password) < 6 {
		return errors.New("Пароль должен содержать минимум 6 символов")
	}
	return nil
}
