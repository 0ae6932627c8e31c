package services

import (
	"log"
	"os"
	"sync"
	"time"

	"inventar-backend/models"

	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Типы событий, рассылаемых подписчикам
const (
	EventAssetCreated = "asset.created"
	EventAssetUpdated = "asset.updated"
	EventAssetDeleted = "asset.deleted"
	EventHistoryAdded = "history.added"
)

// WSMessage представляет сообщение WebSocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// AssetEventPayload представляет payload события изменения актива
type AssetEventPayload struct {
	AssetID     uint        `json:"asset_id"`
	Asset       interface{} `json:"asset,omitempty"`
	PerformedBy uint        `json:"performed_by"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Client представляет подключенного клиента
type Client struct {
	UserID   uint
	Conn     *websocket.Conn
	Send     chan WSMessage
	Hub      *Hub
	LastPing time.Time
}

// Hub управляет всеми подключениями и рассылает события изменений активов
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan WSMessage
	mutex      sync.RWMutex
	db         *gorm.DB
}

// NewHub создает новый хаб
func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan WSMessage),
		db:         db,
	}
}

// Run запускает хаб
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			log.Printf("Client %d connected. Total clients: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()

			log.Printf("Client %d disconnected. Total clients: %d", client.UserID, len(h.clients))

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastAssetEvent рассылает событие изменения актива всем подписчикам
func (h *Hub) BroadcastAssetEvent(eventType string, assetID uint, asset interface{}, performedBy uint) {
	h.broadcast <- WSMessage{
		Type: eventType,
		Payload: AssetEventPayload{
			AssetID:     assetID,
			Asset:       asset,
			PerformedBy: performedBy,
			Timestamp:   time.Now(),
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединение
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	// Получаем JWT токен из query параметров
	tokenString := c.Query("token")
	if tokenString == "" {
		c.Close()
		return
	}

	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		secretKey = "inventar-secret-key-change-in-production"
	}

	// Парсим JWT токен
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})

	if err != nil || !token.Valid {
		c.Close()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.Close()
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.Close()
		return
	}

	// Подключаться могут только активные пользователи
	var user models.User
	if err := h.db.First(&user, uint(userIDFloat)).Error; err != nil || !user.IsActive {
		c.Close()
		return
	}

	client := &Client{
		UserID:   uint(userIDFloat),
		Conn:     c,
		Send:     make(chan WSMessage, 256),
		Hub:      h,
		LastPing: time.Now(),
	}

	h.register <- client

	// Запускаем горутины для чтения и записи
	go client.writePump()
	client.readPump()
}

// readPump читает входящие фреймы; клиент ничего не присылает, кроме pong,
// но чтение нужно, чтобы заметить закрытие соединения
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump отправляет события клиенту и поддерживает соединение пингами
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
