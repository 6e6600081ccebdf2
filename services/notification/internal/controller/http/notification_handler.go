package http

import (
	"context"
	"fmt"
	"net/http"

	"mycomentor/pkg/jwt"
	"mycomentor/pkg/logger"
	"mycomentor/services/notification/internal/entity"
	"mycomentor/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// iconGlyphs maps the stored icon tag to the client glyph name. Unknown
// tags fall back to the info glyph.
var iconGlyphs = map[entity.Icon]string{
	entity.IconThermometer: "thermometer-outline",
	entity.IconWater:       "water-outline",
	entity.IconFlask:       "flask-outline",
	entity.IconSparkles:    "sparkles-outline",
	entity.IconStorefront:  "storefront-outline",
	entity.IconInfo:        "information-circle-outline",
}

func glyphFor(icon entity.Icon) string {
	if glyph, ok := iconGlyphs[icon]; ok {
		return glyph
	}
	return iconGlyphs[entity.IconInfo]
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	redisClient         *redis.Client
	logger              *logger.Logger
	jwtService          *jwt.Service
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, redisClient *redis.Client, logger *logger.Logger, jwtService *jwt.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		redisClient:         redisClient,
		logger:              logger,
		jwtService:          jwtService,
	}
}

// NotificationResponse is a notification decorated for display.
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	TimeLabel string `json:"time_label"`
	Read      bool   `json:"read"`
	Icon      string `json:"icon"`
}

type SendNotificationRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
}

func (h *NotificationHandler) toResponse(userID string, n entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp,
		TimeLabel: h.notificationUseCase.FormattedTime(userID, n.Timestamp),
		Read:      n.Read,
		Icon:      glyphFor(n.Icon),
	}
}

// GetNotifications godoc
// @Summary      Get user notifications
// @Description  Get all notifications for the authenticated user, newest first
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notifications := h.notificationUseCase.GetNotifications(userID)
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, h.toResponse(userID, n))
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": responses,
		"count":         len(responses),
		"unread_count":  h.notificationUseCase.GetUnreadCount(userID),
	})
}

// GetUnreadCount godoc
// @Summary      Get unread notification count
// @Description  Get the number of unread notifications for the badge
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": h.notificationUseCase.GetUnreadCount(userID)})
}

// MarkAsRead godoc
// @Summary      Mark a notification as read
// @Description  Mark a single notification as read. Unknown ids are ignored.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.notificationUseCase.MarkAsRead(userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"unread_count": h.notificationUseCase.GetUnreadCount(userID),
	})
}

// MarkAllAsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.notificationUseCase.MarkAllAsRead(userID)
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "unread_count": 0})
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Description  Delete a single notification. Unknown ids are ignored.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.notificationUseCase.DeleteNotification(userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// ClearAllNotifications godoc
// @Summary      Clear all notifications
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications [delete]
func (h *NotificationHandler) ClearAllNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.notificationUseCase.ClearAllNotifications(userID)
	c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared"})
}

// GetLatestReading godoc
// @Summary      Get the latest environmental reading
// @Description  Return the most recent sensor reading cached by the monitor
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /monitor/latest [get]
func (h *NotificationHandler) GetLatestReading(c *gin.Context) {
	reading, err := h.notificationUseCase.LatestReading(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No environmental reading available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reading": reading})
}

// SendNotification is the internal endpoint other services call to push a
// notification to a user.
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notificationType := entity.NotificationType(req.Type)
	switch notificationType {
	case entity.TypeWarning, entity.TypeSuccess, entity.TypeInfo:
	case "":
		notificationType = entity.TypeInfo
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification type"})
		return
	}

	id := h.notificationUseCase.SendNotification(req.UserID, entity.NotificationInput{
		Type:    notificationType,
		Title:   req.Title,
		Message: req.Message,
		Icon:    entity.Icon(req.Icon),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification sent successfully",
		"id":      id,
	})
}

// HandleWebSocket streams new notifications to the client as they are
// added. Auth comes from the middleware or a token query parameter.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")

	if userID == "" {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID = claims.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", userID)

	ctx := context.Background()
	pubsub := h.redisClient.Subscribe(ctx, fmt.Sprintf("notifications:%s", userID))
	defer pubsub.Close()

	redisChannel := pubsub.Channel()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case msg := <-redisChannel:
				if msg == nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					h.logger.Error("Failed to write WebSocket message: %v", err)
					return
				}
			}
		}
	}()

	for {
		messageType, _, err := conn.ReadMessage()
		if err != nil {
			h.logger.Warn("WebSocket read error: %v", err)
			break
		}
		if messageType == websocket.CloseMessage {
			break
		}
		if messageType == websocket.PingMessage {
			conn.WriteMessage(websocket.PongMessage, nil)
		}
	}

	close(done)
	h.logger.Info("WebSocket disconnected for user %s", userID)
}
