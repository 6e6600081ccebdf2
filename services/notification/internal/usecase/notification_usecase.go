package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mycomentor/pkg/envdata"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

// LatestReadingKey is where the monitor caches the most recent sensor
// reading for the dashboard.
const LatestReadingKey = "envdata:latest"

type NotificationUseCase interface {
	GetNotifications(userID string) []entity.Notification
	GetUnreadCount(userID string) int
	MarkAsRead(userID, notificationID string)
	MarkAllAsRead(userID string)
	DeleteNotification(userID, notificationID string)
	ClearAllNotifications(userID string)
	SendNotification(userID string, input entity.NotificationInput) string
	FormattedTime(userID, timestamp string) string
	LatestReading(ctx context.Context) (*envdata.Reading, error)
	HandleWelcomeTask(task map[string]interface{}) error
	HandleListingCreatedTask(task map[string]interface{}) error
}

type notificationUseCase struct {
	manager     *Manager
	kv          kvstore.Store
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewNotificationUseCase(manager *Manager, kv kvstore.Store, redisClient *redis.Client, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		manager:     manager,
		kv:          kv,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *notificationUseCase) GetNotifications(userID string) []entity.Notification {
	return uc.manager.ForUser(userID).List()
}

func (uc *notificationUseCase) GetUnreadCount(userID string) int {
	return uc.manager.ForUser(userID).UnreadCount()
}

func (uc *notificationUseCase) MarkAsRead(userID, notificationID string) {
	uc.manager.ForUser(userID).MarkAsRead(notificationID)
}

func (uc *notificationUseCase) MarkAllAsRead(userID string) {
	uc.manager.ForUser(userID).MarkAllAsRead()
}

func (uc *notificationUseCase) DeleteNotification(userID, notificationID string) {
	uc.manager.ForUser(userID).Delete(notificationID)
}

func (uc *notificationUseCase) ClearAllNotifications(userID string) {
	uc.manager.ForUser(userID).ClearAll()
}

func (uc *notificationUseCase) SendNotification(userID string, input entity.NotificationInput) string {
	return uc.manager.ForUser(userID).Add(input)
}

func (uc *notificationUseCase) FormattedTime(userID, timestamp string) string {
	return uc.manager.ForUser(userID).FormattedTime(timestamp)
}

// LatestReading returns the sensor reading cached by the monitor.
func (uc *notificationUseCase) LatestReading(ctx context.Context) (*envdata.Reading, error) {
	raw, err := uc.redisClient.Get(ctx, LatestReadingKey).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("no reading available yet")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached reading: %w", err)
	}

	var reading envdata.Reading
	if err := json.Unmarshal([]byte(raw), &reading); err != nil {
		return nil, fmt.Errorf("failed to decode cached reading: %w", err)
	}
	return &reading, nil
}

// HandleWelcomeTask greets a user once. The shown flag survives restarts so
// re-deliveries and repeat logins stay silent.
func (uc *notificationUseCase) HandleWelcomeTask(task map[string]interface{}) error {
	userID, _ := task["user_id"].(string)
	if userID == "" {
		return fmt.Errorf("invalid task: missing user_id")
	}

	flagKey := fmt.Sprintf("welcome_shown:%s", userID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := uc.kv.Get(ctx, flagKey); err == nil {
		return nil
	}

	fullName, _ := task["full_name"].(string)
	message := "Welcome to MycoMentor! Check the lessons section to get started with your cultivation journey."
	if fullName != "" {
		message = fmt.Sprintf("Welcome to MycoMentor, %s! Check the lessons section to get started with your cultivation journey.", fullName)
	}

	uc.manager.ForUser(userID).Add(entity.NotificationInput{
		Type:    entity.TypeSuccess,
		Title:   "Welcome",
		Message: message,
		Icon:    entity.IconSparkles,
	})

	if err := uc.kv.Set(ctx, flagKey, "true"); err != nil {
		uc.logger.Warn("Failed to persist welcome flag for user %s: %v", userID, err)
	}
	return nil
}

// HandleListingCreatedTask confirms a marketplace publication to the seller.
func (uc *notificationUseCase) HandleListingCreatedTask(task map[string]interface{}) error {
	userID, _ := task["user_id"].(string)
	title, _ := task["listing_title"].(string)
	if userID == "" || title == "" {
		return fmt.Errorf("invalid task: missing user_id or listing_title")
	}

	uc.manager.ForUser(userID).Add(entity.NotificationInput{
		Type:    entity.TypeSuccess,
		Title:   "Listing Published",
		Message: fmt.Sprintf("Your listing \"%s\" is now live on the marketplace.", title),
		Icon:    entity.IconStorefront,
	})
	return nil
}
