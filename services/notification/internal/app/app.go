package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mycomentor/pkg/config"
	"mycomentor/pkg/envdata"
	"mycomentor/pkg/jwt"
	"mycomentor/pkg/kvstore"
	"mycomentor/pkg/logger"
	"mycomentor/pkg/middleware"
	"mycomentor/pkg/queue"
	notificationHTTP "mycomentor/services/notification/internal/controller/http"
	"mycomentor/services/notification/internal/entity"
	"mycomentor/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mycomentor/services/notification/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	kv := kvstore.NewRedisStore(redisClient)

	thresholds := usecase.Thresholds{
		TempHigh:    cfg.TempHighThreshold,
		TempLow:     cfg.TempLowThreshold,
		HumidityMin: cfg.HumidityMin,
		PHMin:       cfg.PHMin,
		PHMax:       cfg.PHMax,
	}

	// New notifications fan out to the websocket subscribers via pub/sub.
	manager := usecase.NewManager(kv, log, thresholds, func(userID string, notification entity.Notification) {
		payload, err := json.Marshal(notification)
		if err != nil {
			log.Error("Failed to encode notification for user %s: %v", userID, err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Publish(ctx, fmt.Sprintf("notifications:%s", userID), payload).Err(); err != nil {
			log.Warn("Failed to publish notification for user %s: %v", userID, err)
		}
	})

	notificationUseCase := usecase.NewNotificationUseCase(manager, kv, redisClient, log)

	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, redisClient, log, jwtService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		protected.DELETE("/notifications", notificationHandler.ClearAllNotifications)
		protected.GET("/monitor/latest", notificationHandler.GetLatestReading)
	}
	// WebSocket endpoint - handles authentication internally via query parameter
	api.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	// Internal route - no auth required (for service-to-service calls)
	api.POST("/notifications/send", notificationHandler.SendNotification)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Environmental monitor
	monitorDone := make(chan struct{})
	envClient := envdata.NewClient(cfg.EnvDataServiceURL)
	monitor := usecase.NewMonitor(envClient, manager, redisClient, log, cfg.FarmLatitude, cfg.FarmLongitude, cfg.MonitorInterval)
	go func() {
		log.Info("Starting environmental monitor (interval %s)...", cfg.MonitorInterval)
		monitor.Start(monitorDone)
	}()

	// Consume alert tasks published by the other services
	go func() {
		log.Info("Starting alert queue consumer...")

		err := queueClient.ConsumeAlertTasks(func(task map[string]interface{}) error {
			taskType, _ := task["type"].(string)
			log.Info("Processing alert task: type=%s", taskType)

			switch taskType {
			case queue.TaskWelcome:
				return notificationUseCase.HandleWelcomeTask(task)
			case queue.TaskListingCreated:
				return notificationUseCase.HandleListingCreatedTask(task)
			default:
				log.Error("Unknown alert task type: %s, task=%+v", taskType, task)
				return fmt.Errorf("unknown alert task type: %s", taskType)
			}
		})
		if err != nil {
			log.Error("Error starting alert queue consumer: %v", err)
		}
	}()

	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	close(monitorDone)

	// Flush every user store before the connections go away
	manager.Close()

	if queueClient != nil {
		queueClient.Close()
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Notification service exited")
}
