package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mycomentor/pkg/cache"
	"mycomentor/pkg/config"
	"mycomentor/pkg/inference"
	"mycomentor/pkg/jwt"
	"mycomentor/pkg/logger"
	"mycomentor/pkg/middleware"
	"mycomentor/pkg/s3"
	inferenceHTTP "mycomentor/services/inference/internal/controller/http"
	"mycomentor/services/inference/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mycomentor/services/inference/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limiting)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without archival)", err)
		s3Client = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) Run() error {
	inferenceUseCase := usecase.NewInferenceUseCase(
		inference.NewGrowthClient(a.cfg.GrowthServiceURL),
		inference.NewDetectClient(a.cfg.DetectionServiceURL),
		inference.NewDiseaseClient(a.cfg.DiseaseServiceURL),
		a.s3Client,
		a.log,
	)

	inferenceHandler := inferenceHTTP.NewInferenceHandler(inferenceUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(a.jwtService))
	// Model calls are expensive, so the API is rate limited per user.
	if a.redisClient != nil {
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow))
	}
	{
		protected.POST("/growth/predict", inferenceHandler.PredictGrowth)
		protected.POST("/detect", inferenceHandler.DetectMushrooms)
		protected.POST("/disease/detect", inferenceHandler.DetectDisease)
		protected.GET("/disease/annotated", inferenceHandler.AnnotatedImage)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Inference service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down inference service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Inference service exited")
	return nil
}
