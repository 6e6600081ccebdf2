package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// JWT
	JWTSecret string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// External inference services
	GrowthServiceURL    string
	DiseaseServiceURL   string
	DetectionServiceURL string

	// Environmental data service
	EnvDataServiceURL string
	FarmLatitude      float64
	FarmLongitude     float64
	MonitorInterval   time.Duration

	// Environmental alert thresholds
	TempHighThreshold float64
	TempLowThreshold  float64
	HumidityMin       float64
	PHMin             float64
	PHMax             float64

	// Per-user rate limit for model endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "mycomentor"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "mycomentor-uploads"),

		GrowthServiceURL:    getEnv("GROWTH_SERVICE_URL", "http://localhost:5000"),
		DiseaseServiceURL:   getEnv("DISEASE_SERVICE_URL", "http://localhost:6666"),
		DetectionServiceURL: getEnv("DETECTION_SERVICE_URL", "http://localhost:7000"),

		EnvDataServiceURL: getEnv("ENVDATA_SERVICE_URL", "http://localhost:5050"),
		FarmLatitude:      getEnvFloat("FARM_LATITUDE", 6.9271),
		FarmLongitude:     getEnvFloat("FARM_LONGITUDE", 79.8612),
		MonitorInterval:   getEnvDuration("MONITOR_INTERVAL", 15*time.Minute),

		TempHighThreshold: getEnvFloat("MONITOR_TEMP_HIGH", 27),
		TempLowThreshold:  getEnvFloat("MONITOR_TEMP_LOW", 15),
		HumidityMin:       getEnvFloat("MONITOR_HUMIDITY_MIN", 75),
		PHMin:             getEnvFloat("MONITOR_PH_MIN", 5),
		PHMax:             getEnvFloat("MONITOR_PH_MAX", 7),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
