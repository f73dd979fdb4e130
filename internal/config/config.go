package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode  string // Set via flag, not env
	AppEnv   string
	LogLevel string

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort           string
	ServiceApiPort    string
	CorsAllowedOrigin string

	// Email
	SmtpHost         string
	SmtpPort         int
	SmtpUsername     string
	SmtpPassword     string
	SmtpFromAddress  string
	ContactRecipient string
	MockServices     bool   // capture mail in Redis instead of sending it
	LogEmailsPath    string // also append every mail to this file

	// AWS S3 (media host)
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseURL       string
	ImageMaxDimension  int
	ImageMaxSizeMB     int
	MaxImagesPerUpload int

	// App Defaults
	AppName string // display name on outgoing mail

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return v, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	cfg.AppEnv = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "zameen_homes")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ApiPort = getEnv("API_PORT", "5000")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.CorsAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", "")
	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "noreply@zameen-homes.example.com")
	cfg.ContactRecipient = getEnv("CONTACT_RECIPIENT", "contact@zameen-homes.example.com")
	cfg.MockServices = getEnv("MOCK_SERVICES", "") == "true"
	cfg.LogEmailsPath = getEnv("LOG_EMAILS", "")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "ap-south-1")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseURL = getEnv("IMAGE_BASE_URL", "")
	cfg.AppName = getEnv("APP_NAME", "Zameen Homes")

	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.SmtpPort, err = getInt("SMTP_PORT", "587"); err != nil {
		return nil, err
	}
	if cfg.ImageMaxDimension, err = getInt("IMAGE_MAX_DIMENSION", "2048"); err != nil {
		return nil, err
	}
	if cfg.ImageMaxSizeMB, err = getInt("IMAGE_MAX_SIZE_MB", "5"); err != nil {
		return nil, err
	}
	if cfg.MaxImagesPerUpload, err = getInt("MAX_IMAGES_PER_UPLOAD", "10"); err != nil {
		return nil, err
	}
	if cfg.RateLimitBucketSize, err = getInt("RATE_LIMIT_BUCKET_SIZE", "10"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRefillRate, err = getInt("RATE_LIMIT_REFILL_RATE", "2"); err != nil {
		return nil, err
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", strconv.FormatInt(int64(auth.DefaultTokenTTL/time.Second), 10)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	return cfg, nil
}
