package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	// Storage
	StorageBackend string
	UploadDir      string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Inference
	InferenceMode   string
	InferenceAPIURL string
	OCRAPIURL       string
	ServiceTimeout  time.Duration

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "./data/intake.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StorageBackend:    getEnv("STORAGE_BACKEND", "local"),
		UploadDir:         getEnv("UPLOAD_DIR", "./data/uploads"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "records"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		InferenceMode:     getEnv("INFERENCE_MODE", "local"),
		InferenceAPIURL:   getEnv("INFERENCE_API_URL", "http://localhost:8866/predict"),
		OCRAPIURL:         getEnv("OCR_API_URL", "http://localhost:8867/ocr"),
		ServiceTimeout:    getEnvAsDuration("SERVICE_TIMEOUT", 30*time.Second),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 16<<20),
	}

	if cfg.StorageBackend != "local" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be local or s3, got %q", cfg.StorageBackend)
	}
	if cfg.InferenceMode != "local" && cfg.InferenceMode != "server" {
		return nil, fmt.Errorf("INFERENCE_MODE must be local or server, got %q", cfg.InferenceMode)
	}

	return cfg, nil
}

// IntakeConfig configures the intake front end (cmd/intake).
type IntakeConfig struct {
	ServerURL   string
	Language    string
	LogLevel    string
	DropDir     string
	RevealDelay time.Duration
	HTTPTimeout time.Duration
}

func LoadIntake() *IntakeConfig {
	return &IntakeConfig{
		ServerURL:   getEnv("INTAKE_SERVER_URL", "http://localhost:8080"),
		Language:    getEnv("INTAKE_LANG", "en"),
		LogLevel:    getEnv("INTAKE_LOG_LEVEL", "warn"),
		DropDir:     getEnv("INTAKE_DROP_DIR", ""),
		RevealDelay: getEnvAsDuration("INTAKE_REVEAL_DELAY", time.Second),
		HTTPTimeout: getEnvAsDuration("INTAKE_HTTP_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
