package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	Port           string

	// Media collaborator. When MediaUploadURL is empty, uploads are written
	// under UploadDir and served from /uploads.
	MediaUploadURL string
	MediaAPIKey    string
	UploadDir      string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "gardora"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 24, time.Hour),
		Port:           getEnvOrDefault("PORT", "5000"),
		MediaUploadURL: getEnvOrDefault("MEDIA_UPLOAD_URL", ""),
		MediaAPIKey:    getEnvOrDefault("MEDIA_API_KEY", ""),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./public"),
	}
}

func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MediaUploadURL != "" && c.MediaAPIKey == "" {
		return fmt.Errorf("MEDIA_API_KEY is required when MEDIA_UPLOAD_URL is set")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
