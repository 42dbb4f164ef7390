package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	UploadProviderCloudinary = "cloudinary"
	UploadProviderMinIO      = "minio"
)

type API struct {
	BaseURL string
	Timeout time.Duration
}

type Storage struct {
	SessionDBPath string
}

type Logging struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

type Cloudinary struct {
	Endpoint     string
	CloudName    string
	UploadPreset string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Upload struct {
	Provider   string
	MaxSize    int64
	Cloudinary Cloudinary
	MinIO      MinIO
}

type Config struct {
	API               API
	Storage           Storage
	Logging           Logging
	Upload            Upload
	PageSize          int
	AutoLoginOnSignup bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size
}

// homeDir is where the session database and log file live unless overridden.
func homeDir() string {
	if dir := os.Getenv("BLOGDESK_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blogdesk"
	}
	return filepath.Join(home, ".blogdesk")
}

func LoadAPI() API {
	return API{
		BaseURL: strings.TrimRight(getEnv("BLOG_API_URL", "http://localhost:5000/api"), "/"),
		Timeout: parseDuration(getEnv("BLOG_API_TIMEOUT", "30s"), 30*time.Second),
	}
}

func LoadUpload() Upload {
	return Upload{
		Provider: strings.ToLower(getEnv("UPLOAD_PROVIDER", UploadProviderCloudinary)),
		MaxSize:  parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		Cloudinary: Cloudinary{
			Endpoint:     strings.TrimRight(getEnv("CLOUDINARY_ENDPOINT", "https://api.cloudinary.com"), "/"),
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		},
		MinIO: MinIO{
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			Region:     getEnv("MINIO_REGION", "us-east-1"),
		},
	}
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	dir := homeDir()

	return &Config{
		API: LoadAPI(),
		Storage: Storage{
			SessionDBPath: getEnv("BLOG_SESSION_DB", filepath.Join(dir, "session.db")),
		},
		Logging: Logging{
			File:       getEnv("BLOG_LOG_FILE", filepath.Join(dir, "blogdesk.log")),
			Level:      getEnv("BLOG_LOG_LEVEL", "info"),
			MaxSizeMB:  getEnvAsInt("BLOG_LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("BLOG_LOG_MAX_BACKUPS", 3),
		},
		Upload:            LoadUpload(),
		PageSize:          getEnvAsInt("BLOG_PAGE_SIZE", 10),
		AutoLoginOnSignup: getEnvBool("BLOG_AUTO_LOGIN_ON_SIGNUP", false),
	}
}
