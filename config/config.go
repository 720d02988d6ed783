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

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Directory DirectoryConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	// PublicBaseURL is prepended to redirect targets returned after submission.
	PublicBaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// LogLevel is the gorm logger level: silent, error, warn or info.
	LogLevel string
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects the blob backend. Driver is "s3" or "file".
type StorageConfig struct {
	Driver string
	S3     S3Config
	// LocalDir/LocalBaseURL are used by the "file" driver.
	LocalDir     string
	LocalBaseURL string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// DirectoryConfig holds the profile engine tunables.
type DirectoryConfig struct {
	SlugDebounce     time.Duration
	DraftTTL         time.Duration
	WorkspaceIdleTTL time.Duration
	SweepSchedule    string
	GalleryCapacity  int
	MaxImageBytes    int64
	MaxPortraitBytes int64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			Environment:   getEnv("ENVIRONMENT", "development"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "directorio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "5"), 5),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "25"), 25),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
			LogLevel:        getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "file"),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				Bucket:          getEnv("AWS_S3_BUCKET", "directorio-uploads"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			},
			LocalDir:     getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			LocalBaseURL: getEnv("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/uploads"),
		},
		Directory: DirectoryConfig{
			SlugDebounce:     parseDuration(getEnv("SLUG_DEBOUNCE", "500ms"), 500*time.Millisecond),
			DraftTTL:         parseDuration(getEnv("DRAFT_TTL", "72h"), 72*time.Hour),
			WorkspaceIdleTTL: parseDuration(getEnv("WORKSPACE_IDLE_TTL", "30m"), 30*time.Minute),
			SweepSchedule:    getEnv("SWEEP_SCHEDULE", "@every 5m"),
			GalleryCapacity:  parseInt(getEnv("GALLERY_CAPACITY", "3"), 3),
			MaxImageBytes:    int64(parseInt(getEnv("MAX_IMAGE_BYTES", "5242880"), 5*1024*1024)),
			MaxPortraitBytes: int64(parseInt(getEnv("MAX_PORTRAIT_BYTES", "819200"), 800*1024)),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
