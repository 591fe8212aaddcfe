package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/validation"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string        `validate:"oneof=development production test"`
	AppSecret   string        `validate:"required,min=16"`
	DBDriver    string        `validate:"oneof=postgres sqlite"`
	DatabaseURL string        `validate:"required"`
	JWTExpiry   time.Duration `validate:"gt=0"`
	Port        string        `validate:"required,numeric"`
	SiteName    string        `validate:"required"`
	MediaDir    string        `validate:"required"`
	LogLevel    string
	LogFormat   string `validate:"oneof=json console"`
}

// Load 加载配置，.env 文件不存在时只使用系统环境变量
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("未找到 .env 文件，使用系统环境变量")
	}

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	if err != nil || expiryHours <= 0 {
		expiryHours = 72
	}

	env := getEnv("APP_ENV", "development")
	driver := getEnv("DB_DRIVER", "postgres")

	logFormat := "json"
	if env == "development" {
		logFormat = "console"
	}

	return &Config{
		Env:         env,
		AppSecret:   getEnv("APP_SECRET", defaultSecret),
		DBDriver:    driver,
		DatabaseURL: databaseURL(driver),
		JWTExpiry:   time.Duration(expiryHours) * time.Hour,
		Port:        getEnv("PORT", "8000"),
		SiteName:    getEnv("SITE_NAME", "Streamflix"),
		MediaDir:    getEnv("MEDIA_DIR", "./media"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", logFormat),
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Env == "production" && c.AppSecret == defaultSecret {
		return fmt.Errorf("invalid config: APP_SECRET must be set in production")
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func databaseURL(driver string) string {
	if driver == "sqlite" {
		return getEnv("SQLITE_PATH", "streamflix.db") + "?_foreign_keys=on"
	}

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "streamflix")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(dbUser), url.QueryEscape(dbPass), dbHost, dbPort, dbName, dbSSL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
