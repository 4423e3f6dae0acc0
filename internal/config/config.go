package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Auth Config
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	// Twilio Config (пустой SID или токен - доставка деградирует до симуляции)
	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN"`
	TwilioSMSFrom      string `env:"TWILIO_SMS_FROM"`
	TwilioWhatsAppFrom string `env:"TWILIO_WHATSAPP_FROM" envDefault:"whatsapp:+14155238886"`

	// Alert Dispatch Config
	AlertConcurrency int           `env:"ALERT_CONCURRENCY" envDefault:"8"`
	NotifyMaxRetries int           `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`
	NotifyBaseDelay  time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"1s"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`

	// SACHET Feed Config
	SachetFeedURL     string        `env:"SACHET_FEED_URL"`
	SachetRefreshSpec string        `env:"SACHET_REFRESH_SPEC" envDefault:"@every 10m"`
	SachetCacheTTL    time.Duration `env:"SACHET_CACHE_TTL" envDefault:"15m"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getEnvAsDuration("TOKEN_TTL", 12*time.Hour),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioSMSFrom:      os.Getenv("TWILIO_SMS_FROM"),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		AlertConcurrency:   getEnvAsInt("ALERT_CONCURRENCY", 8),
		NotifyMaxRetries:   getEnvAsInt("NOTIFY_MAX_RETRIES", 3),
		NotifyBaseDelay:    getEnvAsDuration("NOTIFY_BASE_DELAY", time.Second),
		NotifyTimeout:      getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		SachetFeedURL:      os.Getenv("SACHET_FEED_URL"),
		SachetRefreshSpec:  getEnv("SACHET_REFRESH_SPEC", "@every 10m"),
		SachetCacheTTL:     getEnvAsDuration("SACHET_CACHE_TTL", 15*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
