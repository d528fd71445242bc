package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "solid_secret_key"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	ServiceName string
	AppEnv      string
	AppPort     int
	LoggerLevel string

	Storage     string // "memory" or "postgres"
	DatabaseURL string

	JWTSecret       string
	JWTTTLHours     int
	RefreshTTLHours int
	SessionCookie   string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadPreset string

	SeedAdminEmail    string
	SeedAdminPassword string

	ReminderCron string
	ExpiryCron   string
	RatingCron   string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "home-services"))
	cfg.AppEnv = cast.ToString(getOrReturnDefault("APP_ENV", "development"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8000))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))

	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))
	cfg.Storage = cast.ToString(getOrReturnDefault("STORAGE", ""))
	if cfg.Storage == "" {
		if cfg.DatabaseURL != "" {
			cfg.Storage = "postgres"
		} else {
			cfg.Storage = "memory"
		}
	}

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", DefaultJWTSecret))
	cfg.JWTTTLHours = cast.ToInt(getOrReturnDefault("JWT_TTL_HOURS", 24))
	cfg.RefreshTTLHours = cast.ToInt(getOrReturnDefault("REFRESH_TTL_HOURS", 24*7))
	cfg.SessionCookie = cast.ToString(getOrReturnDefault("SESSION_COOKIE", "session"))

	cfg.CORSOrigins = splitList(cast.ToString(getOrReturnDefault("CORS_ORIGINS", "*")))

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", ""))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))

	cfg.SMTPHost = cast.ToString(getOrReturnDefault("SMTP_HOST", ""))
	cfg.SMTPPort = cast.ToInt(getOrReturnDefault("SMTP_PORT", 587))
	cfg.EmailUser = cast.ToString(getOrReturnDefault("EMAIL_USER", ""))
	cfg.EmailPass = cast.ToString(getOrReturnDefault("EMAIL_PASS", ""))

	cfg.CloudinaryCloudName = cast.ToString(getOrReturnDefault("CLOUDINARY_CLOUD_NAME", ""))
	cfg.CloudinaryAPIKey = cast.ToString(getOrReturnDefault("CLOUDINARY_API_KEY", ""))
	cfg.CloudinaryAPISecret = cast.ToString(getOrReturnDefault("CLOUDINARY_API_SECRET", ""))
	cfg.CloudinaryUploadPreset = cast.ToString(getOrReturnDefault("CLOUDINARY_UPLOAD_PRESET", ""))

	cfg.SeedAdminEmail = cast.ToString(getOrReturnDefault("SEED_ADMIN_EMAIL", "admin@homeservices.local"))
	cfg.SeedAdminPassword = cast.ToString(getOrReturnDefault("SEED_ADMIN_PASSWORD", ""))

	cfg.ReminderCron = cast.ToString(getOrReturnDefault("REMINDER_CRON", "* * * * *"))
	cfg.ExpiryCron = cast.ToString(getOrReturnDefault("EXPIRY_CRON", "*/15 * * * *"))
	cfg.RatingCron = cast.ToString(getOrReturnDefault("RATING_CRON", "0 3 * * *"))

	return cfg
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that must not reach a production deployment.
func (c Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrDefaultJWTSecret
	}
	return nil
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
