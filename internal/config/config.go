package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gym-desk-go/pkg/logger"
)

type Config struct {
	HTTPPort           string
	Env                string
	ReceiptsDir        string
	CORSAllowedOrigins []string
	DB                 DBConfig
	Auth               AuthConfig
	Dashboard          DashboardConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret string
	// StaffPasswordHash is a bcrypt hash of the front-desk staff password.
	StaffEmail        string
	StaffPasswordHash string
	SessionTTL        time.Duration
}

type DashboardConfig struct {
	ExpiringWindowDays  int
	ExpiredLookbackDays int
	RecentCheckIns      int
}

func Load(log logger.Logger) Config {
	if err := godotenv.Load(); err == nil {
		log.Info("config: .env loaded")
	}

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		ReceiptsDir:        getEnv("RECEIPTS_DIR", "data/receipts"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "gym_desk"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
			StaffEmail:        getEnv("AUTH_STAFF_EMAIL", "staff@gym.local"),
			StaffPasswordHash: getEnv("AUTH_STAFF_PASSWORD_HASH", ""),
			SessionTTL:        getEnvDuration("AUTH_SESSION_TTL", 12*time.Hour),
		},
		Dashboard: DashboardConfig{
			ExpiringWindowDays:  getEnvInt("DASHBOARD_EXPIRING_WINDOW_DAYS", 7),
			ExpiredLookbackDays: getEnvInt("DASHBOARD_EXPIRED_LOOKBACK_DAYS", 30),
			RecentCheckIns:      getEnvInt("DASHBOARD_RECENT_CHECKINS", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
