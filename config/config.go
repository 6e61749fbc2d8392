package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string // database name, or file/DSN for sqlite

	JWTKey        string
	TokenTTLHours int
	SaltRound     int

	CORSOrigins string

	ProxyHeader    string   // client IP header set by the load balancer
	TrustedProxies []string // only these peers may set ProxyHeader

	AdminEmail    string // bootstrap admin, created on start when set
	AdminPassword string

	RedisURL             string // empty disables the distributed progress lock
	CompletionWebhookURL string // empty disables completion notifications
	ReconcileCron        string
	StreakResetCron      string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "learning_platform"),

		JWTKey:        getEnv("JWT_SECRET_KEY", "defaultSecret"),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		SaltRound:     getEnvInt("SALT_ROUND", 10),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ProxyHeader:    getEnv("PROXY_HEADER", "X-Forwarded-For"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		RedisURL:             getEnv("REDIS_URL", ""),
		CompletionWebhookURL: getEnv("COMPLETION_WEBHOOK_URL", ""),
		ReconcileCron:        getEnv("RECONCILE_CRON", "0 3 * * *"),
		StreakResetCron:      getEnv("STREAK_RESET_CRON", "5 0 * * *"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}

	return AppConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
