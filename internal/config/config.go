package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string
	// BaseURL is the externally reachable origin, used to build
	// magic-link URLs.
	BaseURL string

	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Email EmailConfig
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "inkvoice"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		BaseURL:          strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		AuthCookieSecure: authCookieSecure,

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "inkvoice"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", "localhost"),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "Inkvoice <noreply@inkvoice.local>"),
		},
	}
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewRenderConfigHolder),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
