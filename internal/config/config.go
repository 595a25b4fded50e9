package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the smallest HS256 key accepted (256 bits).
const MinJWTSecretLength = 32

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// OMDb
	OMDbAPIKey  string
	OMDbBaseURL string
	OMDbTimeout time.Duration

	// Cache
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Events
	AMQPURL   string
	AMQPQueue string

	// Seeding
	SeedOnStartup bool
	AdminEmail    string
	AdminPassword string

	// Server
	Port        string
	CORSOrigins string
	SentryDSN   string
	AppEnv      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "movie_manager"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "moviemanager.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "MovieManager"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "MovieManagerUsers"),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "60m"), 60*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 7*24*time.Hour),

		OMDbAPIKey:  getEnv("OMDB_API_KEY", ""),
		OMDbBaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		OMDbTimeout: parseDuration(getEnv("OMDB_TIMEOUT", "10s"), 10*time.Second),

		CacheTTL:      parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "movies.events"),

		SeedOnStartup: parseBool(getEnv("SEED_ON_STARTUP", "false")),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@moviemanager.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "Admin123!"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength))
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBPassword == "" {
			errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
		}
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
