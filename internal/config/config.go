package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ServerPort string

	DBDriver    string
	DatabaseDSN string
	ResetDB     bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	RoomLockBackend string
	RoomLockTTL     time.Duration

	PublicRoomsCacheTTL time.Duration

	CloudinaryURL    string
	CloudinaryFolder string

	SwaggerHost string
	CORSOrigins []string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/hotelbook?charset=utf8mb4&parseTime=True&loc=UTC")
	}
	return &Config{
		AppEnv:              getEnv("APP_ENV", "prod"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DBDriver:            getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:         dsn,
		ResetDB:             os.Getenv("RESET_DB") == "true",
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:          getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:        getEnv("COOKIE_SECURE", "true") == "true",
		RoomLockBackend:     getEnv("ROOM_LOCK_BACKEND", "local"),
		RoomLockTTL:         getEnvDuration("ROOM_LOCK_TTL", 10*time.Second),
		PublicRoomsCacheTTL: getEnvDuration("PUBLIC_ROOMS_CACHE_TTL", time.Minute),
		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "hotelbook"),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
		CORSOrigins:         getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// IsDev reports whether the service runs in a development environment.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !c.IsDev() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed outside dev")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.RoomLockBackend {
	case "local", "redis":
	default:
		return fmt.Errorf("unsupported ROOM_LOCK_BACKEND %q", c.RoomLockBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
