// Package config loads application configuration from the environment,
// optionally seeded from a .env file in the working directory.
package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort    = "8080"
	defaultAppEnv     = "local"
	defaultMongoURI   = "mongodb://localhost:27017"
	defaultMongoDB    = "forkful"
	defaultJWTSecret  = "change-me-in-production"
	defaultJWTExpires = 24 * time.Hour
	defaultRedisAddr  = "localhost:6379"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load reads .env (if present) into the process environment.
// Safe to call multiple times; only the first call does work.
func Load() error {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			loadErr = err
		}
	})
	return loadErr
}

func get(key, fallback string) string {
	_ = Load()
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string { return get(key, fallback) }

func AppPort() string { return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { return get("APP_ENV", defaultAppEnv) }

// ── Database ─────────────────────────────────────────────────────────────────

func MongoURI() string      { return get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { return get("MONGO_DB", defaultMongoDB) }

// ── Auth ─────────────────────────────────────────────────────────────────────

func JWTSecret() string { return get("JWT_SECRET", defaultJWTSecret) }

// JWTExpires returns the access-token lifetime. Accepts Go duration syntax
// (e.g. "24h"); malformed or missing values fall back to one day.
func JWTExpires() time.Duration {
	raw := get("JWT_EXPIRES", "")
	if raw == "" {
		return defaultJWTExpires
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultJWTExpires
	}
	return d
}

// ── Redis ────────────────────────────────────────────────────────────────────

func RedisAddr() string     { return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return get("REDIS_PASSWORD", "") }

// ── Geocoder ─────────────────────────────────────────────────────────────────

func GeocoderProvider() string { return get("GEOCODER_PROVIDER", "nominatim") }
func GeocoderAPIKey() string   { return get("GEOCODER_API_KEY", "") }
func GeocoderBaseURL() string  { return get("GEOCODER_BASE_URL", "") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string       { return get("STORAGE_URL", "http://localhost:8080/storage") }

func StorageS3Bucket() string   { return get("S3_BUCKET", "") }
func StorageS3Region() string   { return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { return get("S3_KEY", "") }
func StorageS3Secret() string   { return get("S3_SECRET", "") }
func StorageS3Endpoint() string { return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { return get("S3_URL", "") }

// ── Logging ──────────────────────────────────────────────────────────────────

// LogMongoEnabled reports whether request logs should also be persisted to
// the MongoDB log collection.
func LogMongoEnabled() bool {
	return strings.EqualFold(get("LOG_MONGO", "false"), "true")
}
