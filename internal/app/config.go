package app

import (
	"math"
	"os"
	"strconv"
	"time"
)

type Config struct {
	TokenSecret string        // Required: HS256 signing secret, at least 32 bytes
	Issuer      string        // Optional: issuer claim for tokens (default: cartelera)
	TokenTTL    time.Duration // Optional: token lifetime (default: 1h)

	HashMemoryKiB   int // Optional: Argon2id memory cost in KiB (default: 65536)
	HashIterations  int // Optional: Argon2id time cost (default: 3)
	HashParallelism int // Optional: Argon2id lanes (default: 2)

	LoginLimit   int           // Optional: login attempts per window per IP (default: 5)
	LoginWindow  time.Duration // Optional: login rate limit window (default: 15m)
	ReviewLimit  int           // Optional: review submissions per window per IP (default: 15)
	ReviewWindow time.Duration // Optional: review rate limit window (default: 1h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./cartelera.db)
	RedisAddr    string // Optional: Redis address; when set, rate limit counters live there

	// TrustProxyHeaders keys rate limiting on X-Forwarded-For/X-Real-IP
	// instead of the socket address. Only enable behind a proxy that strips
	// inbound copies of these headers (default: false).
	TrustProxyHeaders bool

	CORSOrigin          string        // Optional: allowed browser origin (default: *)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		TokenSecret: os.Getenv("CARTELERA_TOKEN_SECRET"),
		Issuer:      getEnvOrDefault("CARTELERA_ISSUER", "cartelera"),
		TokenTTL:    getEnvDurationOrDefault("CARTELERA_TOKEN_TTL", time.Hour),

		HashMemoryKiB:   getEnvIntOrDefault("CARTELERA_HASH_MEMORY_KIB", 64*1024),
		HashIterations:  getEnvIntOrDefault("CARTELERA_HASH_ITERATIONS", 3),
		HashParallelism: getEnvIntOrDefault("CARTELERA_HASH_PARALLELISM", 2),

		LoginLimit:   getEnvIntOrDefault("CARTELERA_LOGIN_LIMIT", 5),
		LoginWindow:  getEnvDurationOrDefault("CARTELERA_LOGIN_WINDOW", 15*time.Minute),
		ReviewLimit:  getEnvIntOrDefault("CARTELERA_REVIEW_LIMIT", 15),
		ReviewWindow: getEnvDurationOrDefault("CARTELERA_REVIEW_WINDOW", time.Hour),

		DatabaseFile: getEnvOrDefault("CARTELERA_DATABASE_FILE", "cartelera.db"),
		RedisAddr:    os.Getenv("CARTELERA_REDIS_ADDR"),

		TrustProxyHeaders: getEnvBoolOrDefault("CARTELERA_TRUST_PROXY_HEADERS", false),

		CORSOrigin:          getEnvOrDefault("CARTELERA_CORS_ORIGIN", "*"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// The hash parameters convert to fixed-width ints downstream; values that
	// would wrap fall back to the defaults rather than producing an absurd
	// (or trivially cheap) hashing cost.
	if cfg.HashMemoryKiB <= 0 || int64(cfg.HashMemoryKiB) > math.MaxUint32 {
		cfg.HashMemoryKiB = 64 * 1024
	}
	if cfg.HashIterations <= 0 || int64(cfg.HashIterations) > math.MaxUint32 {
		cfg.HashIterations = 3
	}
	if cfg.HashParallelism <= 0 || cfg.HashParallelism > math.MaxUint8 {
		cfg.HashParallelism = 2
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
