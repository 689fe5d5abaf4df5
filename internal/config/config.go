// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/predict.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Store backends
// --------------------------------------------------------------------------

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Upstream football-data.org API
	FootballAPIKey        string
	FootballAPIBaseURL    string
	FootballAPIRPM        int
	FootballAPITimeout    time.Duration
	FootballAPIAttempts   int
	FootballRateLimitWait time.Duration

	// Scoring
	PickThreshold  float64
	TeamSampleSize int
	Location       *time.Location
	Competitions   []Competition

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Snapshot store
	StoreBackend string
	DataDir      string

	// Database (postgres backend)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Redis (redis backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	competitions := DefaultCompetitions()
	if path := envOr("COMPETITIONS_FILE", ""); path != "" {
		loaded, err := LoadCompetitions(path)
		if err != nil {
			return nil, err
		}
		competitions = loaded
	}

	cfg := &Config{
		FootballAPIKey:        envOr("FOOTBALL_API_KEY", ""),
		FootballAPIBaseURL:    envOr("FOOTBALL_API_BASE_URL", "https://api.football-data.org/v4"),
		FootballAPIRPM:        envInt("FOOTBALL_API_RPM", 10),
		FootballAPITimeout:    envDuration("FOOTBALL_API_TIMEOUT", 30*time.Second),
		FootballAPIAttempts:   envInt("FOOTBALL_API_MAX_ATTEMPTS", 2),
		FootballRateLimitWait: envDuration("FOOTBALL_API_RATE_LIMIT_WAIT", 20*time.Second),

		PickThreshold:  envFloat("PICK_THRESHOLD", 65.0),
		TeamSampleSize: envInt("TEAM_SAMPLE_SIZE", 10),
		Location:       time.FixedZone("TRT", envInt("SERVICE_TZ_OFFSET_HOURS", 3)*3600),
		Competitions:   competitions,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", StoreFile)),
		DataDir:      envOr("DATA_DIR", "cache_data"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisPrefix:   envOr("REDIS_PREFIX", "analiz"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreFile, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want file, postgres or redis)", c.StoreBackend)
	}
	if c.TeamSampleSize < 1 {
		return fmt.Errorf("TEAM_SAMPLE_SIZE must be positive, got %d", c.TeamSampleSize)
	}
	if len(c.Competitions) == 0 {
		return fmt.Errorf("no competitions configured")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("20s") or plain seconds ("20").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
