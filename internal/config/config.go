package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	// Remote document store
	RemoteBackend     string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Local cache
	LocalBackend  string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Progression rules
	Timezone           string
	Location           *time.Location
	MissionCount       int
	DailyTarget        int
	DailyXPReward      int
	LocalRetentionDays int
	RecentCacheTTL     time.Duration
	StatsCacheTTL      time.Duration
	// CatalogDir overrides the built-in achievement, badge and title catalog
	CatalogDir string

	// Background work and HTTP limits
	CleanupInterval time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	TrustedProxies  []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		RemoteBackend:     getEnv("REMOTE_BACKEND", BackendPostgres),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "ecoquest"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		LocalBackend:  getEnv("LOCAL_BACKEND", BackendSQLite),
		SQLitePath:    getEnv("SQLITE_PATH", DefaultSQLitePath),
		RedisAddr:     getEnv("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		Timezone:           getEnv("TIMEZONE", DefaultTimezone),
		MissionCount:       getEnvAsInt("MISSION_COUNT", DefaultMissionCount),
		DailyTarget:        getEnvAsInt("DAILY_TARGET", DefaultDailyTarget),
		DailyXPReward:      getEnvAsInt("DAILY_XP_REWARD", DefaultDailyXPReward),
		LocalRetentionDays: getEnvAsInt("LOCAL_RETENTION_DAYS", DefaultLocalRetentionDays),
		RecentCacheTTL:     time.Duration(getEnvAsInt("RECENT_CACHE_TTL_MINUTES", DefaultRecentCacheTTLMinutes)) * time.Minute,
		StatsCacheTTL:      time.Duration(getEnvAsInt("STATS_CACHE_TTL_MINUTES", DefaultStatsCacheTTLMinutes)) * time.Minute,
		CatalogDir:         getEnv("CATALOG_DIR", ""),

		CleanupInterval: getEnvAsDuration("CLEANUP_INTERVAL", DefaultCleanupInterval),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", DefaultRateLimitRPS),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", DefaultRateLimitBurst),
		TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE value: %w", err)
	}
	cfg.Location = loc

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to defaultValue when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat parses a float variable, falling back to defaultValue when unset or invalid
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string such as "10m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
