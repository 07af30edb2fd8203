package config

import "time"

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "ecoquest"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultSQLitePath = "data/local.db"
	DefaultRedisAddr  = "localhost:6379"

	DefaultTimezone              = "UTC"
	DefaultMissionCount          = 5
	DefaultDailyTarget           = 3
	DefaultDailyXPReward         = 30
	DefaultLocalRetentionDays    = 7
	DefaultRecentCacheTTLMinutes = 5
	DefaultStatsCacheTTLMinutes  = 10

	DefaultCleanupInterval = time.Hour
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 10.0
	DefaultRateLimitBurst  = 20
)

// Example values shipped in .env.example that must not reach production
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
