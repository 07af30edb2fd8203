package config

import (
	"fmt"
	"sort"
	"strings"
)

var (
	validLogLevels      = []string{"debug", "info", "warn", "error"}
	validLogFormats     = []string{"text", "json"}
	validRemoteBackends = []string{BackendPostgres, BackendMemory}
	validLocalBackends  = []string{BackendSQLite, BackendRedis, BackendMemory}
)

// Validate checks enums, ranges and the settings each selected backend needs
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Port < 1 || c.Port > 65535 {
		add("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if !oneOf(strings.ToLower(c.LogLevel), validLogLevels) {
		add("LOG_LEVEL must be one of %s, got %q", strings.Join(validLogLevels, "|"), c.LogLevel)
	}
	if !oneOf(strings.ToLower(c.LogFormat), validLogFormats) {
		add("LOG_FORMAT must be one of %s, got %q", strings.Join(validLogFormats, "|"), c.LogFormat)
	}

	switch {
	case !oneOf(c.RemoteBackend, validRemoteBackends):
		add("REMOTE_BACKEND must be one of %s, got %q", strings.Join(validRemoteBackends, "|"), c.RemoteBackend)
	case c.RemoteBackend == BackendPostgres:
		var missing []string
		for name, v := range map[string]string{"DB_USER": c.DBUser, "DB_HOST": c.DBHost, "DB_PORT": c.DBPort, "DB_NAME": c.DBName} {
			if v == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			add("missing required environment variables: %s", strings.Join(sorted(missing), ", "))
		}
		if c.DBMaxConns < 1 {
			add("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
		}
	}

	switch {
	case !oneOf(c.LocalBackend, validLocalBackends):
		add("LOCAL_BACKEND must be one of %s, got %q", strings.Join(validLocalBackends, "|"), c.LocalBackend)
	case c.LocalBackend == BackendSQLite && c.SQLitePath == "":
		add("SQLITE_PATH must be set for the sqlite backend")
	case c.LocalBackend == BackendRedis && c.RedisAddr == "":
		add("REDIS_ADDR must be set for the redis backend")
	}

	for name, v := range map[string]int{
		"MISSION_COUNT":        c.MissionCount,
		"DAILY_TARGET":         c.DailyTarget,
		"DAILY_XP_REWARD":      c.DailyXPReward,
		"LOCAL_RETENTION_DAYS": c.LocalRetentionDays,
		"RATE_LIMIT_BURST":     c.RateLimitBurst,
	} {
		if v < 1 {
			add("%s must be positive, got %d", name, v)
		}
	}
	if c.RecentCacheTTL <= 0 || c.StatsCacheTTL <= 0 {
		add("cache TTLs must be positive")
	}
	if c.CleanupInterval <= 0 {
		add("CLEANUP_INTERVAL must be positive, got %s", c.CleanupInterval)
	}
	if c.RateLimitRPS <= 0 {
		add("RATE_LIMIT_RPS must be positive, got %g", c.RateLimitRPS)
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(sorted(problems), "; "))
	}
	return nil
}

// Warnings reports non-critical issues, like example secrets left in place
func (c *Config) Warnings() []string {
	var warnings []string

	if c.RemoteBackend == BackendPostgres && c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if c.RemoteBackend == BackendMemory {
		warnings = append(warnings, "REMOTE_BACKEND=memory keeps all progress in process memory - data is lost on restart")
	}

	return warnings
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
