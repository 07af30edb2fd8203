package bootstrap

import (
	"log/slog"

	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// SetupLogger installs the process-wide logger from cfg and reports the
// configuration problems that do not prevent startup.
func SetupLogger(cfg *config.Config) *slog.Logger {
	l := logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.Environment == config.DefaultEnvironment,
	))

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	l.Info(LogMsgStartingEcoQuest,
		"environment", cfg.Environment,
		"version", cfg.Version)

	l.Debug(LogMsgConfigurationLoaded,
		"remote_backend", cfg.RemoteBackend,
		"local_backend", cfg.LocalBackend,
		"timezone", cfg.Location.String(),
		"port", cfg.Port)

	for _, w := range cfg.Warnings() {
		l.Warn(LogMsgConfigWarning, "warning", w)
	}
	return l
}
