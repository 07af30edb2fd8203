package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/database"
	"github.com/osse101/EcoQuest_Go/internal/database/postgres"
	"github.com/osse101/EcoQuest_Go/internal/database/redis"
	"github.com/osse101/EcoQuest_Go/internal/database/sqlite"
	"github.com/osse101/EcoQuest_Go/internal/handler"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// Stores holds the remote document store and the local cache selected by
// configuration, plus what /readyz should ping.
type Stores struct {
	Remote    store.Remote
	Local     store.Local
	Readiness map[string]handler.HealthChecker

	closers []func() error
}

// pingable is satisfied by every store backend
type pingable interface {
	Ping(ctx context.Context) error
}

// InitializeStores opens the backends named by cfg. Postgres is migrated
// before the pool is handed out.
func InitializeStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{Readiness: make(map[string]handler.HealthChecker)}

	if err := s.openRemote(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.openLocal(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stores) openRemote(ctx context.Context, cfg *config.Config) error {
	switch cfg.RemoteBackend {
	case config.BackendPostgres:
		connString := cfg.GetDBConnString()
		if err := database.Migrate(ctx, connString); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		pool, err := database.NewPool(ctx, connString, database.PoolOptions{MaxConns: cfg.DBMaxConns, MaxConnIdleTime: cfg.DBMaxConnIdleTime, MaxConnLifetime: cfg.DBMaxConnLifetime})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedConnectRemote, err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		s.setRemote(postgres.NewDocumentRepository(pool))
	case config.BackendMemory:
		s.setRemote(store.NewMemoryRemote())
	default:
		return fmt.Errorf("%s %q", ErrMsgUnknownRemoteBackend, cfg.RemoteBackend)
	}
	slog.Info(LogMsgRemoteSelected, "backend", cfg.RemoteBackend)
	return nil
}

func (s *Stores) openLocal(ctx context.Context, cfg *config.Config) error {
	switch cfg.LocalBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedOpenLocal, err)
		}
		s.closers = append(s.closers, db.Close)
		s.setLocal(db)
	case config.BackendRedis:
		kv, err := redis.Connect(ctx, redis.Options{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.ServiceName,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedOpenLocal, err)
		}
		s.closers = append(s.closers, kv.Close)
		s.setLocal(kv)
	case config.BackendMemory:
		s.setLocal(store.NewMemoryLocal())
	default:
		return fmt.Errorf("%s %q", ErrMsgUnknownLocalBackend, cfg.LocalBackend)
	}
	slog.Info(LogMsgLocalSelected, "backend", cfg.LocalBackend)
	return nil
}

type remoteBackend interface {
	store.Remote
	pingable
}

type localBackend interface {
	store.Local
	pingable
}

func (s *Stores) setRemote(r remoteBackend) {
	s.Remote = r
	s.Readiness[ReadinessRemote] = r
}

func (s *Stores) setLocal(l localBackend) {
	s.Local = l
	s.Readiness[ReadinessLocal] = l
}

// Close releases every opened backend, newest first
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
