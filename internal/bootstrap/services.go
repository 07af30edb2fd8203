package bootstrap

import (
	"context"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/dailyprogress"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/mission"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// Services holds the domain services shared by the HTTP layer and workers
type Services struct {
	Stats     userstats.Service
	Missions  mission.Service
	Daily     dailyprogress.Service
	Recycling recycling.Service
}

// InitializeServices wires the domain services over stores.
//
// The stats service needs the daily streak while the daily service grants XP
// through the stats service, so the streak lookup is bound after both exist.
func InitializeServices(stores *Stores, catalog *userstats.Catalog, bus event.Bus, clk clock.Clock, cfg *config.Config) *Services {
	var daily dailyprogress.Service
	streaks := userstats.StreakFunc(func(ctx context.Context, userID string) (int, error) {
		return daily.CurrentStreak(ctx, userID)
	})

	stats := userstats.NewService(stores.Remote, stores.Local, catalog, streaks, bus, clk)

	daily = dailyprogress.NewService(stores.Remote, stores.Local, stats, bus, clk, dailyprogress.Config{
		TargetDaily: cfg.DailyTarget,
		XPReward:    cfg.DailyXPReward,
		Location:    cfg.Location,
	})

	missions := mission.NewService(stores.Remote, stores.Local, mission.NewGenerator(nil, nil), stats, bus, clk, mission.Config{
		Count:         cfg.MissionCount,
		RetentionDays: cfg.LocalRetentionDays,
		Location:      cfg.Location,
	})

	recycled := recycling.NewService(stores.Remote, stores.Local, missions, daily, stats, bus, clk, recycling.Config{
		StatsTTL:  cfg.StatsCacheTTL,
		RecentTTL: cfg.RecentCacheTTL,
		Location:  cfg.Location,
	})

	return &Services{
		Stats:     stats,
		Missions:  missions,
		Daily:     daily,
		Recycling: recycled,
	}
}
