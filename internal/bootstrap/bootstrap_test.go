package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/mission"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
	"github.com/osse101/EcoQuest_Go/internal/server"
	"github.com/osse101/EcoQuest_Go/internal/sse"
	"github.com/osse101/EcoQuest_Go/internal/store"
	"github.com/osse101/EcoQuest_Go/internal/worker"
)

const testAPIKey = "test-key"

func memoryConfig() *config.Config {
	return &config.Config{
		APIKey:             testAPIKey,
		ServiceName:        "ecoquest-test",
		RemoteBackend:      config.BackendMemory,
		LocalBackend:       config.BackendMemory,
		Location:           time.UTC,
		MissionCount:       3,
		DailyTarget:        2,
		DailyXPReward:      30,
		LocalRetentionDays: 7,
		StatsCacheTTL:      10 * time.Minute,
		RecentCacheTTL:     5 * time.Minute,
	}
}

type app struct {
	router   chi.Router
	stores   *Stores
	services *Services
	clock    *clock.SimulatedClock
}

func newApp(t *testing.T) *app {
	t.Helper()
	ctx := context.Background()
	cfg := memoryConfig()

	stores, err := InitializeStores(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })

	catalog, err := LoadCatalog("")
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	clk := clock.NewSimulatedClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	services := InitializeServices(stores, catalog, bus, clk, cfg)

	hub := sse.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	bridge := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:     bus,
		StatsService: services.Stats,
		Hub:          hub,
		Registerer:   prometheus.NewRegistry(),
	})
	require.NotNil(t, bridge)
	t.Cleanup(bridge.Unsubscribe)

	router := server.NewRouter(server.Config{APIKey: cfg.APIKey}, server.Services{
		Stats:     services.Stats,
		Missions:  services.Missions,
		Daily:     services.Daily,
		Recycling: services.Recycling,
		Hub:       hub,
		Readiness: stores.Readiness,
	})
	return &app{router: router, stores: stores, services: services, clock: clk}
}

func (a *app) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(server.HeaderAPIKey, testAPIKey)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestApp_RecyclingFlow(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/api/v1/users/u1/profile", `{"displayName":"Ana"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[domain.UserStats](t, w)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, "Ana", profile.DisplayName)

	for i := 0; i < 2; i++ {
		w = a.do(t, http.MethodPost, "/api/v1/users/u1/recycling", `{"material":"Vidrio","item":"botella"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		res := decode[recycling.RecordResult](t, w)
		assert.Equal(t, domain.MaterialGlass, res.Record.Material)
	}

	w = a.do(t, http.MethodGet, "/api/v1/users/u1/daily-progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	daily := decode[domain.DailyStats](t, w)
	assert.Equal(t, 2, daily.CurrentProgress)
	assert.True(t, daily.IsCompleted)
	assert.Equal(t, 1, daily.DailyStreak)

	w = a.do(t, http.MethodGet, "/api/v1/users/u1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[domain.UserStats](t, w)
	assert.Equal(t, 2, stats.TotalRecycled)
	assert.GreaterOrEqual(t, stats.XP, 30, "daily goal reward credited")

	w = a.do(t, http.MethodGet, "/api/v1/users/u1/recycling/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[domain.RecyclingStats](t, w)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.ByType[domain.MaterialGlass])
	assert.Equal(t, 2, summary.Today)

	w = a.do(t, http.MethodGet, "/api/v1/users/u1/recycling/recent?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.RecycleRecord](t, w), 1)

	w = a.do(t, http.MethodGet, "/api/v1/users/u1/missions", "")
	require.Equal(t, http.StatusOK, w.Code)
	set := decode[domain.DailyMissionSet](t, w)
	assert.Len(t, set.Missions, 3)
}

func TestApp_MissionCompletion(t *testing.T) {
	a := newApp(t)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/v1/users/u1/profile", "").Code)
	set := decode[domain.DailyMissionSet](t, a.do(t, http.MethodGet, "/api/v1/users/u1/missions", ""))
	require.NotEmpty(t, set.Missions)
	m := set.Missions[0]

	w := a.do(t, http.MethodPost, "/api/v1/users/u1/missions/"+m.ID+"/complete", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	completed := decode[domain.Mission](t, w)
	assert.Equal(t, domain.MissionCompleted, completed.Status)

	w = a.do(t, http.MethodPost, "/api/v1/users/u1/missions/"+m.ID+"/complete", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	stats := decode[domain.UserStats](t, a.do(t, http.MethodGet, "/api/v1/users/u1/stats", ""))
	assert.GreaterOrEqual(t, stats.XP, m.XP)

	w = a.do(t, http.MethodPost, "/api/v1/users/u1/missions/unknown/progress", `{"progress":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	summary := a.do(t, http.MethodGet, "/api/v1/users/u1/missions/summary", "")
	assert.Contains(t, summary.Body.String(), `"completed":1`)
}

func TestApp_ClassificationAndErrors(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/api/v1/users/u1/recycling/classification",
		`{"response":"{\"tipo\":\"papel\",\"confianza\":\"alta\",\"objeto\":\"periódico\"}"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tipo":"papel"`)

	w = a.do(t, http.MethodPost, "/api/v1/users/u1/recycling", `{"material":"madera"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/users/ghost/stats", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/stats", nil)
	unauth := httptest.NewRecorder()
	a.router.ServeHTTP(unauth, req)
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)

	w = a.do(t, http.MethodGet, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"badges"`)
}

func TestApp_Readiness(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	a.stores.Remote.(*store.MemoryRemote).SetFailing(true)
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"remote":"unavailable"`)
}

func TestApp_SwaggerUIIsPublic(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}

func TestApp_CleanupJob(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/users/u1/missions", "").Code)
	a.clock.AdvanceDays(8)

	job := worker.NewCleanupJob(a.services.Missions, a.services.Recycling)
	require.NoError(t, job.Process(ctx))

	raw, err := a.stores.Local.GetItem(ctx, mission.LocalKey)
	if err == nil {
		assert.NotContains(t, raw, "2024-06-01", "stale mission set kept")
	} else {
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
}

func TestInitializeStores(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite local", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.LocalBackend = config.BackendSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "cache", "local.db")

		stores, err := InitializeStores(ctx, cfg)
		require.NoError(t, err)
		defer stores.Close()

		require.NoError(t, stores.Local.SetItem(ctx, "k", "v"))
		assert.Contains(t, stores.Readiness, ReadinessLocal)
		assert.NoError(t, stores.Readiness[ReadinessLocal].Ping(ctx))
	})

	t.Run("unknown backends", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RemoteBackend = "mongo"
		_, err := InitializeStores(ctx, cfg)
		assert.ErrorContains(t, err, ErrMsgUnknownRemoteBackend)

		cfg = memoryConfig()
		cfg.LocalBackend = "etcd"
		_, err = InitializeStores(ctx, cfg)
		assert.ErrorContains(t, err, ErrMsgUnknownLocalBackend)
	})
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Achievements)

	_, err = LoadCatalog(t.TempDir())
	assert.ErrorContains(t, err, ErrMsgFailedLoadCatalog)
}

func TestGracefulShutdown(t *testing.T) {
	cfg := memoryConfig()
	stores, err := InitializeStores(context.Background(), cfg)
	require.NoError(t, err)

	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	hub := sse.NewHub()
	hub.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NotPanics(t, func() {
		GracefulShutdown(ctx, ShutdownComponents{
			Server: server.NewServer(server.Config{Port: 0, APIKey: testAPIKey}, server.Services{}),
			Pool:   pool,
			Hub:    hub,
			Stores: stores,
		})
	})
}
