package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bikeshare/internal/domain/auth"
	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/loadfactor"
	"github.com/yanqian/bikeshare/internal/domain/maintenance"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
	"github.com/yanqian/bikeshare/internal/infra/alertqueue"
	"github.com/yanqian/bikeshare/internal/infra/baselinecache"
	"github.com/yanqian/bikeshare/internal/infra/baselinerepo"
	"github.com/yanqian/bikeshare/internal/infra/config"
	"github.com/yanqian/bikeshare/internal/infra/maintenancerepo"
	"github.com/yanqian/bikeshare/internal/infra/stationrepo"
	"github.com/yanqian/bikeshare/pkg/util"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret: cfg.Auth.Secret,
		Issuer: cfg.Auth.Issuer,
		Leeway: cfg.Auth.Leeway,
	}
}

func provideBaselineConfig(cfg *config.Config) baseline.Config {
	return baseline.Config{
		DefaultDemand:  cfg.Baseline.DefaultDemand,
		DefaultWeekday: cfg.Baseline.DefaultDayOfWeek,
		DefaultHour:    cfg.Baseline.DefaultHour,
		CacheTTL:       cfg.Cache.BaselineTTL,
	}
}

func provideThresholds(cfg *config.Config) loadfactor.Thresholds {
	return loadfactor.Thresholds{
		Deficient: cfg.LoadFactor.Deficient,
		Normal:    cfg.LoadFactor.Normal,
		Healthy:   cfg.LoadFactor.Healthy,
	}
}

func provideRebalancingConfig(cfg *config.Config) rebalancing.Config {
	return rebalancing.Config{
		LowThreshold:    cfg.Rebalancing.LowThreshold,
		HighThreshold:   cfg.Rebalancing.HighThreshold,
		MaxNeedStations: cfg.Rebalancing.MaxNeedStations,
	}
}

func provideStationConfig(cfg *config.Config) station.Config {
	out := station.DefaultConfig()
	out.DefaultRadiusKm = cfg.Stations.DefaultRadiusKm
	if cfg.Stations.HistoryWindow > 0 {
		out.HistoryWindow = cfg.Stations.HistoryWindow
	}
	if cfg.Stations.ResolveConcurrency > 0 {
		out.ResolveConcurrency = cfg.Stations.ResolveConcurrency
	}
	out.Location = util.LoadLocation(cfg.Baseline.Timezone)
	return out
}

// providePostgresPool returns a nil pool when no DSN is configured or the
// database is unreachable; repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, func() {}
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, func() {}
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil when valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, using in-process cache and queue", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, using in-process cache and queue", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, using in-process cache and queue", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// stationStore is the union the station, rebalancing and fleet services read from.
type stationStore interface {
	station.Repository
	rebalancing.SnapshotSource
	fleet.Repository
}

func provideStationStore(pool *pgxpool.Pool) stationStore {
	if pool == nil {
		return stationrepo.NewMemoryRepository()
	}
	return stationrepo.NewPostgresRepository(pool)
}

func provideStationRepository(s stationStore) station.Repository {
	return s
}

func provideSnapshotSource(s stationStore) rebalancing.SnapshotSource {
	return s
}

func provideFleetRepository(s stationStore) fleet.Repository {
	return s
}

type maintenanceStore interface {
	maintenance.Repository
	maintenance.AlertRepository
}

func provideMaintenanceStore(pool *pgxpool.Pool) maintenanceStore {
	if pool == nil {
		return maintenancerepo.NewMemoryRepository()
	}
	return maintenancerepo.NewPostgresRepository(pool)
}

func provideMaintenanceRepository(s maintenanceStore) maintenance.Repository {
	return s
}

func provideAlertRepository(s maintenanceStore) maintenance.AlertRepository {
	return s
}

func provideBaselineRepository(cfg *config.Config, pool *pgxpool.Pool) baseline.Repository {
	if pool == nil {
		return baselinerepo.NewMemoryRepository(cfg.Baseline.DefaultDayOfWeek, cfg.Baseline.DefaultHour)
	}
	return baselinerepo.NewPostgresRepository(pool, cfg.Baseline.DefaultDayOfWeek, cfg.Baseline.DefaultHour)
}

func provideBaselineCache(cfg *config.Config, client valkey.Client) baseline.Cache {
	if client == nil {
		return baselinecache.NewMemoryCache()
	}
	return baselinecache.NewValkeyCache(client, cfg.Cache.Prefix)
}

// provideAlertQueue delivers queued alerts into the alert store.
func provideAlertQueue(cfg *config.Config, client valkey.Client, alerts maintenance.AlertRepository, logger *slog.Logger) alertqueue.Queue {
	if client == nil {
		return alertqueue.NewImmediateQueue(alerts.InsertAlerts, logger)
	}
	queue := alertqueue.NewValkeyQueue(client, cfg.Queue.AlertKey, logger)
	queue.SetHandler(alerts.InsertAlerts)
	return queue
}

func provideNotifier(queue alertqueue.Queue) maintenance.Notifier {
	return queue
}
