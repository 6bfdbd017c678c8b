//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/bikeshare/internal/bootstrap"
	"github.com/yanqian/bikeshare/internal/domain/auth"
	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/maintenance"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
	"github.com/yanqian/bikeshare/internal/infra/config"
	httpiface "github.com/yanqian/bikeshare/internal/interface/http"
	"github.com/yanqian/bikeshare/pkg/logger"
	"github.com/yanqian/bikeshare/pkg/metrics"
	"github.com/yanqian/bikeshare/pkg/validation"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		validation.New,
		provideAuthConfig,
		provideBaselineConfig,
		provideThresholds,
		provideRebalancingConfig,
		provideStationConfig,
		providePostgresPool,
		provideValkeyClient,
		provideStationStore,
		provideStationRepository,
		provideSnapshotSource,
		provideFleetRepository,
		provideMaintenanceStore,
		provideMaintenanceRepository,
		provideAlertRepository,
		provideBaselineRepository,
		provideBaselineCache,
		provideAlertQueue,
		provideNotifier,
		wire.Bind(new(baseline.Observer), new(*metrics.Registry)),
		wire.Bind(new(station.TierObserver), new(*metrics.Registry)),
		wire.Bind(new(rebalancing.Observer), new(*metrics.Registry)),
		auth.NewService,
		baseline.NewResolver,
		station.NewService,
		rebalancing.NewService,
		fleet.NewService,
		maintenance.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
