package baseline

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

// Resolver turns (station, weekday, hour) into an expected bike count.
type Resolver interface {
	Resolve(ctx context.Context, stationID int64, weekday, hour int) (Resolution, error)
	// Profile returns all 24 hours of a weekday, filling gaps with the default demand.
	Profile(ctx context.Context, stationID int64, weekday int) ([]HourlyBaseline, error)
}

type resolver struct {
	cfg      Config
	repo     Repository
	cache    Cache
	observer Observer
	logger   *slog.Logger
}

// NewResolver wires the resolver. cache and observer may be nil.
func NewResolver(cfg Config, repo Repository, cache Cache, observer Observer, logger *slog.Logger) Resolver {
	if cfg.DefaultDemand <= 0 {
		cfg.DefaultDemand = DefaultConfig().DefaultDemand
	}
	return &resolver{
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		observer: observer,
		logger:   logger.With("component", "baseline.resolver"),
	}
}

func (r *resolver) Resolve(ctx context.Context, stationID int64, weekday, hour int) (Resolution, error) {
	if weekday < 0 || weekday > 6 {
		return Resolution{}, apperrors.InvalidInput("weekday must be between 0 and 6")
	}
	if hour < 0 || hour > 23 {
		return Resolution{}, apperrors.InvalidInput("hour must be between 0 and 23")
	}
	key := Key{StationID: stationID, Weekday: weekday, Hour: hour}
	if res, ok := r.fromCache(ctx, key); ok {
		return res, nil
	}

	res, err := r.lookup(ctx, key)
	if err != nil {
		return Resolution{}, apperrors.Unavailable("baseline lookup failed", err)
	}
	if r.observer != nil {
		r.observer.ObserveBaseline(string(res.Source))
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, res, r.cfg.CacheTTL); err != nil {
			r.logger.Warn("baseline cache write failed", "station_id", stationID, "error", err)
		}
	}
	return res, nil
}

func (r *resolver) lookup(ctx context.Context, key Key) (Resolution, error) {
	demand, ok, err := r.repo.GetBaseline(ctx, key.StationID, key.Weekday, key.Hour)
	if err != nil {
		return Resolution{}, err
	}
	if ok && demand > 0 {
		return Resolution{Demand: demand, Source: SourceExact}, nil
	}

	demand, ok, err = r.repo.GetBaselineNearestHour(ctx, key.StationID, key.Weekday, key.Hour)
	if err != nil {
		return Resolution{}, err
	}
	if ok && demand > 0 {
		return Resolution{Demand: demand, Source: SourceNearestHour}, nil
	}

	demand, ok, err = r.repo.GetDefaultBaseline(ctx, key.StationID)
	if err != nil {
		return Resolution{}, err
	}
	if ok && demand > 0 {
		return Resolution{Demand: demand, Source: SourceDefaultSlot}, nil
	}

	return Resolution{Demand: r.cfg.DefaultDemand, Source: SourceFallback}, nil
}

func (r *resolver) fromCache(ctx context.Context, key Key) (Resolution, bool) {
	if r.cache == nil {
		return Resolution{}, false
	}
	res, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("baseline cache read failed", "station_id", key.StationID, "error", err)
		return Resolution{}, false
	}
	if !ok || res.Demand <= 0 {
		return Resolution{}, false
	}
	return res, true
}

func (r *resolver) Profile(ctx context.Context, stationID int64, weekday int) ([]HourlyBaseline, error) {
	if weekday < 0 || weekday > 6 {
		return nil, apperrors.InvalidInput("weekday must be between 0 and 6")
	}
	rows, err := r.repo.ListDay(ctx, stationID, weekday)
	if err != nil {
		return nil, apperrors.Unavailable("baseline profile lookup failed", err)
	}
	byHour := make(map[int]float64, len(rows))
	for _, row := range rows {
		if row.Demand > 0 {
			byHour[row.Hour] = row.Demand
		}
	}
	profile := make([]HourlyBaseline, 24)
	for hour := range profile {
		demand, ok := byHour[hour]
		if !ok {
			demand = r.cfg.DefaultDemand
		}
		profile[hour] = HourlyBaseline{Hour: hour, Demand: demand}
	}
	return profile, nil
}
