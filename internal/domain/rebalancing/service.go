package rebalancing

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

// Service produces rebalancing plans from the live station snapshots.
type Service interface {
	Plan(ctx context.Context) (Plan, error)
}

type service struct {
	engine   Engine
	source   SnapshotSource
	observer Observer
	logger   *slog.Logger
}

// NewService wires the rebalancing service. observer may be nil.
func NewService(cfg Config, source SnapshotSource, observer Observer, logger *slog.Logger) Service {
	return &service{
		engine:   NewEngine(cfg),
		source:   source,
		observer: observer,
		logger:   logger.With("component", "rebalancing.service"),
	}
}

func (s *service) Plan(ctx context.Context) (Plan, error) {
	snapshots, err := s.source.ListActiveSnapshots(ctx)
	if err != nil {
		return Plan{}, apperrors.Unavailable("failed to load station snapshots", err)
	}
	plan := s.engine.Plan(snapshots)
	if s.observer != nil {
		s.observer.ObservePlan(len(plan.NeedsBikes), len(plan.HasExcess), len(plan.Suggestions))
	}
	s.logger.Debug("rebalancing plan computed",
		"stations", len(snapshots),
		"needs_bikes", len(plan.NeedsBikes),
		"has_excess", len(plan.HasExcess),
		"suggestions", len(plan.Suggestions),
	)
	return plan, nil
}
