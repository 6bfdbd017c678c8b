package station

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/domain/loadfactor"
	apperrors "github.com/yanqian/bikeshare/pkg/errors"
	"github.com/yanqian/bikeshare/pkg/geo"
	"github.com/yanqian/bikeshare/pkg/util"
)

// Service exposes the station queries used by riders and operators.
type Service interface {
	List(ctx context.Context) ([]Station, error)
	Nearby(ctx context.Context, q NearbyQuery) ([]NearbyStation, error)
	Detail(ctx context.Context, id int64) (Detail, error)
	// CongestionAll forecasts every active station; a nil hour means the next hour.
	CongestionAll(ctx context.Context, targetHour *int) (ForecastSet, error)
	Congestion(ctx context.Context, id int64, targetHour *int) (Prediction, error)
	Utilization(ctx context.Context) ([]Utilization, error)
	CongestionLevels(ctx context.Context) (LevelCounts, error)
}

type service struct {
	cfg        Config
	repo       Repository
	baselines  baseline.Resolver
	thresholds loadfactor.Thresholds
	observer   TierObserver
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the station service. observer may be nil.
func NewService(cfg Config, thresholds loadfactor.Thresholds, repo Repository, baselines baseline.Resolver, observer TierObserver, logger *slog.Logger) Service {
	if thresholds == (loadfactor.Thresholds{}) {
		thresholds = loadfactor.DefaultThresholds()
	}
	return &service{
		cfg:        cfg.withDefaults(),
		repo:       repo,
		baselines:  baselines,
		thresholds: thresholds,
		observer:   observer,
		logger:     logger.With("component", "station.service"),
		now:        util.NowUTC,
	}
}

func (s *service) List(ctx context.Context) ([]Station, error) {
	return s.listActive(ctx)
}

func (s *service) Nearby(ctx context.Context, q NearbyQuery) ([]NearbyStation, error) {
	origin := geo.Point{Lat: q.Lat, Lng: q.Lng}
	if !origin.Valid() {
		return nil, apperrors.InvalidInput("latitude must be within [-90, 90] and longitude within [-180, 180]")
	}
	radius := s.cfg.DefaultRadiusKm
	if q.RadiusKm != nil {
		if *q.RadiusKm < 0 {
			return nil, apperrors.InvalidInput("radius must not be negative")
		}
		radius = *q.RadiusKm
	}

	stations, err := s.listActive(ctx)
	if err != nil {
		return nil, err
	}
	nearby := make([]NearbyStation, 0, len(stations))
	for _, st := range stations {
		d := geo.DistanceKm(origin, st.Point())
		if d <= radius {
			nearby = append(nearby, NearbyStation{Station: st, DistanceKm: d})
		}
	}
	slices.SortStableFunc(nearby, func(a, b NearbyStation) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})

	slot := util.SlotOf(s.now(), s.cfg.Location)
	ids := make([]int64, len(nearby))
	for i, n := range nearby {
		ids[i] = n.ID
	}
	resolved, err := s.resolveAll(ctx, ids, slot.Weekday, slot.Hour)
	if err != nil {
		return nil, err
	}
	for i := range nearby {
		nearby[i].Assessment = s.assess(nearby[i].BikesAvailable, resolved[i].Demand, loadfactor.Rider)
	}
	return nearby, nil
}

func (s *service) Detail(ctx context.Context, id int64) (Detail, error) {
	st, err := s.get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	now := s.now()
	slot := util.SlotOf(now, s.cfg.Location)

	var (
		res     baseline.Resolution
		profile []baseline.HourlyBaseline
		history []StatusPoint
		bikes   []DockedBike
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.baselines.Resolve(gctx, id, slot.Weekday, slot.Hour)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.baselines.Profile(gctx, id, slot.Weekday)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.repo.ListHistory(gctx, id, now.Add(-s.cfg.HistoryWindow))
		if err != nil {
			return apperrors.Unavailable("failed to load station history", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bikes, err = s.repo.ListDockedBikes(gctx, id)
		if err != nil {
			return apperrors.Unavailable("failed to load docked bikes", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}

	if history == nil {
		history = []StatusPoint{}
	}
	if len(bikes) > st.BikesAvailable {
		bikes = bikes[:st.BikesAvailable]
	}
	if bikes == nil {
		bikes = []DockedBike{}
	}
	assessment := s.assess(st.BikesAvailable, res.Demand, loadfactor.Rider)
	return Detail{
		Station: st,
		LatestStatus: StatusPoint{
			SnapshotAt:     now,
			BikesAvailable: st.BikesAvailable,
			DocksAvailable: st.DocksAvailable,
		},
		Baseline:     res,
		Assessment:   assessment,
		LoadFactor:   assessment.LoadFactor,
		History:      history,
		AllBaselines: profile,
		Bikes:        bikes,
	}, nil
}

func (s *service) CongestionAll(ctx context.Context, targetHour *int) (ForecastSet, error) {
	slot, err := s.targetSlot(targetHour)
	if err != nil {
		return ForecastSet{}, err
	}
	stations, err := s.listActive(ctx)
	if err != nil {
		return ForecastSet{}, err
	}
	ids := make([]int64, len(stations))
	for i, st := range stations {
		ids[i] = st.ID
	}
	resolved, err := s.resolveAll(ctx, ids, slot.Weekday, slot.Hour)
	if err != nil {
		return ForecastSet{}, err
	}

	forecasts := make([]Forecast, len(stations))
	for i, st := range stations {
		a := s.assess(st.BikesAvailable, resolved[i].Demand, loadfactor.Rider)
		forecasts[i] = Forecast{
			StationID:           st.ID,
			Name:                st.Name,
			AreaName:            st.AreaName,
			PredictedBikes:      st.BikesAvailable,
			PredictedLoadFactor: a.LoadFactor,
			Status:              a.Label,
			BaselineDemand:      a.BaselineDemand,
		}
	}
	return ForecastSet{TargetHour: slot.Hour, Predictions: forecasts}, nil
}

func (s *service) Congestion(ctx context.Context, id int64, targetHour *int) (Prediction, error) {
	slot, err := s.targetSlot(targetHour)
	if err != nil {
		return Prediction{}, err
	}
	res, err := s.baselines.Resolve(ctx, id, slot.Weekday, slot.Hour)
	if err != nil {
		return Prediction{}, err
	}

	out := Prediction{StationID: id, TargetHour: slot.Hour}
	// Only a recorded baseline for that exact hour is trusted for a forecast.
	// An unknown station has nothing to forecast either.
	if res.Source != baseline.SourceExact {
		out.Prediction = loadfactor.NoData
		return out, nil
	}
	st, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Prediction{}, apperrors.Unavailable("failed to load station", err)
	}
	if !ok {
		out.Prediction = loadfactor.NoData
		return out, nil
	}
	result := s.thresholds.Classify(st.BikesAvailable, res.Demand)
	demand, bikes, load := res.Demand, st.BikesAvailable, result.LoadFactor
	out.Baseline = &demand
	out.CurrentBikes = &bikes
	out.PredictedLoad = &load
	out.Prediction = loadfactor.Predict(result.Tier)
	return out, nil
}

func (s *service) Utilization(ctx context.Context) ([]Utilization, error) {
	stations, err := s.listActive(ctx)
	if err != nil {
		return nil, err
	}
	slot := util.SlotOf(s.now(), s.cfg.Location)
	ids := make([]int64, len(stations))
	for i, st := range stations {
		ids[i] = st.ID
	}
	resolved, err := s.resolveAll(ctx, ids, slot.Weekday, slot.Hour)
	if err != nil {
		return nil, err
	}

	rows := make([]Utilization, len(stations))
	tiers := make(map[string]int, 4)
	for i, st := range stations {
		row := Utilization{
			Station:    st,
			Assessment: s.assess(st.BikesAvailable, resolved[i].Demand, loadfactor.Operator),
		}
		if st.DocksTotal > 0 {
			rate := float64(st.BikesAvailable) / float64(st.DocksTotal)
			row.UtilizationRate = &rate
		}
		tiers[row.Tier.String()]++
		rows[i] = row
	}
	if s.observer != nil {
		s.observer.ObserveTiers(tiers)
	}
	return rows, nil
}

func (s *service) CongestionLevels(ctx context.Context) (LevelCounts, error) {
	stations, err := s.listActive(ctx)
	if err != nil {
		return LevelCounts{}, err
	}
	var counts LevelCounts
	for _, st := range stations {
		switch s.levelOf(st.BikesAvailable) {
		case LevelLow:
			counts.Low++
		case LevelMedium:
			counts.Medium++
		default:
			counts.High++
		}
	}
	return counts, nil
}

func (s *service) levelOf(bikes int) Level {
	switch {
	case bikes < s.cfg.LowLevel:
		return LevelLow
	case bikes < s.cfg.MediumLevel:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func (s *service) targetSlot(targetHour *int) (util.Slot, error) {
	slot := util.SlotOf(s.now(), s.cfg.Location)
	if targetHour == nil {
		slot.Hour = util.NextHour(slot.Hour)
		return slot, nil
	}
	if *targetHour < 0 || *targetHour > 23 {
		return util.Slot{}, apperrors.InvalidInput("targetHour must be between 0 and 23")
	}
	slot.Hour = *targetHour
	return slot, nil
}

// resolveAll looks up baselines for ids concurrently, preserving order.
func (s *service) resolveAll(ctx context.Context, ids []int64, weekday, hour int) ([]baseline.Resolution, error) {
	out := make([]baseline.Resolution, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ResolveConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			res, err := s.baselines.Resolve(gctx, id, weekday, hour)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("baseline resolution failed", "stations", len(ids), "error", err)
		return nil, err
	}
	return out, nil
}

func (s *service) assess(bikes int, demand float64, view func(loadfactor.Tier) loadfactor.Presentation) Assessment {
	result := s.thresholds.Classify(bikes, demand)
	p := view(result.Tier)
	return Assessment{
		BaselineDemand: demand,
		LoadFactor:     result.LoadFactor,
		Tier:           result.Tier,
		Label:          p.Label,
		Color:          p.Color,
	}
}

func (s *service) listActive(ctx context.Context) ([]Station, error) {
	stations, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load stations", err)
	}
	for i := range stations {
		stations[i].DocksAvailable = stations[i].DocksTotal - stations[i].BikesAvailable
	}
	if stations == nil {
		stations = []Station{}
	}
	return stations, nil
}

func (s *service) get(ctx context.Context, id int64) (Station, error) {
	st, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Station{}, apperrors.Unavailable("failed to load station", err)
	}
	if !ok {
		return Station{}, apperrors.NotFound("station not found")
	}
	st.DocksAvailable = st.DocksTotal - st.BikesAvailable
	return st, nil
}
