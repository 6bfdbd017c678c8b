package fleet

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanqian/bikeshare/internal/domain/station"
	apperrors "github.com/yanqian/bikeshare/pkg/errors"
	"github.com/yanqian/bikeshare/pkg/validation"
)

// Service manages stations and bikes on behalf of administrators.
type Service interface {
	ListStations(ctx context.Context) ([]station.Station, error)
	CreateStation(ctx context.Context, in NewStation) (int64, error)
	UpdateStation(ctx context.Context, id int64, upd StationUpdate) error
	SetStationActive(ctx context.Context, id int64, active bool) error
	ListBikes(ctx context.Context) ([]Bike, error)
	CreateBike(ctx context.Context, in NewBike) (int64, error)
	UpdateBike(ctx context.Context, id int64, upd BikeUpdate) error
}

type service struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService constructs the fleet service.
func NewService(repo Repository, validate *validator.Validate, logger *slog.Logger) Service {
	if validate == nil {
		validate = validation.New()
	}
	return &service{
		repo:     repo,
		validate: validate,
		logger:   logger.With("component", "fleet.service"),
	}
}

func (s *service) ListStations(ctx context.Context) ([]station.Station, error) {
	stations, err := s.repo.ListStations(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list stations", err)
	}
	for i := range stations {
		stations[i].DocksAvailable = stations[i].DocksTotal - stations[i].BikesAvailable
	}
	if stations == nil {
		stations = []station.Station{}
	}
	return stations, nil
}

func (s *service) CreateStation(ctx context.Context, in NewStation) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return 0, err
	}
	ok, err := s.repo.AreaExists(ctx, in.AreaID)
	if err != nil {
		return 0, apperrors.Unavailable("failed to look up area", err)
	}
	if !ok {
		return 0, apperrors.NotFound("area not found")
	}
	id, err := s.repo.CreateStation(ctx, in)
	if err != nil {
		return 0, apperrors.Unavailable("failed to create station", err)
	}
	s.logger.Info("station created", "station_id", id, "area_id", in.AreaID)
	return id, nil
}

func (s *service) UpdateStation(ctx context.Context, id int64, upd StationUpdate) error {
	upd.Name = strings.TrimSpace(upd.Name)
	if err := s.check(upd); err != nil {
		return err
	}
	ok, err := s.repo.UpdateStation(ctx, id, upd)
	if err != nil {
		return apperrors.Unavailable("failed to update station", err)
	}
	if !ok {
		return apperrors.NotFound("station not found")
	}
	return nil
}

func (s *service) SetStationActive(ctx context.Context, id int64, active bool) error {
	ok, err := s.repo.SetStationActive(ctx, id, active)
	if err != nil {
		return apperrors.Unavailable("failed to update station status", err)
	}
	if !ok {
		return apperrors.NotFound("station not found")
	}
	s.logger.Info("station status changed", "station_id", id, "active", active)
	return nil
}

func (s *service) ListBikes(ctx context.Context) ([]Bike, error) {
	bikes, err := s.repo.ListBikes(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list bikes", err)
	}
	if bikes == nil {
		bikes = []Bike{}
	}
	return bikes, nil
}

func (s *service) CreateBike(ctx context.Context, in NewBike) (int64, error) {
	if in.Status == "" {
		in.Status = BikeAvailable
	}
	if err := s.check(in); err != nil {
		return 0, err
	}
	if err := s.requireStation(ctx, in.StationID); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateBike(ctx, in)
	if err != nil {
		return 0, apperrors.Unavailable("failed to create bike", err)
	}
	return id, nil
}

func (s *service) UpdateBike(ctx context.Context, id int64, upd BikeUpdate) error {
	if err := s.check(upd); err != nil {
		return err
	}
	if err := s.requireStation(ctx, upd.StationID); err != nil {
		return err
	}
	ok, err := s.repo.UpdateBike(ctx, id, upd)
	if err != nil {
		return apperrors.Unavailable("failed to update bike", err)
	}
	if !ok {
		return apperrors.NotFound("bike not found")
	}
	return nil
}

func (s *service) requireStation(ctx context.Context, stationID *int64) error {
	if stationID == nil {
		return nil
	}
	ok, err := s.repo.StationExists(ctx, *stationID)
	if err != nil {
		return apperrors.Unavailable("failed to look up station", err)
	}
	if !ok {
		return apperrors.NotFound("station not found")
	}
	return nil
}

func (s *service) check(v any) error {
	return validation.Check(s.validate, v)
}
