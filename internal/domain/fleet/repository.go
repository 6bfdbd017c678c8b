package fleet

import (
	"context"

	"github.com/yanqian/bikeshare/internal/domain/station"
)

// Repository persists stations and bikes for the back office.
type Repository interface {
	// ListStations returns every station, active or not, ordered by id.
	ListStations(ctx context.Context) ([]station.Station, error)
	AreaExists(ctx context.Context, areaID int64) (bool, error)
	StationExists(ctx context.Context, stationID int64) (bool, error)
	CreateStation(ctx context.Context, in NewStation) (int64, error)
	// UpdateStation and SetStationActive report false when the station is missing.
	UpdateStation(ctx context.Context, id int64, upd StationUpdate) (bool, error)
	SetStationActive(ctx context.Context, id int64, active bool) (bool, error)

	ListBikes(ctx context.Context) ([]Bike, error)
	CreateBike(ctx context.Context, in NewBike) (int64, error)
	UpdateBike(ctx context.Context, id int64, upd BikeUpdate) (bool, error)
}
