package station

import (
	"time"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/domain/loadfactor"
	"github.com/yanqian/bikeshare/pkg/geo"
)

// Station is the read model shared by the public and admin views.
// BikesAvailable counts AVAILABLE and FAULT bikes docked at the station.
type Station struct {
	ID             int64   `json:"station_id"`
	AreaID         int64   `json:"area_id"`
	AreaName       string  `json:"area_name"`
	Name           string  `json:"station_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DocksTotal     int     `json:"docks_total"`
	IsActive       bool    `json:"is_active"`
	BikesAvailable int     `json:"bikes_available"`
	DocksAvailable int     `json:"docks_available"`
}

// Point returns the station coordinate.
func (s Station) Point() geo.Point {
	return geo.Point{Lat: s.Latitude, Lng: s.Longitude}
}

// Assessment is a load-factor classification rendered for one audience.
type Assessment struct {
	BaselineDemand float64          `json:"baseline_demand"`
	LoadFactor     float64          `json:"load_factor"`
	Tier           loadfactor.Tier  `json:"tier"`
	Label          string           `json:"label"`
	Color          loadfactor.Color `json:"color"`
}

// NearbyStation is a station within the search radius.
type NearbyStation struct {
	Station
	Assessment
	DistanceKm float64 `json:"distance"`
}

// NearbyQuery describes a radius search. A nil radius uses the configured default.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm *float64
}

// StatusPoint is one availability observation.
type StatusPoint struct {
	SnapshotAt     time.Time `json:"snapshot_ts"`
	BikesAvailable int       `json:"bikes_available"`
	DocksAvailable int       `json:"docks_available"`
}

// DockedBike is a rentable or faulty bike parked at a station.
type DockedBike struct {
	ID          int64      `json:"bike_id"`
	Status      string     `json:"status"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

// Detail is the full station page payload.
type Detail struct {
	Station      Station                   `json:"station"`
	LatestStatus StatusPoint               `json:"latestStatus"`
	Baseline     baseline.Resolution       `json:"baseline"`
	Assessment   Assessment                `json:"assessment"`
	LoadFactor   float64                   `json:"loadFactor"`
	History      []StatusPoint             `json:"history"`
	AllBaselines []baseline.HourlyBaseline `json:"allBaselines"`
	Bikes        []DockedBike              `json:"bikes"`
}

// Forecast is the next-hour outlook for one station.
type Forecast struct {
	StationID           int64   `json:"station_id"`
	Name                string  `json:"station_name"`
	AreaName            string  `json:"area_name"`
	PredictedBikes      int     `json:"predicted_bikes_available"`
	PredictedLoadFactor float64 `json:"predicted_load_factor"`
	Status              string  `json:"load_factor_status"`
	BaselineDemand      float64 `json:"baseline_demand"`
}

// ForecastSet is the forecast for every active station at one hour.
type ForecastSet struct {
	TargetHour  int        `json:"targetHour"`
	Predictions []Forecast `json:"predictions"`
}

// Prediction is the single-station outlook. Baseline fields are omitted when
// no baseline was recorded for the target hour.
type Prediction struct {
	StationID     int64    `json:"stationId"`
	TargetHour    int      `json:"targetHour"`
	Baseline      *float64 `json:"baseline,omitempty"`
	CurrentBikes  *int     `json:"currentBikesAvailable,omitempty"`
	PredictedLoad *float64 `json:"predictedLoad,omitempty"`
	loadfactor.Prediction
}

// Utilization is the admin view of one active station.
type Utilization struct {
	Station
	Assessment
	UtilizationRate *float64 `json:"utilization_rate"`
}

// Level buckets a station by absolute bike count.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// LevelCounts is the number of active stations per level.
type LevelCounts struct {
	Low    int `json:"LOW"`
	Medium int `json:"MEDIUM"`
	High   int `json:"HIGH"`
}
