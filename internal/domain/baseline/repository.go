package baseline

import (
	"context"
	"time"
)

// Repository reads the offline-computed baseline table. Absence is reported
// through the bool result, never as an error.
type Repository interface {
	GetBaseline(ctx context.Context, stationID int64, weekday, hour int) (float64, bool, error)
	// GetBaselineNearestHour picks the closest hour on the same weekday,
	// preferring the lower hour on ties.
	GetBaselineNearestHour(ctx context.Context, stationID int64, weekday, hour int) (float64, bool, error)
	// GetDefaultBaseline reads the station's default slot.
	GetDefaultBaseline(ctx context.Context, stationID int64) (float64, bool, error)
	ListDay(ctx context.Context, stationID int64, weekday int) ([]HourlyBaseline, error)
}

// Cache stores resolved baselines. Implementations may expire entries.
type Cache interface {
	Get(ctx context.Context, key Key) (Resolution, bool, error)
	Set(ctx context.Context, key Key, res Resolution, ttl time.Duration) error
}

// Observer is notified of each resolution.
type Observer interface {
	ObserveBaseline(source string)
}
