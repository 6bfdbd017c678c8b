package station

import (
	"context"
	"time"
)

// Repository reads station state. Bike counts are derived from the bike table.
type Repository interface {
	// ListActive returns active stations ordered by id.
	ListActive(ctx context.Context) ([]Station, error)
	GetByID(ctx context.Context, id int64) (Station, bool, error)
	ListHistory(ctx context.Context, id int64, since time.Time) ([]StatusPoint, error)
	ListDockedBikes(ctx context.Context, id int64) ([]DockedBike, error)
}

// TierObserver receives per-tier station counts after a utilization scan.
type TierObserver interface {
	ObserveTiers(counts map[string]int)
}
