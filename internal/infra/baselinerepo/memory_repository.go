package baselinerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
)

// MemoryRepository is an in-memory baseline.Repository used for tests/dev.
type MemoryRepository struct {
	mu             sync.RWMutex
	entries        map[baseline.Key]float64
	defaultWeekday int
	defaultHour    int
}

// NewMemoryRepository constructs a repo whose default slot is (weekday, hour).
func NewMemoryRepository(defaultWeekday, defaultHour int) *MemoryRepository {
	return &MemoryRepository{
		entries:        make(map[baseline.Key]float64),
		defaultWeekday: defaultWeekday,
		defaultHour:    defaultHour,
	}
}

// Put stores or replaces a baseline entry.
func (r *MemoryRepository) Put(entries ...baseline.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.Key] = e.Demand
	}
}

// GetBaseline implements baseline.Repository.
func (r *MemoryRepository) GetBaseline(_ context.Context, stationID int64, weekday, hour int) (float64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	demand, ok := r.entries[baseline.Key{StationID: stationID, Weekday: weekday, Hour: hour}]
	return demand, ok, nil
}

// GetBaselineNearestHour implements baseline.Repository.
func (r *MemoryRepository) GetBaselineNearestHour(_ context.Context, stationID int64, weekday, hour int) (float64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best     float64
		bestHour = -1
		found    bool
	)
	for key, demand := range r.entries {
		if key.StationID != stationID || key.Weekday != weekday {
			continue
		}
		if !found || closer(key.Hour, bestHour, hour) {
			best, bestHour, found = demand, key.Hour, true
		}
	}
	return best, found, nil
}

// GetDefaultBaseline implements baseline.Repository.
func (r *MemoryRepository) GetDefaultBaseline(ctx context.Context, stationID int64) (float64, bool, error) {
	return r.GetBaseline(ctx, stationID, r.defaultWeekday, r.defaultHour)
}

// ListDay implements baseline.Repository.
func (r *MemoryRepository) ListDay(_ context.Context, stationID int64, weekday int) ([]baseline.HourlyBaseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]baseline.HourlyBaseline, 0, 24)
	for key, demand := range r.entries {
		if key.StationID == stationID && key.Weekday == weekday {
			out = append(out, baseline.HourlyBaseline{Hour: key.Hour, Demand: demand})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// closer reports whether candidate is nearer to target than current,
// breaking ties toward the lower hour.
func closer(candidate, current, target int) bool {
	dc, dr := abs(candidate-target), abs(current-target)
	if dc != dr {
		return dc < dr
	}
	return candidate < current
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ baseline.Repository = (*MemoryRepository)(nil)
