package baseline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
	"github.com/yanqian/bikeshare/internal/infra/baselinecache"
	"github.com/yanqian/bikeshare/internal/infra/baselinerepo"
	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

func TestResolveFallbackChain(t *testing.T) {
	repo := baselinerepo.NewMemoryRepository(1, 8)
	repo.Put(
		entry(1, 2, 9, 14),  // exact for station 1
		entry(2, 2, 6, 11),  // nearest-hour candidate for station 2
		entry(2, 2, 20, 30), // farther hour on the same day
		entry(3, 1, 8, 4.5), // default slot only for station 3
	)
	resolver := baseline.NewResolver(baseline.DefaultConfig(), repo, nil, nil, newTestLogger())

	tests := []struct {
		name      string
		stationID int64
		want      baseline.Resolution
	}{
		{"exact", 1, baseline.Resolution{Demand: 14, Source: baseline.SourceExact}},
		{"nearest hour", 2, baseline.Resolution{Demand: 11, Source: baseline.SourceNearestHour}},
		{"default slot", 3, baseline.Resolution{Demand: 4.5, Source: baseline.SourceDefaultSlot}},
		{"unknown station", 404, baseline.Resolution{Demand: 10, Source: baseline.SourceFallback}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tc.stationID, 2, 9)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResolveAlwaysPositive(t *testing.T) {
	repo := baselinerepo.NewMemoryRepository(1, 8)
	repo.Put(entry(5, 0, 0, 0))
	resolver := baseline.NewResolver(baseline.Config{}, repo, nil, nil, newTestLogger())

	for weekday := 0; weekday < 7; weekday++ {
		for hour := 0; hour < 24; hour++ {
			got, err := resolver.Resolve(context.Background(), 5, weekday, hour)
			require.NoError(t, err)
			require.Greater(t, got.Demand, 0.0)
		}
	}
}

func TestResolveHonoursConfiguredFallback(t *testing.T) {
	cfg := baseline.DefaultConfig()
	cfg.DefaultDemand = 3
	resolver := baseline.NewResolver(cfg, baselinerepo.NewMemoryRepository(1, 8), nil, nil, newTestLogger())

	got, err := resolver.Resolve(context.Background(), 1, 4, 4)
	require.NoError(t, err)
	require.Equal(t, baseline.Resolution{Demand: 3, Source: baseline.SourceFallback}, got)
}

func TestResolveRejectsOutOfRangeSlot(t *testing.T) {
	resolver := baseline.NewResolver(baseline.DefaultConfig(), baselinerepo.NewMemoryRepository(1, 8), nil, nil, newTestLogger())

	_, err := resolver.Resolve(context.Background(), 1, 7, 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = resolver.Resolve(context.Background(), 1, 0, 24)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := baseline.NewResolver(baseline.DefaultConfig(), failingRepo{err: boom}, nil, nil, newTestLogger())

	_, err := resolver.Resolve(context.Background(), 1, 1, 8)
	require.ErrorIs(t, err, boom)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataUnavailable))
}

func TestResolveUsesCache(t *testing.T) {
	repo := baselinerepo.NewMemoryRepository(1, 8)
	repo.Put(entry(1, 3, 7, 8))
	cache := baselinecache.NewMemoryCache()
	observer := &countingObserver{}
	resolver := baseline.NewResolver(baseline.DefaultConfig(), repo, cache, observer, newTestLogger())

	first, err := resolver.Resolve(context.Background(), 1, 3, 7)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	// A changed row is not visible until the cached entry expires.
	repo.Put(entry(1, 3, 7, 99))
	second, err := resolver.Resolve(context.Background(), 1, 3, 7)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, map[string]int{"exact": 1}, observer.counts)
}

func TestProfileFillsMissingHours(t *testing.T) {
	repo := baselinerepo.NewMemoryRepository(1, 8)
	repo.Put(entry(1, 5, 0, 2), entry(1, 5, 18, 25))
	resolver := baseline.NewResolver(baseline.DefaultConfig(), repo, nil, nil, newTestLogger())

	profile, err := resolver.Profile(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, profile, 24)
	require.Equal(t, baseline.HourlyBaseline{Hour: 0, Demand: 2}, profile[0])
	require.Equal(t, baseline.HourlyBaseline{Hour: 1, Demand: 10}, profile[1])
	require.Equal(t, baseline.HourlyBaseline{Hour: 18, Demand: 25}, profile[18])
}

func entry(stationID int64, weekday, hour int, demand float64) baseline.Entry {
	return baseline.Entry{Key: baseline.Key{StationID: stationID, Weekday: weekday, Hour: hour}, Demand: demand}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingObserver struct {
	counts map[string]int
}

func (o *countingObserver) ObserveBaseline(source string) {
	if o.counts == nil {
		o.counts = make(map[string]int)
	}
	o.counts[source]++
}

type failingRepo struct {
	err error
}

func (f failingRepo) GetBaseline(context.Context, int64, int, int) (float64, bool, error) {
	return 0, false, f.err
}

func (f failingRepo) GetBaselineNearestHour(context.Context, int64, int, int) (float64, bool, error) {
	return 0, false, f.err
}

func (f failingRepo) GetDefaultBaseline(context.Context, int64) (float64, bool, error) {
	return 0, false, f.err
}

func (f failingRepo) ListDay(context.Context, int64, int) ([]baseline.HourlyBaseline, error) {
	return nil, f.err
}
