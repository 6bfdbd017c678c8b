package baselinerepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
)

func TestNearestHourPrefersLowerHourOnTie(t *testing.T) {
	repo := NewMemoryRepository(1, 8)
	repo.Put(
		baseline.Entry{Key: baseline.Key{StationID: 1, Weekday: 3, Hour: 10}, Demand: 12},
		baseline.Entry{Key: baseline.Key{StationID: 1, Weekday: 3, Hour: 14}, Demand: 20},
		baseline.Entry{Key: baseline.Key{StationID: 1, Weekday: 4, Hour: 12}, Demand: 99},
	)

	demand, ok, err := repo.GetBaselineNearestHour(context.Background(), 1, 3, 12)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 12.0, demand)

	demand, ok, err = repo.GetBaselineNearestHour(context.Background(), 1, 3, 13)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20.0, demand)

	_, ok, err = repo.GetBaselineNearestHour(context.Background(), 1, 5, 13)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDefaultSlotAndListDay(t *testing.T) {
	repo := NewMemoryRepository(1, 8)
	repo.Put(
		baseline.Entry{Key: baseline.Key{StationID: 7, Weekday: 1, Hour: 9}, Demand: 6},
		baseline.Entry{Key: baseline.Key{StationID: 7, Weekday: 1, Hour: 8}, Demand: 5},
	)

	demand, ok, err := repo.GetDefaultBaseline(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5.0, demand)

	day, err := repo.ListDay(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, []baseline.HourlyBaseline{{Hour: 8, Demand: 5}, {Hour: 9, Demand: 6}}, day)
}
