package rebalancing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

type stubSource struct {
	listFn func(ctx context.Context) ([]Snapshot, error)
}

func (s stubSource) ListActiveSnapshots(ctx context.Context) ([]Snapshot, error) {
	return s.listFn(ctx)
}

type recordingObserver struct {
	needs, excess, suggestions int
	calls                      int
}

func (r *recordingObserver) ObservePlan(needs, excess, suggestions int) {
	r.calls++
	r.needs, r.excess, r.suggestions = needs, excess, suggestions
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServicePlanReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(DefaultConfig(), stubSource{listFn: func(context.Context) ([]Snapshot, error) {
		return []Snapshot{
			station(1, "A", 20, Bikes(1)),
			station(2, "B", 20, Bikes(18)),
		}, nil
	}}, obs, newTestLogger())

	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, plan.Suggestions, 1)
	require.Equal(t, 1, obs.calls)
	require.Equal(t, 1, obs.needs)
	require.Equal(t, 1, obs.excess)
	require.Equal(t, 1, obs.suggestions)
}

func TestServicePlanPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(DefaultConfig(), stubSource{listFn: func(context.Context) ([]Snapshot, error) {
		return nil, boom
	}}, nil, newTestLogger())

	_, err := svc.Plan(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataUnavailable))
	require.ErrorIs(t, err, boom)
}
