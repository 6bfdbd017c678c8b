package rebalancing

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func station(id int64, name string, docks int, bikes *int) Snapshot {
	return Snapshot{StationID: id, Name: name, DocksTotal: docks, BikesAvailable: bikes}
}

func stationIDs(cs []Candidate) []int64 {
	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.StationID)
	}
	return ids
}

func TestPlanDeficientMatchedToSurplus(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	plan := engine.Plan([]Snapshot{
		station(2, "B", 20, Bikes(18)),
		station(1, "A", 20, Bikes(1)),
		station(3, "C", 10, Bikes(5)),
	})

	require.Equal(t, []int64{1}, stationIDs(plan.NeedsBikes))
	require.Equal(t, []int64{2}, stationIDs(plan.HasExcess))
	want := []Suggestion{{
		FromStationID:   2,
		FromStationName: "B",
		ToStationID:     1,
		ToStationName:   "A",
		Bikes:           4,
	}}
	if diff := cmp.Diff(want, plan.Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}

	b := plan.HasExcess[0]
	require.NotNil(t, b.UtilizationRatio)
	require.InDelta(t, 0.9, *b.UtilizationRatio, 1e-9)
	require.Equal(t, 2, *b.DocksAvailable)
}

func TestPlanMiddleStationInNeitherList(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{station(3, "C", 10, Bikes(5))})
	require.Empty(t, plan.NeedsBikes)
	require.Empty(t, plan.HasExcess)
	require.Empty(t, plan.Suggestions)
}

func TestPlanNoSourceCanSpareBikes(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{
		station(1, "A", 20, Bikes(0)),
		station(2, "E", 5, Bikes(5)),
	})
	require.Len(t, plan.NeedsBikes, 1)
	require.Equal(t, []int64{2}, stationIDs(plan.HasExcess))
	require.Empty(t, plan.Suggestions)
	require.NotNil(t, plan.Suggestions)
}

func TestPlanUnknownCountsSortFirstAndNeverExcess(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{
		station(1, "A", 20, Bikes(2)),
		station(2, "unknown", 20, nil),
		station(3, "B", 10, Bikes(10)),
	})
	require.Equal(t, []int64{2, 1}, stationIDs(plan.NeedsBikes))
	require.Equal(t, []int64{3}, stationIDs(plan.HasExcess))
	require.Nil(t, plan.NeedsBikes[0].UtilizationRatio)
	require.Nil(t, plan.NeedsBikes[0].DocksAvailable)

	want := []Suggestion{
		{FromStationID: 3, FromStationName: "B", ToStationID: 2, ToStationName: "unknown", Bikes: 3},
		{FromStationID: 3, FromStationName: "B", ToStationID: 1, ToStationName: "A", Bikes: 3},
	}
	if diff := cmp.Diff(want, plan.Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanZeroCapacityExcludedFromExcess(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{station(1, "ghost", 0, Bikes(12))})
	require.Empty(t, plan.HasExcess)
	require.Empty(t, plan.NeedsBikes)
	require.Empty(t, plan.Suggestions)
}

// A single surplus station is offered to every deficient station without
// reducing its count, so the suggested total may exceed what it can spare.
func TestPlanReusesSurplusAcrossSuggestions(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{
		station(1, "A", 20, Bikes(1)),
		station(2, "B", 20, Bikes(18)),
		station(4, "D", 20, Bikes(0)),
		station(5, "F", 20, Bikes(2)),
	})
	require.Len(t, plan.Suggestions, 3)
	total := 0
	for _, s := range plan.Suggestions {
		require.Equal(t, int64(2), s.FromStationID)
		total += s.Bikes
	}
	spare := (18 - 3) / 2
	require.Greater(t, total, spare)
	require.Equal(t, []int64{4, 1, 5}, []int64{
		plan.Suggestions[0].ToStationID,
		plan.Suggestions[1].ToStationID,
		plan.Suggestions[2].ToStationID,
	})
}

func TestPlanFirstFitUsesListOrder(t *testing.T) {
	plan := NewEngine(DefaultConfig()).Plan([]Snapshot{
		station(1, "A", 20, Bikes(0)),
		station(2, "small", 5, Bikes(5)),
		station(3, "mid", 10, Bikes(9)),
		station(4, "big", 20, Bikes(19)),
	})
	require.Equal(t, []int64{2, 3, 4}, stationIDs(plan.HasExcess))
	require.Len(t, plan.Suggestions, 1)
	require.Equal(t, int64(3), plan.Suggestions[0].FromStationID)
	require.Equal(t, 3, plan.Suggestions[0].Bikes)
}

func TestPlanCapsProcessedNeedStations(t *testing.T) {
	snaps := []Snapshot{station(100, "hub", 40, Bikes(39))}
	for i := int64(1); i <= 15; i++ {
		snaps = append(snaps, station(i, "need", 20, Bikes(int(i%3))))
	}
	plan := NewEngine(DefaultConfig()).Plan(snaps)
	require.Len(t, plan.NeedsBikes, 15)
	require.Len(t, plan.Suggestions, 10)
}

func TestPlanHonoursInjectedThresholds(t *testing.T) {
	cfg := Config{LowThreshold: 5, HighThreshold: 0.5, MaxNeedStations: 1}
	plan := NewEngine(cfg).Plan([]Snapshot{
		station(1, "A", 20, Bikes(4)),
		station(2, "B", 20, Bikes(3)),
		station(3, "C", 20, Bikes(12)),
	})
	require.Equal(t, []int64{2, 1}, stationIDs(plan.NeedsBikes))
	require.Equal(t, []int64{3}, stationIDs(plan.HasExcess))
	require.Equal(t, []Suggestion{{
		FromStationID:   3,
		FromStationName: "C",
		ToStationID:     2,
		ToStationName:   "B",
		Bikes:           3,
	}}, plan.Suggestions)
}

func TestNewEngineFillsDefaults(t *testing.T) {
	require.Equal(t, DefaultConfig(), NewEngine(Config{}).Config())
}

func TestNewEngineKeepsExplicitZeroThreshold(t *testing.T) {
	cfg := Config{LowThreshold: 0, HighThreshold: 0.8, MaxNeedStations: 10}
	engine := NewEngine(cfg)
	require.Equal(t, cfg, engine.Config())

	plan := engine.Plan([]Snapshot{
		station(1, "A", 20, Bikes(1)),
		station(2, "B", 20, Bikes(0)),
	})
	require.Equal(t, []int64{}, stationIDs(plan.NeedsBikes))
}

func TestPlanInvariantsOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := NewEngine(DefaultConfig())
	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		snaps := make([]Snapshot, 0, n)
		for i := 0; i < n; i++ {
			docks := rng.Intn(25)
			var bikes *int
			if rng.Intn(8) > 0 {
				bikes = Bikes(rng.Intn(docks + 1))
			}
			snaps = append(snaps, station(int64(i+1), "s", docks, bikes))
		}

		plan := engine.Plan(snaps)

		needs := make(map[int64]bool, len(plan.NeedsBikes))
		for _, c := range plan.NeedsBikes {
			needs[c.StationID] = true
		}
		for _, c := range plan.HasExcess {
			require.False(t, needs[c.StationID], "station %d in both lists", c.StationID)
		}
		require.LessOrEqual(t, len(plan.Suggestions), min(10, len(plan.NeedsBikes)))
		for _, s := range plan.Suggestions {
			require.Positive(t, s.Bikes)
		}

		again := engine.Plan(snaps)
		if diff := cmp.Diff(plan, again); diff != "" {
			t.Fatalf("plan not deterministic (-first +second):\n%s", diff)
		}
	}
}
