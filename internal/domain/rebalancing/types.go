package rebalancing

import "context"

// Snapshot is the current state of one active station. BikesAvailable is nil
// when no observation exists.
type Snapshot struct {
	StationID      int64  `json:"station_id"`
	Name           string `json:"station_name"`
	DocksTotal     int    `json:"docks_total"`
	BikesAvailable *int   `json:"bikes_available"`
}

// Candidate is a snapshot annotated with derived availability figures.
type Candidate struct {
	Snapshot
	DocksAvailable   *int     `json:"docks_available"`
	UtilizationRatio *float64 `json:"utilization_ratio"`
}

// Suggestion proposes moving bikes from a surplus station to a deficient one.
type Suggestion struct {
	FromStationID   int64  `json:"from_station_id"`
	FromStationName string `json:"from_station_name"`
	ToStationID     int64  `json:"to_station_id"`
	ToStationName   string `json:"to_station_name"`
	Bikes           int    `json:"suggested_bikes"`
}

// Plan is the full rebalancing output.
type Plan struct {
	NeedsBikes  []Candidate  `json:"needsBikes"`
	HasExcess   []Candidate  `json:"hasExcess"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SnapshotSource lists active stations with their current bike counts.
type SnapshotSource interface {
	ListActiveSnapshots(ctx context.Context) ([]Snapshot, error)
}

// Observer receives the shape of each computed plan.
type Observer interface {
	ObservePlan(needs, excess, suggestions int)
}

// Bikes is a helper for building snapshots with a known count.
func Bikes(n int) *int {
	return &n
}
