package baseline

// Source identifies which resolution tier produced a baseline.
type Source string

const (
	// SourceExact matched (station, weekday, hour) directly.
	SourceExact Source = "exact"
	// SourceNearestHour used the closest hour on the same weekday.
	SourceNearestHour Source = "nearest_hour"
	// SourceDefaultSlot used the station's default slot (Monday 08:00).
	SourceDefaultSlot Source = "default_slot"
	// SourceFallback used the configured constant.
	SourceFallback Source = "fallback"
)

// Key addresses one baseline entry.
type Key struct {
	StationID int64
	Weekday   int
	Hour      int
}

// Resolution is the outcome of resolving a baseline. Demand is always positive.
type Resolution struct {
	Demand float64 `json:"baseline_demand"`
	Source Source  `json:"baseline_source"`
}

// HourlyBaseline is a single hour of a station's weekday profile.
type HourlyBaseline struct {
	Hour   int     `json:"hour"`
	Demand float64 `json:"baseline_demand"`
}

// Entry is a stored baseline row.
type Entry struct {
	Key
	Demand float64
}
