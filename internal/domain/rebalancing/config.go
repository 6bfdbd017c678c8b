package rebalancing

// Config holds the rebalancing thresholds.
type Config struct {
	// LowThreshold is the bike count below which a station needs bikes.
	LowThreshold int
	// HighThreshold is the bikes/docks ratio above which a station has excess.
	HighThreshold float64
	// MaxNeedStations caps how many deficient stations are matched per plan;
	// zero or less matches none.
	MaxNeedStations int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		LowThreshold:    3,
		HighThreshold:   0.8,
		MaxNeedStations: 10,
	}
}
