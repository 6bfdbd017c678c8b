package baseline

import "time"

// Config holds the fallback knobs for baseline resolution.
type Config struct {
	DefaultDemand  float64
	DefaultWeekday int
	DefaultHour    int
	CacheTTL       time.Duration
}

// DefaultConfig mirrors the values the admin dashboard was built against.
func DefaultConfig() Config {
	return Config{
		DefaultDemand:  10,
		DefaultWeekday: 1,
		DefaultHour:    8,
		CacheTTL:       10 * time.Minute,
	}
}
