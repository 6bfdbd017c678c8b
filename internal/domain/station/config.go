package station

import "time"

// Config controls the station queries.
type Config struct {
	DefaultRadiusKm float64
	HistoryWindow   time.Duration
	// Location is the zone used to derive the current weekday and hour.
	Location *time.Location
	// ResolveConcurrency bounds concurrent baseline lookups per request.
	ResolveConcurrency int
	// LowLevel and MediumLevel are the bike-count edges of the admin levels.
	LowLevel    int
	MediumLevel int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultRadiusKm:    1,
		HistoryWindow:      7 * 24 * time.Hour,
		Location:           time.UTC,
		ResolveConcurrency: 8,
		LowLevel:           3,
		MediumLevel:        10,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.DefaultRadiusKm <= 0 {
		c.DefaultRadiusKm = def.DefaultRadiusKm
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = def.HistoryWindow
	}
	if c.Location == nil {
		c.Location = def.Location
	}
	if c.ResolveConcurrency <= 0 {
		c.ResolveConcurrency = def.ResolveConcurrency
	}
	if c.LowLevel <= 0 {
		c.LowLevel = def.LowLevel
	}
	if c.MediumLevel <= c.LowLevel {
		c.MediumLevel = max(def.MediumLevel, c.LowLevel+1)
	}
	return c
}
