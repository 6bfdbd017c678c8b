package rebalancing

import (
	"slices"
)

// Engine computes rebalancing plans. It holds no state beyond its config.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine. Only the zero Config is replaced by the
// defaults; any other value is used as given.
func NewEngine(cfg Config) Engine {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return Engine{cfg: cfg}
}

// Config returns the effective thresholds.
func (e Engine) Config() Config {
	return e.cfg
}

// Plan splits the stations into deficient and surplus lists and matches them
// greedily. Each deficient station takes the first surplus station that can
// spare bikes; surplus counts are not decremented between matches, so one
// source may appear in several suggestions.
func (e Engine) Plan(snapshots []Snapshot) Plan {
	ordered := make([]Candidate, 0, len(snapshots))
	for _, s := range snapshots {
		ordered = append(ordered, annotate(s))
	}
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		return compareBikes(a.BikesAvailable, b.BikesAvailable)
	})

	plan := Plan{
		NeedsBikes:  []Candidate{},
		HasExcess:   []Candidate{},
		Suggestions: []Suggestion{},
	}
	for _, c := range ordered {
		if e.needsBikes(c) {
			plan.NeedsBikes = append(plan.NeedsBikes, c)
		}
		if e.hasExcess(c) {
			plan.HasExcess = append(plan.HasExcess, c)
		}
	}

	low := e.cfg.LowThreshold
	for i, need := range plan.NeedsBikes {
		if i >= e.cfg.MaxNeedStations {
			break
		}
		idx := slices.IndexFunc(plan.HasExcess, func(c Candidate) bool {
			return bikesOf(c) > low+2
		})
		if idx < 0 {
			continue
		}
		excess := plan.HasExcess[idx]
		amount := min(ceilHalf(low+5-bikesOf(need)), (bikesOf(excess)-low)/2)
		if amount <= 0 {
			continue
		}
		plan.Suggestions = append(plan.Suggestions, Suggestion{
			FromStationID:   excess.StationID,
			FromStationName: excess.Name,
			ToStationID:     need.StationID,
			ToStationName:   need.Name,
			Bikes:           amount,
		})
	}
	return plan
}

func (e Engine) needsBikes(c Candidate) bool {
	return c.BikesAvailable == nil || *c.BikesAvailable < e.cfg.LowThreshold
}

func (e Engine) hasExcess(c Candidate) bool {
	if c.BikesAvailable == nil || c.UtilizationRatio == nil {
		return false
	}
	return *c.UtilizationRatio > e.cfg.HighThreshold && *c.BikesAvailable > e.cfg.LowThreshold
}

func annotate(s Snapshot) Candidate {
	c := Candidate{Snapshot: s}
	if s.BikesAvailable == nil {
		return c
	}
	bikes := *s.BikesAvailable
	docks := s.DocksTotal - bikes
	c.DocksAvailable = &docks
	if s.DocksTotal > 0 {
		ratio := float64(bikes) / float64(s.DocksTotal)
		c.UtilizationRatio = &ratio
	}
	return c
}

// compareBikes orders unknown counts before any known count.
func compareBikes(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return *a - *b
	}
}

// bikesOf treats an unknown count as zero.
func bikesOf(c Candidate) int {
	if c.BikesAvailable == nil {
		return 0
	}
	return *c.BikesAvailable
}

func ceilHalf(n int) int {
	if n <= 0 {
		return n / 2
	}
	return (n + 1) / 2
}
