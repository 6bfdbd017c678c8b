package loadfactor

// Thresholds are the band edges. A value equal to an edge belongs to the
// higher band on the low side and to HEALTHY on the upper edge.
type Thresholds struct {
	Deficient float64
	Normal    float64
	Healthy   float64
}

// DefaultThresholds returns the 0.5 / 0.8 / 1.2 band edges.
func DefaultThresholds() Thresholds {
	return Thresholds{Deficient: 0.5, Normal: 0.8, Healthy: 1.2}
}

// Result pairs a load factor with its tier.
type Result struct {
	LoadFactor float64
	Tier       Tier
}

// Ratio returns bikesAvailable / baseline, or 0 when baseline is not positive.
func Ratio(bikesAvailable int, baseline float64) float64 {
	if baseline <= 0 {
		return 0
	}
	return float64(bikesAvailable) / baseline
}

// Classify computes the load factor and its tier.
func (th Thresholds) Classify(bikesAvailable int, baseline float64) Result {
	lf := Ratio(bikesAvailable, baseline)
	return Result{LoadFactor: lf, Tier: th.TierOf(lf)}
}

// TierOf places a load factor into a band.
func (th Thresholds) TierOf(loadFactor float64) Tier {
	switch {
	case loadFactor < th.Deficient:
		return TierDeficient
	case loadFactor < th.Normal:
		return TierNormal
	case loadFactor <= th.Healthy:
		return TierHealthy
	default:
		return TierSurplus
	}
}

// Classify uses the default thresholds.
func Classify(bikesAvailable int, baseline float64) Result {
	return DefaultThresholds().Classify(bikesAvailable, baseline)
}
