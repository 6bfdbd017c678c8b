package loadfactor

// Tier is a congestion band ordered by ascending load factor.
type Tier int

const (
	TierDeficient Tier = iota
	TierNormal
	TierHealthy
	TierSurplus
)

var tierNames = [...]string{"DEFICIENT", "NORMAL", "HEALTHY", "SURPLUS"}

// String returns the enum name used in logs and metrics.
func (t Tier) String() string {
	if t < TierDeficient || t > TierSurplus {
		return "UNKNOWN"
	}
	return tierNames[t]
}

// MarshalText renders the enum name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Color is a dashboard marker color.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
)

// Presentation is a label and color for one tier in one audience.
type Presentation struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// Rider labels a tier for the public map. Surplus reads as plenty of bikes.
func Rider(t Tier) Presentation {
	switch t {
	case TierDeficient:
		return Presentation{Label: "부족", Color: ColorRed}
	case TierNormal:
		return Presentation{Label: "보통", Color: ColorOrange}
	case TierHealthy:
		return Presentation{Label: "양호", Color: ColorGreen}
	default:
		return Presentation{Label: "여유", Color: ColorBlue}
	}
}

// Operator labels a tier for the admin dashboard, where both tails need attention.
func Operator(t Tier) Presentation {
	switch t {
	case TierDeficient:
		return Presentation{Label: "부족", Color: ColorRed}
	case TierNormal:
		return Presentation{Label: "보통", Color: ColorOrange}
	case TierHealthy:
		return Presentation{Label: "양호", Color: ColorGreen}
	default:
		return Presentation{Label: "과잉", Color: ColorRed}
	}
}

// NeedsAttention reports whether operators should consider rebalancing.
func NeedsAttention(t Tier) bool {
	return t == TierDeficient || t == TierSurplus
}
