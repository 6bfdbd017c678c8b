package loadfactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTierBoundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		lf   float64
		want Tier
	}{
		{0, TierDeficient},
		{0.49999, TierDeficient},
		{0.5, TierNormal},
		{0.79999, TierNormal},
		{0.8, TierHealthy},
		{1.0, TierHealthy},
		{1.2, TierHealthy},
		{1.20001, TierSurplus},
		{42, TierSurplus},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, th.TierOf(tc.lf), "load factor %v", tc.lf)
	}
}

func TestTierMonotonic(t *testing.T) {
	th := DefaultThresholds()
	prev := th.TierOf(0)
	for lf := 0.0; lf <= 3; lf += 0.01 {
		cur := th.TierOf(lf)
		require.GreaterOrEqual(t, cur, prev, "tier decreased at %v", lf)
		prev = cur
	}
}

func TestClassifyGuardsZeroBaseline(t *testing.T) {
	res := Classify(5, 0)
	require.Equal(t, 0.0, res.LoadFactor)
	require.Equal(t, TierDeficient, res.Tier)

	res = Classify(1, 10)
	require.InDelta(t, 0.1, res.LoadFactor, 1e-9)
	require.Equal(t, TierDeficient, res.Tier)
}

func TestPresentationsShareTiersButDifferOnSurplus(t *testing.T) {
	for _, tier := range []Tier{TierDeficient, TierNormal, TierHealthy} {
		require.Equal(t, Rider(tier), Operator(tier))
	}
	require.Equal(t, Presentation{Label: "여유", Color: ColorBlue}, Rider(TierSurplus))
	require.Equal(t, Presentation{Label: "과잉", Color: ColorRed}, Operator(TierSurplus))
	require.Equal(t, ColorRed, Operator(TierDeficient).Color)

	require.True(t, NeedsAttention(TierDeficient))
	require.True(t, NeedsAttention(TierSurplus))
	require.False(t, NeedsAttention(TierHealthy))
}

func TestPredict(t *testing.T) {
	require.Equal(t, "혼잡 예상", Predict(TierDeficient).Label)
	require.Equal(t, "매우 여유", Predict(TierSurplus).Label)
	require.Equal(t, 0.7, Predict(TierNormal).Confidence)
	require.Equal(t, 0.0, NoData.Confidence)
}

func TestTierText(t *testing.T) {
	text, err := TierSurplus.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "SURPLUS", string(text))
	require.Equal(t, "UNKNOWN", Tier(9).String())
}
