package loadfactor

// Prediction is the rider-facing short-term outlook for one station.
type Prediction struct {
	Label          string  `json:"prediction"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

const predictionConfidence = 0.7

// NoData is returned when no baseline exists for the requested hour.
var NoData = Prediction{
	Label:          "데이터 부족",
	Recommendation: "기준 데이터가 없어 예측할 수 없습니다.",
	Confidence:     0,
}

// Predict maps a tier to the outlook shown on the station page.
func Predict(t Tier) Prediction {
	switch t {
	case TierDeficient:
		return Prediction{
			Label:          "혼잡 예상",
			Recommendation: "자전거가 부족할 수 있습니다. 다른 대여소를 이용하시는 것을 권장합니다.",
			Confidence:     predictionConfidence,
		}
	case TierNormal:
		return Prediction{
			Label:          "보통",
			Recommendation: "이용 가능하지만 여유가 많지 않을 수 있습니다.",
			Confidence:     predictionConfidence,
		}
	case TierHealthy:
		return Prediction{
			Label:          "여유",
			Recommendation: "이용하기 좋은 상태입니다.",
			Confidence:     predictionConfidence,
		}
	default:
		return Prediction{
			Label:          "매우 여유",
			Recommendation: "충분한 자전거가 있어 이용하기 좋습니다.",
			Confidence:     predictionConfidence,
		}
	}
}
