package triage

// VitalsPolicy maps raw vital-sign values to a per-symptom linguistic
// severity. The exact mapping beyond the pain score is a documented,
// configurable policy, not an invariant of the engine.
type VitalsPolicy interface {
	// SeverityFor returns the severity value for a symptom derivable from
	// vitals, and false when the vitals say nothing about it.
	SeverityFor(symptom string, vitals map[string]float64) (float64, bool)
}

// ThresholdVitalsPolicy is the default policy. Pain scores pass through on
// the 0-10 scale; the other mappings are stepwise thresholds on common
// vitals. Absent vitals never raise; they simply contribute nothing.
type ThresholdVitalsPolicy struct{}

// Vital-sign keys understood by the default policy.
const (
	VitalPain        = "pain"             // 0-10 self-reported
	VitalTemperature = "temperature"      // degrees Celsius
	VitalHeartRate   = "heart_rate"       // beats per minute
	VitalRespRate    = "respiratory_rate" // breaths per minute
	VitalSystolicBP  = "systolic_bp"      // mmHg
	VitalSpO2        = "spo2"             // percent saturation
)

func (ThresholdVitalsPolicy) SeverityFor(symptom string, vitals map[string]float64) (float64, bool) {
	if vitals == nil {
		return SeverityNone, false
	}
	switch symptom {
	case "pain", "chest_pain", "abdominal_pain", "headache", "limb_pain",
		"back_pain", "neck_pain", "flank_pain", "eye_pain", "ear_pain",
		"throat_pain", "dental_pain", "facial_pain", "testicular_pain":
		if pain, ok := vitals[VitalPain]; ok {
			return clampSeverity(pain), true
		}
	case "fever":
		if temp, ok := vitals[VitalTemperature]; ok {
			return stepUp(temp, [4]float64{37.8, 38.5, 39.5, 41.0}), true
		}
	case "tachycardia":
		if hr, ok := vitals[VitalHeartRate]; ok {
			return stepUp(hr, [4]float64{100, 120, 140, 160}), true
		}
	case "respiratory_distress":
		if spo2, ok := vitals[VitalSpO2]; ok {
			return stepDown(spo2, [4]float64{94, 90, 87, 84}), true
		}
		if rr, ok := vitals[VitalRespRate]; ok {
			return stepUp(rr, [4]float64{20, 25, 30, 36}), true
		}
	case "hypotension":
		if sbp, ok := vitals[VitalSystolicBP]; ok {
			return stepDown(sbp, [4]float64{100, 90, 80, 70}), true
		}
	}
	return SeverityNone, false
}

// stepUp maps a value against ascending thresholds for mild, moderate,
// severe and very_severe.
func stepUp(v float64, thresholds [4]float64) float64 {
	switch {
	case v >= thresholds[3]:
		return SeverityVerySevere
	case v >= thresholds[2]:
		return SeveritySevere
	case v >= thresholds[1]:
		return SeverityModerate
	case v >= thresholds[0]:
		return SeverityMild
	default:
		return SeverityNone
	}
}

// stepDown maps a value against descending thresholds (lower is worse).
func stepDown(v float64, thresholds [4]float64) float64 {
	switch {
	case v <= thresholds[3]:
		return SeverityVerySevere
	case v <= thresholds[2]:
		return SeveritySevere
	case v <= thresholds[1]:
		return SeverityModerate
	case v <= thresholds[0]:
		return SeverityMild
	default:
		return SeverityNone
	}
}

func clampSeverity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
