package clinical

// Traffic-light follow-up status for NCD patients.
const (
	StatusRed    = "Red"
	StatusYellow = "Yellow"
	StatusGreen  = "Green"
)

// Missed-medication-days categories reported at an NCD checkup.
const (
	MissedNone = "0 days"
	MissedFew  = "1-2 days"
	MissedMany = "3+ days"
)

// Foot exam findings.
const (
	FootNoIssues    = "No Issues"
	FootMinorIssues = "Minor Issues"
	FootOpenUlcer   = "Open Ulcer"
	FootNotExamined = "Not Examined"
)

// NCDStatusColor triages an NCD checkup into Red, Yellow or Green. Red
// conditions are checked first and short-circuit: a patient matching both a
// Red and a Yellow criterion is Red. Absent numeric readings never trigger
// a band on their own.
//
// Red: missed 3+ days, systolic above 160, random blood sugar above 250,
// an open foot ulcer, or a reported vision change.
// Yellow: missed 1-2 days, systolic in [140,160], or random blood sugar in
// (180,250].
func NCDStatusColor(missedDays string, bpSystolic, randomBloodSugar *int, footExamStatus string, visionChange bool) string {
	sys := 0
	if bpSystolic != nil {
		sys = *bpSystolic
	}
	rbs := 0
	if randomBloodSugar != nil {
		rbs = *randomBloodSugar
	}

	if missedDays == MissedMany || sys > 160 || rbs > 250 || footExamStatus == FootOpenUlcer || visionChange {
		return StatusRed
	}
	if missedDays == MissedFew || (sys >= 140 && sys <= 160) || (rbs > 180 && rbs <= 250) {
		return StatusYellow
	}
	return StatusGreen
}

// Point-reading indicator labels shown next to a single checkup's values.
const (
	IndicatorHigh            = "High"
	IndicatorNormal          = "Normal"
	IndicatorPreHypertension = "Pre-Hypertension"
	IndicatorDiabetic        = "Diabetic Range"
	IndicatorPreDiabetic     = "Pre-Diabetic"
	IndicatorElevated        = "Elevated"
)

// BPIndicator classifies one blood pressure reading: at or above 140/90
// high, below 120/80 normal, anything between pre-hypertension. Returns ""
// unless both readings are present.
func BPIndicator(systolic, diastolic *int) string {
	if systolic == nil || diastolic == nil {
		return ""
	}
	switch {
	case *systolic >= 140 || *diastolic >= 90:
		return IndicatorHigh
	case *systolic < 120 && *diastolic < 80:
		return IndicatorNormal
	default:
		return IndicatorPreHypertension
	}
}

// FBSIndicator classifies a fasting blood sugar reading: 126+ diabetic
// range, 100+ pre-diabetic, below normal. Returns "" when absent.
func FBSIndicator(fbs *int) string {
	if fbs == nil {
		return ""
	}
	switch {
	case *fbs >= 126:
		return IndicatorDiabetic
	case *fbs >= 100:
		return IndicatorPreDiabetic
	default:
		return IndicatorNormal
	}
}

// RBSIndicator classifies a random blood sugar reading: 200+ diabetic
// range, 140+ elevated, below normal. Returns "" when absent.
func RBSIndicator(rbs *int) string {
	if rbs == nil {
		return ""
	}
	switch {
	case *rbs >= 200:
		return IndicatorDiabetic
	case *rbs >= 140:
		return IndicatorElevated
	default:
		return IndicatorNormal
	}
}

// Critical alert messages surfaced right after saving a checkup.
const (
	AlertSevereHypertension = "Severe Hypertension! Immediate medical attention required."
	AlertVeryHighSugar      = "Very High Blood Sugar! Immediate medical attention required."
)

// NCDCriticalAlerts returns the critical alerts for a checkup: severe
// hypertension at 160/100 and very high sugar at FBS 200 / RBS 300.
func NCDCriticalAlerts(systolic, diastolic, fbs, rbs *int) []string {
	var alerts []string
	if (systolic != nil && *systolic >= 160) || (diastolic != nil && *diastolic >= 100) {
		alerts = append(alerts, AlertSevereHypertension)
	}
	if (fbs != nil && *fbs >= 200) || (rbs != nil && *rbs >= 300) {
		alerts = append(alerts, AlertVeryHighSugar)
	}
	return alerts
}
