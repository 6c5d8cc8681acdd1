package clinical

// Alert messages recorded with ANC and PNC visits.
const (
	AlertANCHighBP       = "High Blood Pressure detected! Immediate referral recommended."
	AlertANCAnemia       = "Anemia detected! (Hb < 11 g/dL)"
	AlertDangerSigns     = "Danger signs reported! Immediate attention required."
	AlertPNCHighBP       = "High Blood Pressure postpartum!"
	AlertPNCSevereAnemia = "Severe Anemia postpartum! (Hb < 10 g/dL)"
)

// ANCAlerts evaluates an antenatal visit for high-risk findings: blood
// pressure at or above 140/90, hemoglobin below 11 g/dL, or any reported
// danger signs. A zero hemoglobin reading counts as not measured.
func ANCAlerts(systolic, diastolic *int, hemoglobin *float64, dangerSigns string) []string {
	var alerts []string
	if (systolic != nil && *systolic >= 140) || (diastolic != nil && *diastolic >= 90) {
		alerts = append(alerts, AlertANCHighBP)
	}
	if hemoglobin != nil && *hemoglobin > 0 && *hemoglobin < 11 {
		alerts = append(alerts, AlertANCAnemia)
	}
	if dangerSigns != "" {
		alerts = append(alerts, AlertDangerSigns)
	}
	return alerts
}

// PNCAlerts evaluates a postnatal visit: systolic at or above 140, or
// hemoglobin below 10 g/dL, plus any reported danger signs.
func PNCAlerts(systolic *int, hemoglobin *float64, dangerSigns string) []string {
	var alerts []string
	if systolic != nil && *systolic >= 140 {
		alerts = append(alerts, AlertPNCHighBP)
	}
	if hemoglobin != nil && *hemoglobin > 0 && *hemoglobin < 10 {
		alerts = append(alerts, AlertPNCSevereAnemia)
	}
	if dangerSigns != "" {
		alerts = append(alerts, AlertDangerSigns)
	}
	return alerts
}

// HighRiskANC reports whether an ANC record marks the pregnancy high risk:
// systolic at or above 140, hemoglobin below 11, or danger signs present.
func HighRiskANC(systolic *int, hemoglobin *float64, dangerSigns string) bool {
	if systolic != nil && *systolic >= 140 {
		return true
	}
	if hemoglobin != nil && *hemoglobin > 0 && *hemoglobin < 11 {
		return true
	}
	return dangerSigns != ""
}
