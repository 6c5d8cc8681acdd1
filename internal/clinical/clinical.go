// Package clinical holds the derivation rules shared by the visit, growth,
// maternal and NCD programs: BMI, WHO growth z-score approximation, pregnancy
// dating, triage classification and input range validation. Every function is
// pure and total over its declared domain; missing or out-of-domain inputs
// degrade to nil / zero values, they never panic. Reporting reads the stored
// results of these functions and does not recompute them, so the exact
// rounding and threshold behavior here is a compatibility contract.
package clinical

import (
	"math"
	"time"
)

// BMI category labels.
const (
	CategoryUnknown     = "Unknown"
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

// Demographic age brackets. A nil age belongs to no bracket.
const (
	BracketChild     = "Child"
	BracketAdult     = "Adult"
	BracketMiddleAge = "Middle Age"
	BracketSenior    = "Senior"
)

// PregnancyDurationDays is the Naegele's rule term length (40 weeks).
const PregnancyDurationDays = 280

// BMI computes body mass index from weight in kilograms and height in
// centimetres, rounded to one decimal place. Returns nil when either input
// is missing or height is zero.
func BMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm == 0 {
		return nil
	}
	m := *heightCm / 100
	v := round1(*weightKg / (m * m))
	return &v
}

// BMICategory maps a BMI value onto the standard WHO adult bands. Bands are
// half-open on the lower bound: 18.5 is Normal, 30.0 is Obese.
func BMICategory(bmi *float64) string {
	switch {
	case bmi == nil:
		return CategoryUnknown
	case *bmi < 18.5:
		return CategoryUnderweight
	case *bmi < 25.0:
		return CategoryNormal
	case *bmi < 30.0:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// AgeBracket buckets an age in years for demographic summaries: Child 0-17,
// Adult 18-39, Middle Age 40-59, Senior 60+. Returns "" for a nil age so
// callers can exclude unknown ages from every bucket.
func AgeBracket(age *int) string {
	switch {
	case age == nil:
		return ""
	case *age < 18:
		return BracketChild
	case *age < 40:
		return BracketAdult
	case *age < 60:
		return BracketMiddleAge
	default:
		return BracketSenior
	}
}

// EDD computes the expected date of delivery from the last menstrual period
// via Naegele's rule (LMP + 280 days). Nil in, nil out.
func EDD(lmp *time.Time) *time.Time {
	if lmp == nil {
		return nil
	}
	edd := lmp.AddDate(0, 0, PregnancyDurationDays)
	return &edd
}

// GestationalWeek returns the completed gestational week at visitDate, the
// floor of the day delta divided by seven. Nil if either date is missing.
func GestationalWeek(lmp, visitDate *time.Time) *int {
	if lmp == nil || visitDate == nil {
		return nil
	}
	days := daysBetween(*lmp, *visitDate)
	week := floorDiv(days, 7)
	return &week
}

// DaysPostpartum returns the whole days elapsed between delivery and the
// PNC visit. Nil if either date is missing.
func DaysPostpartum(deliveryDate, visitDate *time.Time) *int {
	if deliveryDate == nil || visitDate == nil {
		return nil
	}
	days := daysBetween(*deliveryDate, *visitDate)
	return &days
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// floorDiv divides rounding toward negative infinity, so a visit logged
// before the anchor date yields a negative week rather than zero.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
