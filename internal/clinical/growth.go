package clinical

// GrowthMetric selects which reference table a z-score is computed against.
type GrowthMetric string

const (
	MetricWeightForAge GrowthMetric = "weight"
	MetricHeightForAge GrowthMetric = "height"
)

// Nutrition status labels derived from the weight-for-age z-score.
const (
	NutritionNormal      = "Normal"
	NutritionAtRisk      = "At Risk"
	NutritionUnderweight = "Underweight"
)

// MUAC screening labels. Thresholds follow the standard tape bands:
// below 11.5 cm severe, below 12.5 cm moderate.
const (
	MUACSevere   = "Severe Acute Malnutrition"
	MUACModerate = "Moderate Acute Malnutrition"
	MUACNormal   = "Normal"
)

// Z-score thresholds for nutrition classification.
const (
	zScoreUnderweight = -2.0
	zScoreAtRisk      = -1.0
)

// growthRef holds the 3rd, 50th and 97th percentile reference values for one
// tabulated age. The spread (p97-p3)/4 approximates one standard deviation.
type growthRef struct {
	P3, P50, P97 float64
}

// refAges are the tabulated ages in months, ascending. Lookups snap to the
// nearest entry, preferring the lower age on an exact tie.
var refAges = []int{0, 6, 12, 24, 36, 48, 60}

// Reference medians and percentile bounds per age and sex. The values are
// fixed program data; recorded z-scores depend on them staying untouched.
var (
	boysWeightForAge = map[int]growthRef{
		0:  {2.5, 3.3, 4.4},
		6:  {6.4, 7.9, 9.8},
		12: {7.7, 9.6, 12.0},
		24: {9.7, 12.2, 15.3},
		36: {11.3, 14.3, 18.3},
		48: {12.7, 16.3, 21.2},
		60: {14.1, 18.3, 24.2},
	}
	girlsWeightForAge = map[int]growthRef{
		0:  {2.4, 3.2, 4.2},
		6:  {5.7, 7.3, 9.3},
		12: {7.0, 9.0, 11.5},
		24: {9.0, 11.5, 14.8},
		36: {10.8, 13.9, 18.1},
		48: {12.3, 16.0, 21.5},
		60: {13.7, 18.2, 25.0},
	}
	boysHeightForAge = map[int]growthRef{
		0:  {46.1, 49.9, 53.7},
		6:  {63.3, 67.6, 72.0},
		12: {71.0, 75.7, 80.5},
		24: {81.7, 87.1, 92.9},
		36: {88.7, 96.1, 103.3},
		48: {94.9, 103.3, 111.7},
		60: {100.7, 110.0, 119.2},
	}
	girlsHeightForAge = map[int]growthRef{
		0:  {45.4, 49.1, 52.9},
		6:  {61.2, 65.7, 70.3},
		12: {68.9, 74.0, 79.2},
		24: {80.0, 86.4, 92.9},
		36: {87.4, 95.1, 102.7},
		48: {94.1, 102.7, 111.3},
		60: {99.9, 109.4, 118.9},
	}
)

// GrowthZScore approximates a WHO growth z-score by normalizing the measured
// value against the nearest tabulated age: (value - p50) / ((p97 - p3) / 4),
// rounded to two decimals. This linear approximation, not the WHO LMS method,
// is what historical records were classified with, so it is kept verbatim.
// Gender "Male" selects the boys table; any other value the girls table.
// Returns 0 if the reference spread is not positive.
func GrowthZScore(value float64, ageMonths int, gender string, metric GrowthMetric) float64 {
	table := referenceTable(gender, metric)
	ref := table[nearestRefAge(ageMonths)]

	sd := (ref.P97 - ref.P3) / 4
	if sd <= 0 {
		return 0
	}
	return round2((value - ref.P50) / sd)
}

// NutritionStatus classifies a weight-for-age z-score: below -2 underweight,
// below -1 at risk, otherwise normal.
func NutritionStatus(zWeight float64) string {
	switch {
	case zWeight < zScoreUnderweight:
		return NutritionUnderweight
	case zWeight < zScoreAtRisk:
		return NutritionAtRisk
	default:
		return NutritionNormal
	}
}

// MUACStatus screens a mid-upper arm circumference measurement. Returns ""
// when the measurement is absent.
func MUACStatus(muacCm *float64) string {
	switch {
	case muacCm == nil:
		return ""
	case *muacCm < 11.5:
		return MUACSevere
	case *muacCm < 12.5:
		return MUACModerate
	default:
		return MUACNormal
	}
}

func referenceTable(gender string, metric GrowthMetric) map[int]growthRef {
	if metric == MetricHeightForAge {
		if gender == "Male" {
			return boysHeightForAge
		}
		return girlsHeightForAge
	}
	if gender == "Male" {
		return boysWeightForAge
	}
	return girlsWeightForAge
}

func nearestRefAge(ageMonths int) int {
	nearest := refAges[0]
	best := abs(ageMonths - nearest)
	for _, age := range refAges[1:] {
		if d := abs(ageMonths - age); d < best {
			nearest, best = age, d
		}
	}
	return nearest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
