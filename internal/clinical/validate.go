package clinical

import (
	"fmt"
	"strings"
)

// Accepted ranges for raw clinical inputs. An absent optional field is never
// an error; only an out-of-range present value is.
const (
	minAge, maxAge           = 0, 120
	minSystolic, maxSystolic = 50, 250
	minDiastolic             = 30
	maxDiastolic             = 150
	minTempF, maxTempF       = 90.0, 110.0
	minPulse, maxPulse       = 30, 200
	minWeightKg, maxWeightKg = 1.0, 300.0
	minHeightCm, maxHeightCm = 30.0, 250.0
	minSpO2, maxSpO2         = 70, 100
)

// ValidatePhone accepts a 10-digit phone number, ignoring spaces and dashes.
// An empty phone is valid (the field is optional).
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return true, ""
	}
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if len(cleaned) != 10 {
		return false, "Phone number must be exactly 10 digits"
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false, "Phone number must be exactly 10 digits"
		}
	}
	return true, ""
}

// ValidateAge accepts ages 0-120 inclusive.
func ValidateAge(age *int) (bool, string) {
	if age == nil {
		return true, ""
	}
	if *age < minAge || *age > maxAge {
		return false, fmt.Sprintf("Age must be between %d and %d", minAge, maxAge)
	}
	return true, ""
}

// ValidateBloodPressure checks systolic 50-250, diastolic 30-150, and that
// diastolic is strictly below systolic when both are present.
func ValidateBloodPressure(systolic, diastolic *int) (bool, string) {
	if systolic != nil && (*systolic < minSystolic || *systolic > maxSystolic) {
		return false, fmt.Sprintf("Systolic BP must be between %d and %d mmHg", minSystolic, maxSystolic)
	}
	if diastolic != nil && (*diastolic < minDiastolic || *diastolic > maxDiastolic) {
		return false, fmt.Sprintf("Diastolic BP must be between %d and %d mmHg", minDiastolic, maxDiastolic)
	}
	if systolic != nil && diastolic != nil && *diastolic >= *systolic {
		return false, "Diastolic BP must be less than Systolic BP"
	}
	return true, ""
}

// ValidateTemperature checks body temperature in Fahrenheit.
func ValidateTemperature(tempF *float64) (bool, string) {
	if tempF == nil {
		return true, ""
	}
	if *tempF < minTempF || *tempF > maxTempF {
		return false, fmt.Sprintf("Temperature must be between %.0f°F and %.0f°F", minTempF, maxTempF)
	}
	return true, ""
}

// ValidatePulse checks pulse rate in beats per minute.
func ValidatePulse(pulse *int) (bool, string) {
	if pulse == nil {
		return true, ""
	}
	if *pulse < minPulse || *pulse > maxPulse {
		return false, fmt.Sprintf("Pulse rate must be between %d and %d bpm", minPulse, maxPulse)
	}
	return true, ""
}

// ValidateWeight checks weight in kilograms.
func ValidateWeight(weightKg *float64) (bool, string) {
	if weightKg == nil {
		return true, ""
	}
	if *weightKg < minWeightKg || *weightKg > maxWeightKg {
		return false, fmt.Sprintf("Weight must be between %.0f and %.0f kg", minWeightKg, maxWeightKg)
	}
	return true, ""
}

// ValidateHeight checks height in centimetres.
func ValidateHeight(heightCm *float64) (bool, string) {
	if heightCm == nil {
		return true, ""
	}
	if *heightCm < minHeightCm || *heightCm > maxHeightCm {
		return false, fmt.Sprintf("Height must be between %.0f and %.0f cm", minHeightCm, maxHeightCm)
	}
	return true, ""
}

// ValidateSpO2 checks oxygen saturation percentage.
func ValidateSpO2(spo2 *int) (bool, string) {
	if spo2 == nil {
		return true, ""
	}
	if *spo2 < minSpO2 || *spo2 > maxSpO2 {
		return false, fmt.Sprintf("SpO2 must be between %d%% and %d%%", minSpO2, maxSpO2)
	}
	return true, ""
}

// VitalsInput carries one form submission's raw measurements. All fields are
// optional; validation only rejects present out-of-range values.
type VitalsInput struct {
	Systolic    *int
	Diastolic   *int
	Temperature *float64
	Pulse       *int
	SpO2        *int
	WeightKg    *float64
	HeightCm    *float64
}

// ValidateVitals runs every range check and collects all failing messages
// instead of stopping at the first.
func ValidateVitals(v VitalsInput) []string {
	var msgs []string
	checks := []func() (bool, string){
		func() (bool, string) { return ValidateBloodPressure(v.Systolic, v.Diastolic) },
		func() (bool, string) { return ValidateTemperature(v.Temperature) },
		func() (bool, string) { return ValidatePulse(v.Pulse) },
		func() (bool, string) { return ValidateSpO2(v.SpO2) },
		func() (bool, string) { return ValidateWeight(v.WeightKg) },
		func() (bool, string) { return ValidateHeight(v.HeightCm) },
	}
	for _, check := range checks {
		if ok, msg := check(); !ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
