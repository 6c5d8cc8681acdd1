package clinical

import (
	"strings"
	"testing"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"", true},
		{"9876543210", true},
		{"98765 432-10", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765abcde", false},
	}
	for _, tt := range tests {
		ok, msg := ValidatePhone(tt.phone)
		if ok != tt.ok {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, ok, tt.ok)
		}
		if !ok && msg != "Phone number must be exactly 10 digits" {
			t.Errorf("ValidatePhone(%q) message = %q", tt.phone, msg)
		}
	}
}

func TestValidateAge(t *testing.T) {
	if ok, _ := ValidateAge(nil); !ok {
		t.Error("nil age should be valid")
	}
	if ok, _ := ValidateAge(ip(0)); !ok {
		t.Error("age 0 should be valid")
	}
	if ok, _ := ValidateAge(ip(120)); !ok {
		t.Error("age 120 should be valid")
	}
	if ok, msg := ValidateAge(ip(121)); ok || msg != "Age must be between 0 and 120" {
		t.Errorf("age 121: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateAge(ip(-1)); ok {
		t.Error("negative age should be rejected")
	}
}

func TestValidateBloodPressure(t *testing.T) {
	if ok, msg := ValidateBloodPressure(ip(120), ip(80)); !ok || msg != "" {
		t.Errorf("120/80 should be valid, got %v %q", ok, msg)
	}
	if ok, _ := ValidateBloodPressure(nil, nil); !ok {
		t.Error("absent BP should be valid")
	}
	if ok, msg := ValidateBloodPressure(ip(80), ip(120)); ok || msg != "Diastolic BP must be less than Systolic BP" {
		t.Errorf("inverted BP: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateBloodPressure(ip(100), ip(100)); ok {
		t.Error("equal systolic and diastolic should be rejected")
	}
	if ok, msg := ValidateBloodPressure(ip(49), nil); ok || !strings.Contains(msg, "Systolic") {
		t.Errorf("systolic 49: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateBloodPressure(ip(251), nil); ok {
		t.Error("systolic 251 should be rejected")
	}
	if ok, msg := ValidateBloodPressure(nil, ip(29)); ok || !strings.Contains(msg, "Diastolic") {
		t.Errorf("diastolic 29: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateBloodPressure(nil, ip(151)); ok {
		t.Error("diastolic 151 should be rejected")
	}
}

func TestValidateTemperature(t *testing.T) {
	if ok, _ := ValidateTemperature(nil); !ok {
		t.Error("absent temperature should be valid")
	}
	if ok, _ := ValidateTemperature(fp(98.6)); !ok {
		t.Error("98.6 should be valid")
	}
	if ok, _ := ValidateTemperature(fp(90.0)); !ok {
		t.Error("90 should be valid")
	}
	if ok, msg := ValidateTemperature(fp(89.9)); ok || msg != "Temperature must be between 90°F and 110°F" {
		t.Errorf("89.9: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateTemperature(fp(110.1)); ok {
		t.Error("110.1 should be rejected")
	}
}

func TestValidatePulse(t *testing.T) {
	if ok, _ := ValidatePulse(ip(72)); !ok {
		t.Error("72 should be valid")
	}
	if ok, msg := ValidatePulse(ip(29)); ok || msg != "Pulse rate must be between 30 and 200 bpm" {
		t.Errorf("29: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidatePulse(ip(201)); ok {
		t.Error("201 should be rejected")
	}
}

func TestValidateWeight(t *testing.T) {
	if ok, _ := ValidateWeight(fp(62.5)); !ok {
		t.Error("62.5 should be valid")
	}
	if ok, msg := ValidateWeight(fp(0.5)); ok || msg != "Weight must be between 1 and 300 kg" {
		t.Errorf("0.5: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateWeight(fp(300.5)); ok {
		t.Error("300.5 should be rejected")
	}
}

func TestValidateHeight(t *testing.T) {
	if ok, _ := ValidateHeight(fp(165.0)); !ok {
		t.Error("165 should be valid")
	}
	if ok, msg := ValidateHeight(fp(29.0)); ok || msg != "Height must be between 30 and 250 cm" {
		t.Errorf("29: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateHeight(fp(251.0)); ok {
		t.Error("251 should be rejected")
	}
}

func TestValidateSpO2(t *testing.T) {
	if ok, _ := ValidateSpO2(ip(98)); !ok {
		t.Error("98 should be valid")
	}
	if ok, msg := ValidateSpO2(ip(69)); ok || msg != "SpO2 must be between 70% and 100%" {
		t.Errorf("69: ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidateSpO2(ip(101)); ok {
		t.Error("101 should be rejected")
	}
}

func TestValidateVitals_CollectsAllFailures(t *testing.T) {
	msgs := ValidateVitals(VitalsInput{
		Systolic:    ip(300),
		Temperature: fp(120.0),
		Pulse:       ip(250),
		WeightKg:    fp(400.0),
	})
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d: %v", len(msgs), msgs)
	}
	joined := strings.Join(msgs, "; ")
	for _, frag := range []string{"Systolic", "Temperature", "Pulse", "Weight"} {
		if !strings.Contains(joined, frag) {
			t.Errorf("expected a %s message in %q", frag, joined)
		}
	}
}

func TestValidateVitals_EmptyInputValid(t *testing.T) {
	if msgs := ValidateVitals(VitalsInput{}); len(msgs) != 0 {
		t.Errorf("expected no messages for empty input, got %v", msgs)
	}
}
