package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit type labels.
const (
	TypeRegular   = "Regular"
	TypeFollowUp  = "Follow-up"
	TypeEmergency = "Emergency"
	TypeScreening = "Screening"
)

// Visit maps to the visits table. BMI and BMICategory are derived from the
// recorded weight and height at entry time and stored; reports read the
// stored values.
type Visit struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ResidentID   uuid.UUID `db:"resident_id" json:"resident_id"`
	VisitDate    time.Time `db:"visit_date" json:"visit_date"`
	VisitType    string    `db:"visit_type" json:"visit_type"`
	Systolic     *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	Diastolic    *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	Temperature  *float64  `db:"temperature_f" json:"temperature_f,omitempty"`
	Pulse        *int      `db:"pulse_rate" json:"pulse_rate,omitempty"`
	SpO2         *int      `db:"spo2" json:"spo2,omitempty"`
	WeightKg     *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightCm     *float64  `db:"height_cm" json:"height_cm,omitempty"`
	BMI          *float64  `db:"bmi" json:"bmi,omitempty"`
	BMICategory  *string   `db:"bmi_category" json:"bmi_category,omitempty"`
	Symptoms     *string   `db:"symptoms" json:"symptoms,omitempty"`
	Diagnosis    *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment    *string   `db:"treatment" json:"treatment,omitempty"`
	HealthWorker *string   `db:"health_worker" json:"health_worker,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RecentVisit joins a visit with resident identity for list views.
type RecentVisit struct {
	Visit
	ResidentName     string  `db:"resident_name" json:"resident_name"`
	ResidentUniqueID string  `db:"resident_unique_id" json:"resident_unique_id"`
	VillageArea      *string `db:"village_area" json:"village_area,omitempty"`
}

// WorkerVisitCount is one row of the per-worker visit tally.
type WorkerVisitCount struct {
	HealthWorker string `db:"health_worker" json:"health_worker"`
	Count        int    `db:"count" json:"count"`
}
