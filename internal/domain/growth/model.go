package growth

import (
	"time"

	"github.com/google/uuid"
)

// GrowthRecord maps to the growth_monitoring table. Z-scores, nutrition
// status, MUAC status and alerts are derived once at entry time and stored;
// reports read the stored values.
type GrowthRecord struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	ResidentID          uuid.UUID `db:"resident_id" json:"resident_id"`
	MeasurementDate     time.Time `db:"measurement_date" json:"measurement_date"`
	AgeMonths           int       `db:"age_months" json:"age_months"`
	WeightKg            float64   `db:"weight_kg" json:"weight_kg"`
	HeightCm            float64   `db:"height_cm" json:"height_cm"`
	MUACCm              *float64  `db:"muac_cm" json:"muac_cm,omitempty"`
	HeadCircumferenceCm *float64  `db:"head_circumference_cm" json:"head_circumference_cm,omitempty"`
	ZScoreWeight        float64   `db:"z_score_weight" json:"z_score_weight"`
	ZScoreHeight        float64   `db:"z_score_height" json:"z_score_height"`
	NutritionStatus     string    `db:"nutrition_status" json:"nutrition_status"`
	MUACStatus          *string   `db:"muac_status" json:"muac_status,omitempty"`
	Alerts              []string  `db:"alerts" json:"alerts,omitempty"`
	HealthWorker        *string   `db:"health_worker" json:"health_worker,omitempty"`
	Notes               *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// MalnourishedChild is one row of the malnutrition register: the latest
// growth record per child whose weight-for-age z-score is below -2.
type MalnourishedChild struct {
	ResidentID      uuid.UUID `db:"resident_id" json:"resident_id"`
	ResidentName    string    `db:"resident_name" json:"resident_name"`
	UniqueID        string    `db:"unique_id" json:"unique_id"`
	VillageArea     *string   `db:"village_area" json:"village_area,omitempty"`
	AgeMonths       int       `db:"age_months" json:"age_months"`
	ZScoreWeight    float64   `db:"z_score_weight" json:"z_score_weight"`
	NutritionStatus string    `db:"nutrition_status" json:"nutrition_status"`
	MeasurementDate time.Time `db:"measurement_date" json:"measurement_date"`
}
