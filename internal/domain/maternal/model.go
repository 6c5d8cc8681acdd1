package maternal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Visit types recorded in the maternal program.
const (
	TypeANC = "ANC"
	TypePNC = "PNC"
)

// Urine albumin dipstick readings accepted on ANC visits.
const (
	AlbuminNil       = "Nil"
	AlbuminTrace     = "Trace"
	AlbuminPlus      = "+"
	AlbuminPlusPlus  = "++"
	AlbuminThreePlus = "+++"
)

// Calcium and iron supplementation adherence.
const (
	SupplementRegular    = "Regular"
	SupplementIrregular  = "Irregular"
	SupplementNotStarted = "Not Started"
)

// MaternalVisit maps to the maternal_health table. ANC and PNC visits share
// the table; type-specific columns are null on the other type. EDD,
// gestational week, days postpartum and alerts are derived at entry time and
// stored.
type MaternalVisit struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ResidentID uuid.UUID `db:"resident_id" json:"resident_id"`
	VisitType  string    `db:"visit_type" json:"visit_type"`
	VisitDate  time.Time `db:"visit_date" json:"visit_date"`

	// Antenatal fields.
	PregnancyID       *string    `db:"pregnancy_id" json:"pregnancy_id,omitempty"`
	LMPDate           *time.Time `db:"lmp_date" json:"lmp_date,omitempty"`
	EDDDate           *time.Time `db:"edd_date" json:"edd_date,omitempty"`
	GestationalWeek   *int       `db:"gestational_week" json:"gestational_week,omitempty"`
	FundalHeightCm    *float64   `db:"fundal_height_cm" json:"fundal_height_cm,omitempty"`
	FetalHeartRate    *int       `db:"fetal_heart_rate" json:"fetal_heart_rate,omitempty"`
	UrineAlbumin      *string    `db:"urine_albumin" json:"urine_albumin,omitempty"`
	TTDose            *int       `db:"tt_dose" json:"tt_dose,omitempty"`
	CalciumIronStatus *string    `db:"calcium_iron_status" json:"calcium_iron_status,omitempty"`

	// Postnatal fields.
	DeliveryDate              *time.Time `db:"delivery_date" json:"delivery_date,omitempty"`
	DaysPostpartum            *int       `db:"days_postpartum" json:"days_postpartum,omitempty"`
	BreastfeedingStatus       *string    `db:"breastfeeding_status" json:"breastfeeding_status,omitempty"`
	FamilyPlanningCounselling *bool      `db:"family_planning_counselling" json:"family_planning_counselling,omitempty"`

	// Shared measurements.
	SystolicBP   *int     `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP  *int     `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	Hemoglobin   *float64 `db:"hemoglobin" json:"hemoglobin,omitempty"`
	DangerSigns  *string  `db:"danger_signs" json:"danger_signs,omitempty"`
	Alerts       []string `db:"alerts" json:"alerts,omitempty"`
	HealthWorker *string  `db:"health_worker" json:"health_worker,omitempty"`
	Notes        *string  `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HighRiskPregnancy is one row of the high-risk register: the latest ANC
// visit per mother that meets a referral criterion.
type HighRiskPregnancy struct {
	ResidentID      uuid.UUID `db:"resident_id" json:"resident_id"`
	ResidentName    string    `db:"resident_name" json:"resident_name"`
	UniqueID        string    `db:"unique_id" json:"unique_id"`
	VillageArea     *string   `db:"village_area" json:"village_area,omitempty"`
	PregnancyID     *string   `db:"pregnancy_id" json:"pregnancy_id,omitempty"`
	GestationalWeek *int      `db:"gestational_week" json:"gestational_week,omitempty"`
	SystolicBP      *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	Hemoglobin      *float64  `db:"hemoglobin" json:"hemoglobin,omitempty"`
	DangerSigns     *string   `db:"danger_signs" json:"danger_signs,omitempty"`
	Alerts          []string  `db:"alerts" json:"alerts,omitempty"`
	VisitDate       time.Time `db:"visit_date" json:"visit_date"`
}

// NewPregnancyID mints a pregnancy identifier: "PREG-" plus the first eight
// hex digits of a random uuid, uppercased. One identifier spans all ANC
// visits of the same pregnancy.
func NewPregnancyID() string {
	return "PREG-" + strings.ToUpper(uuid.New().String()[:8])
}
