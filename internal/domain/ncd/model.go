package ncd

import (
	"time"

	"github.com/google/uuid"
)

// Tracked condition types.
const (
	ConditionHypertension = "Hypertension"
	ConditionDiabetes     = "Diabetes"
	ConditionBoth         = "Hypertension + Diabetes"
	ConditionOther        = "Other"
)

// Self-reported medication adherence.
const (
	AdherenceYes       = "Yes"
	AdherenceNo        = "No"
	AdherencePartially = "Partially"
)

// NCDFollowup maps to the ncd_followup table. The traffic-light status and
// critical alerts are derived at entry time and stored.
type NCDFollowup struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	ResidentID           uuid.UUID `db:"resident_id" json:"resident_id"`
	VisitDate            time.Time `db:"visit_date" json:"visit_date"`
	ConditionType        string    `db:"condition_type" json:"condition_type"`
	SystolicBP           *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP          *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	FBS                  *int      `db:"fbs" json:"fbs,omitempty"`
	RBS                  *int      `db:"rbs" json:"rbs,omitempty"`
	MissedMedicationDays *string   `db:"missed_medication_days" json:"missed_medication_days,omitempty"`
	FootExamStatus       *string   `db:"foot_exam_status" json:"foot_exam_status,omitempty"`
	VisionChange         bool      `db:"vision_change" json:"vision_change"`
	MedicationAdherence  *string   `db:"medication_adherence" json:"medication_adherence,omitempty"`
	ReferralNeeded       bool      `db:"referral_needed" json:"referral_needed"`
	StatusColor          string    `db:"status_color" json:"status_color"`
	Alerts               []string  `db:"alerts" json:"alerts,omitempty"`

	// Point-reading labels, attached per response and never stored.
	BPIndicator  *string `db:"-" json:"bp_indicator,omitempty"`
	FBSIndicator *string `db:"-" json:"fbs_indicator,omitempty"`
	RBSIndicator *string `db:"-" json:"rbs_indicator,omitempty"`

	HealthWorker *string   `db:"health_worker" json:"health_worker,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DueFollowup is one row of the due list: a patient whose latest follow-up
// is older than the threshold. DaysOverdue counts days past the threshold,
// Critical flags patients unseen for more than sixty days.
type DueFollowup struct {
	ResidentID    uuid.UUID `db:"resident_id" json:"resident_id"`
	ResidentName  string    `db:"resident_name" json:"resident_name"`
	UniqueID      string    `db:"unique_id" json:"unique_id"`
	VillageArea   *string   `db:"village_area" json:"village_area,omitempty"`
	ConditionType string    `db:"condition_type" json:"condition_type"`
	StatusColor   string    `db:"status_color" json:"status_color"`
	LastVisit     time.Time `db:"last_visit" json:"last_visit"`
	DaysOverdue   int       `db:"days_overdue" json:"days_overdue"`
	Critical      bool      `db:"-" json:"critical"`
}
