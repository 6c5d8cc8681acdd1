package history

import (
	"time"

	"github.com/google/uuid"
)

// MedicalHistory maps to the medical_history table. Exactly one row exists
// per resident; writes go through Upsert.
type MedicalHistory struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	ResidentID         uuid.UUID `db:"resident_id" json:"resident_id"`
	ChronicConditions  *string   `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Allergies          *string   `db:"allergies" json:"allergies,omitempty"`
	CurrentMedications *string   `db:"current_medications" json:"current_medications,omitempty"`
	PastSurgeries      *string   `db:"past_surgeries" json:"past_surgeries,omitempty"`
	FamilyHistory      *string   `db:"family_history" json:"family_history,omitempty"`
	ImmunizationNotes  *string   `db:"immunization_notes" json:"immunization_notes,omitempty"`
	UpdatedBy          *string   `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
