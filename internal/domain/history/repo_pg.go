package history

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
)

type historyRepoPG struct{ pool *pgxpool.Pool }

func NewHistoryRepoPG(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepoPG{pool: pool}
}

func (r *historyRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const historyCols = `id, resident_id, chronic_conditions, allergies, current_medications,
	past_surgeries, family_history, immunization_notes, updated_by, created_at, updated_at`

func (r *historyRepoPG) GetByResident(ctx context.Context, residentID uuid.UUID) (*MedicalHistory, error) {
	var h MedicalHistory
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+historyCols+` FROM medical_history WHERE resident_id = $1`, residentID).
		Scan(&h.ID, &h.ResidentID, &h.ChronicConditions, &h.Allergies, &h.CurrentMedications,
			&h.PastSurgeries, &h.FamilyHistory, &h.ImmunizationNotes, &h.UpdatedBy,
			&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Upsert inserts the resident's history row or replaces its content, keyed on
// the resident_id unique constraint.
func (r *historyRepoPG) Upsert(ctx context.Context, h *MedicalHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_history (id, resident_id, chronic_conditions, allergies,
			current_medications, past_surgeries, family_history, immunization_notes, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (resident_id) DO UPDATE SET
			chronic_conditions = EXCLUDED.chronic_conditions,
			allergies = EXCLUDED.allergies,
			current_medications = EXCLUDED.current_medications,
			past_surgeries = EXCLUDED.past_surgeries,
			family_history = EXCLUDED.family_history,
			immunization_notes = EXCLUDED.immunization_notes,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		h.ID, h.ResidentID, h.ChronicConditions, h.Allergies, h.CurrentMedications,
		h.PastSurgeries, h.FamilyHistory, h.ImmunizationNotes, h.UpdatedBy).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
}

func (r *historyRepoPG) Delete(ctx context.Context, residentID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_history WHERE resident_id = $1`, residentID)
	return err
}
