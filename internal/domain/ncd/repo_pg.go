package ncd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vht/vht/internal/platform/db"
)

// PostgresNCDRepository implements NCDRepository backed by the ncd_followup
// table.
type PostgresNCDRepository struct {
	pool db.Querier
}

func NewPostgresNCDRepository(pool db.Querier) *PostgresNCDRepository {
	return &PostgresNCDRepository{pool: pool}
}

func (r *PostgresNCDRepository) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const ncdCols = `id, resident_id, visit_date, condition_type, systolic_bp, diastolic_bp,
	fbs, rbs, missed_medication_days, foot_exam_status, vision_change,
	medication_adherence, referral_needed, status_color, alerts,
	health_worker, notes, created_at`

func scanFollowup(row pgx.Row) (*NCDFollowup, error) {
	var f NCDFollowup
	err := row.Scan(
		&f.ID, &f.ResidentID, &f.VisitDate, &f.ConditionType, &f.SystolicBP, &f.DiastolicBP,
		&f.FBS, &f.RBS, &f.MissedMedicationDays, &f.FootExamStatus, &f.VisionChange,
		&f.MedicationAdherence, &f.ReferralNeeded, &f.StatusColor, &f.Alerts,
		&f.HealthWorker, &f.Notes, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresNCDRepository) Create(ctx context.Context, f *NCDFollowup) error {
	query := `
		INSERT INTO ncd_followup (
			resident_id, visit_date, condition_type, systolic_bp, diastolic_bp,
			fbs, rbs, missed_medication_days, foot_exam_status, vision_change,
			medication_adherence, referral_needed, status_color, alerts,
			health_worker, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := r.conn(ctx).QueryRow(ctx, query,
		f.ResidentID, f.VisitDate, f.ConditionType, f.SystolicBP, f.DiastolicBP,
		f.FBS, f.RBS, f.MissedMedicationDays, f.FootExamStatus, f.VisionChange,
		f.MedicationAdherence, f.ReferralNeeded, f.StatusColor, f.Alerts,
		f.HealthWorker, f.Notes,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating ncd followup: %w", err)
	}
	return nil
}

func (r *PostgresNCDRepository) GetByID(ctx context.Context, id uuid.UUID) (*NCDFollowup, error) {
	query := fmt.Sprintf(`SELECT %s FROM ncd_followup WHERE id = $1`, ncdCols)

	f, err := scanFollowup(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("ncd followup not found: %s", id)
		}
		return nil, fmt.Errorf("getting ncd followup: %w", err)
	}
	return f, nil
}

func (r *PostgresNCDRepository) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*NCDFollowup, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM ncd_followup WHERE resident_id = $1`
	if err := r.conn(ctx).QueryRow(ctx, countQuery, residentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting ncd followups: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM ncd_followup
		WHERE resident_id = $1
		ORDER BY visit_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, ncdCols)

	rows, err := r.conn(ctx).Query(ctx, query, residentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing ncd followups: %w", err)
	}
	defer rows.Close()

	followups, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return followups, total, nil
}

func (r *PostgresNCDRepository) ListByStatus(ctx context.Context, statusColor string, limit, offset int) ([]*NCDFollowup, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM ncd_followup WHERE status_color = $1`
	if err := r.conn(ctx).QueryRow(ctx, countQuery, statusColor).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting ncd followups by status: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM ncd_followup
		WHERE status_color = $1
		ORDER BY visit_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, ncdCols)

	rows, err := r.conn(ctx).Query(ctx, query, statusColor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing ncd followups by status: %w", err)
	}
	defer rows.Close()

	followups, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return followups, total, nil
}

func (r *PostgresNCDRepository) DueList(ctx context.Context, thresholdDays int) ([]*DueFollowup, error) {
	// Latest follow-up per patient, then only those past the threshold.
	query := `
		SELECT resident_id, resident_name, unique_id, village_area, condition_type,
			status_color, last_visit,
			EXTRACT(DAY FROM NOW() - last_visit)::int - $1 AS days_overdue
		FROM (
			SELECT DISTINCT ON (n.resident_id)
				n.resident_id, r.name AS resident_name, r.unique_id, r.village_area,
				n.condition_type, n.status_color, n.visit_date AS last_visit
			FROM ncd_followup n
			JOIN residents r ON r.id = n.resident_id
			ORDER BY n.resident_id, n.visit_date DESC, n.created_at DESC
		) latest
		WHERE last_visit < NOW() - make_interval(days => $1)
		ORDER BY days_overdue DESC`

	rows, err := r.conn(ctx).Query(ctx, query, thresholdDays)
	if err != nil {
		return nil, fmt.Errorf("listing due followups: %w", err)
	}
	defer rows.Close()

	var due []*DueFollowup
	for rows.Next() {
		var d DueFollowup
		err := rows.Scan(
			&d.ResidentID, &d.ResidentName, &d.UniqueID, &d.VillageArea, &d.ConditionType,
			&d.StatusColor, &d.LastVisit, &d.DaysOverdue,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning due followup: %w", err)
		}
		due = append(due, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating due followups: %w", err)
	}
	return due, nil
}

func (r *PostgresNCDRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM ncd_followup WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting ncd followup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ncd followup not found: %s", id)
	}
	return nil
}

func collect(rows pgx.Rows) ([]*NCDFollowup, error) {
	var followups []*NCDFollowup
	for rows.Next() {
		f, err := scanFollowup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ncd followup: %w", err)
		}
		followups = append(followups, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ncd followups: %w", err)
	}
	return followups, nil
}
