package maternal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vht/vht/internal/platform/db"
)

// PostgresMaternalRepository implements MaternalRepository backed by the
// maternal_health table.
type PostgresMaternalRepository struct {
	pool db.Querier
}

func NewPostgresMaternalRepository(pool db.Querier) *PostgresMaternalRepository {
	return &PostgresMaternalRepository{pool: pool}
}

func (r *PostgresMaternalRepository) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const maternalCols = `id, resident_id, visit_type, visit_date, pregnancy_id, lmp_date, edd_date,
	gestational_week, fundal_height_cm, fetal_heart_rate, urine_albumin, tt_dose,
	calcium_iron_status, delivery_date, days_postpartum, breastfeeding_status,
	family_planning_counselling, systolic_bp, diastolic_bp, hemoglobin,
	danger_signs, alerts, health_worker, notes, created_at`

func scanMaternal(row pgx.Row) (*MaternalVisit, error) {
	var v MaternalVisit
	err := row.Scan(
		&v.ID, &v.ResidentID, &v.VisitType, &v.VisitDate, &v.PregnancyID, &v.LMPDate, &v.EDDDate,
		&v.GestationalWeek, &v.FundalHeightCm, &v.FetalHeartRate, &v.UrineAlbumin, &v.TTDose,
		&v.CalciumIronStatus, &v.DeliveryDate, &v.DaysPostpartum, &v.BreastfeedingStatus,
		&v.FamilyPlanningCounselling, &v.SystolicBP, &v.DiastolicBP, &v.Hemoglobin,
		&v.DangerSigns, &v.Alerts, &v.HealthWorker, &v.Notes, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresMaternalRepository) Create(ctx context.Context, v *MaternalVisit) error {
	query := `
		INSERT INTO maternal_health (
			resident_id, visit_type, visit_date, pregnancy_id, lmp_date, edd_date,
			gestational_week, fundal_height_cm, fetal_heart_rate, urine_albumin, tt_dose,
			calcium_iron_status, delivery_date, days_postpartum, breastfeeding_status,
			family_planning_counselling, systolic_bp, diastolic_bp, hemoglobin,
			danger_signs, alerts, health_worker, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id, created_at`

	err := r.conn(ctx).QueryRow(ctx, query,
		v.ResidentID, v.VisitType, v.VisitDate, v.PregnancyID, v.LMPDate, v.EDDDate,
		v.GestationalWeek, v.FundalHeightCm, v.FetalHeartRate, v.UrineAlbumin, v.TTDose,
		v.CalciumIronStatus, v.DeliveryDate, v.DaysPostpartum, v.BreastfeedingStatus,
		v.FamilyPlanningCounselling, v.SystolicBP, v.DiastolicBP, v.Hemoglobin,
		v.DangerSigns, v.Alerts, v.HealthWorker, v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating maternal visit: %w", err)
	}
	return nil
}

func (r *PostgresMaternalRepository) GetByID(ctx context.Context, id uuid.UUID) (*MaternalVisit, error) {
	query := fmt.Sprintf(`SELECT %s FROM maternal_health WHERE id = $1`, maternalCols)

	v, err := scanMaternal(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("maternal visit not found: %s", id)
		}
		return nil, fmt.Errorf("getting maternal visit: %w", err)
	}
	return v, nil
}

func (r *PostgresMaternalRepository) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*MaternalVisit, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM maternal_health WHERE resident_id = $1`
	if err := r.conn(ctx).QueryRow(ctx, countQuery, residentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting maternal visits: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM maternal_health
		WHERE resident_id = $1
		ORDER BY visit_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, maternalCols)

	rows, err := r.conn(ctx).Query(ctx, query, residentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing maternal visits: %w", err)
	}
	defer rows.Close()

	visits, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

func (r *PostgresMaternalRepository) ListByPregnancy(ctx context.Context, pregnancyID string) ([]*MaternalVisit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM maternal_health
		WHERE pregnancy_id = $1
		ORDER BY visit_date ASC, created_at ASC`, maternalCols)

	rows, err := r.conn(ctx).Query(ctx, query, pregnancyID)
	if err != nil {
		return nil, fmt.Errorf("listing pregnancy visits: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *PostgresMaternalRepository) LatestANCByResident(ctx context.Context, residentID uuid.UUID) (*MaternalVisit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM maternal_health
		WHERE resident_id = $1 AND visit_type = 'ANC'
		ORDER BY visit_date DESC, created_at DESC
		LIMIT 1`, maternalCols)

	v, err := scanMaternal(r.conn(ctx).QueryRow(ctx, query, residentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no antenatal visits for resident: %s", residentID)
		}
		return nil, fmt.Errorf("getting latest antenatal visit: %w", err)
	}
	return v, nil
}

func (r *PostgresMaternalRepository) ListHighRisk(ctx context.Context) ([]*HighRiskPregnancy, error) {
	query := `
		SELECT resident_id, resident_name, unique_id, village_area, pregnancy_id,
			gestational_week, systolic_bp, hemoglobin, danger_signs, alerts, visit_date
		FROM (
			SELECT DISTINCT ON (m.resident_id)
				m.resident_id, r.name AS resident_name, r.unique_id, r.village_area,
				m.pregnancy_id, m.gestational_week, m.systolic_bp, m.hemoglobin,
				m.danger_signs, m.alerts, m.visit_date
			FROM maternal_health m
			JOIN residents r ON r.id = m.resident_id
			WHERE m.visit_type = 'ANC'
			ORDER BY m.resident_id, m.visit_date DESC, m.created_at DESC
		) latest
		WHERE systolic_bp >= 140
			OR (hemoglobin > 0 AND hemoglobin < 11)
			OR COALESCE(danger_signs, '') <> ''
		ORDER BY visit_date DESC`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing high risk pregnancies: %w", err)
	}
	defer rows.Close()

	var pregnancies []*HighRiskPregnancy
	for rows.Next() {
		var p HighRiskPregnancy
		err := rows.Scan(
			&p.ResidentID, &p.ResidentName, &p.UniqueID, &p.VillageArea, &p.PregnancyID,
			&p.GestationalWeek, &p.SystolicBP, &p.Hemoglobin, &p.DangerSigns, &p.Alerts, &p.VisitDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning high risk pregnancy: %w", err)
		}
		pregnancies = append(pregnancies, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating high risk pregnancies: %w", err)
	}
	return pregnancies, nil
}

func (r *PostgresMaternalRepository) ActivePregnancyCount(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(DISTINCT pregnancy_id) FROM maternal_health
		WHERE visit_type = 'ANC' AND lmp_date >= NOW() - INTERVAL '280 days'`

	var count int
	if err := r.conn(ctx).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active pregnancies: %w", err)
	}
	return count, nil
}

func (r *PostgresMaternalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM maternal_health WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting maternal visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("maternal visit not found: %s", id)
	}
	return nil
}

func collect(rows pgx.Rows) ([]*MaternalVisit, error) {
	var visits []*MaternalVisit
	for rows.Next() {
		v, err := scanMaternal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning maternal visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating maternal visits: %w", err)
	}
	return visits, nil
}
