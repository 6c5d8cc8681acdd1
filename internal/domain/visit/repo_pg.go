package visit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
)

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository {
	return &visitRepoPG{pool: pool}
}

func (r *visitRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const visitCols = `id, resident_id, visit_date, visit_type, systolic_bp, diastolic_bp,
	temperature_f, pulse_rate, spo2, weight_kg, height_cm, bmi, bmi_category,
	symptoms, diagnosis, treatment, health_worker, notes, created_at, updated_at`

func (r *visitRepoPG) scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.ResidentID, &v.VisitDate, &v.VisitType,
		&v.Systolic, &v.Diastolic, &v.Temperature, &v.Pulse, &v.SpO2,
		&v.WeightKg, &v.HeightCm, &v.BMI, &v.BMICategory,
		&v.Symptoms, &v.Diagnosis, &v.Treatment, &v.HealthWorker, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

func (r *visitRepoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visits (id, resident_id, visit_date, visit_type, systolic_bp, diastolic_bp,
			temperature_f, pulse_rate, spo2, weight_kg, height_cm, bmi, bmi_category,
			symptoms, diagnosis, treatment, health_worker, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		v.ID, v.ResidentID, v.VisitDate, v.VisitType, v.Systolic, v.Diastolic,
		v.Temperature, v.Pulse, v.SpO2, v.WeightKg, v.HeightCm, v.BMI, v.BMICategory,
		v.Symptoms, v.Diagnosis, v.Treatment, v.HealthWorker, v.Notes)
	return err
}

func (r *visitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return r.scanVisit(r.conn(ctx).QueryRow(ctx, `SELECT `+visitCols+` FROM visits WHERE id = $1`, id))
}

func (r *visitRepoPG) Update(ctx context.Context, v *Visit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE visits SET visit_date=$2, visit_type=$3, systolic_bp=$4, diastolic_bp=$5,
			temperature_f=$6, pulse_rate=$7, spo2=$8, weight_kg=$9, height_cm=$10,
			bmi=$11, bmi_category=$12, symptoms=$13, diagnosis=$14, treatment=$15,
			health_worker=$16, notes=$17, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.VisitDate, v.VisitType, v.Systolic, v.Diastolic,
		v.Temperature, v.Pulse, v.SpO2, v.WeightKg, v.HeightCm,
		v.BMI, v.BMICategory, v.Symptoms, v.Diagnosis, v.Treatment,
		v.HealthWorker, v.Notes)
	return err
}

func (r *visitRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM visits WHERE id = $1`, id)
	return err
}

func (r *visitRepoPG) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM visits WHERE resident_id = $1`, residentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+visitCols+` FROM visits WHERE resident_id = $1 ORDER BY visit_date DESC, created_at DESC LIMIT $2 OFFSET $3`, residentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Visit
	for rows.Next() {
		v, err := r.scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, nil
}

func (r *visitRepoPG) ListRecent(ctx context.Context, limit, offset int) ([]*RecentVisit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT v.id, v.resident_id, v.visit_date, v.visit_type, v.systolic_bp, v.diastolic_bp,
			v.temperature_f, v.pulse_rate, v.spo2, v.weight_kg, v.height_cm, v.bmi, v.bmi_category,
			v.symptoms, v.diagnosis, v.treatment, v.health_worker, v.notes, v.created_at, v.updated_at,
			r.name, r.unique_id, r.village_area
		FROM visits v
		JOIN residents r ON r.id = v.resident_id
		ORDER BY v.visit_date DESC, v.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*RecentVisit
	for rows.Next() {
		var rv RecentVisit
		err := rows.Scan(&rv.ID, &rv.ResidentID, &rv.VisitDate, &rv.VisitType,
			&rv.Systolic, &rv.Diastolic, &rv.Temperature, &rv.Pulse, &rv.SpO2,
			&rv.WeightKg, &rv.HeightCm, &rv.BMI, &rv.BMICategory,
			&rv.Symptoms, &rv.Diagnosis, &rv.Treatment, &rv.HealthWorker, &rv.Notes,
			&rv.CreatedAt, &rv.UpdatedAt,
			&rv.ResidentName, &rv.ResidentUniqueID, &rv.VillageArea)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, &rv)
	}
	return items, total, nil
}

func (r *visitRepoPG) CountByWorker(ctx context.Context) ([]*WorkerVisitCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT COALESCE(health_worker, 'Unknown'), COUNT(*)
		FROM visits GROUP BY health_worker ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WorkerVisitCount
	for rows.Next() {
		var wc WorkerVisitCount
		if err := rows.Scan(&wc.HealthWorker, &wc.Count); err != nil {
			return nil, err
		}
		items = append(items, &wc)
	}
	return items, nil
}
