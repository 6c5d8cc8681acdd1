package growth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vht/vht/internal/platform/db"
)

// PostgresGrowthRepository implements GrowthRepository backed by the
// growth_monitoring table.
type PostgresGrowthRepository struct {
	pool db.Querier
}

func NewPostgresGrowthRepository(pool db.Querier) *PostgresGrowthRepository {
	return &PostgresGrowthRepository{pool: pool}
}

func (r *PostgresGrowthRepository) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const growthCols = `id, resident_id, measurement_date, age_months, weight_kg, height_cm,
	muac_cm, head_circumference_cm, z_score_weight, z_score_height,
	nutrition_status, muac_status, alerts, health_worker, notes, created_at`

func scanGrowth(row pgx.Row) (*GrowthRecord, error) {
	var g GrowthRecord
	err := row.Scan(
		&g.ID, &g.ResidentID, &g.MeasurementDate, &g.AgeMonths, &g.WeightKg, &g.HeightCm,
		&g.MUACCm, &g.HeadCircumferenceCm, &g.ZScoreWeight, &g.ZScoreHeight,
		&g.NutritionStatus, &g.MUACStatus, &g.Alerts, &g.HealthWorker, &g.Notes, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresGrowthRepository) Create(ctx context.Context, g *GrowthRecord) error {
	query := `
		INSERT INTO growth_monitoring (
			resident_id, measurement_date, age_months, weight_kg, height_cm,
			muac_cm, head_circumference_cm, z_score_weight, z_score_height,
			nutrition_status, muac_status, alerts, health_worker, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := r.conn(ctx).QueryRow(ctx, query,
		g.ResidentID, g.MeasurementDate, g.AgeMonths, g.WeightKg, g.HeightCm,
		g.MUACCm, g.HeadCircumferenceCm, g.ZScoreWeight, g.ZScoreHeight,
		g.NutritionStatus, g.MUACStatus, g.Alerts, g.HealthWorker, g.Notes,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating growth record: %w", err)
	}
	return nil
}

func (r *PostgresGrowthRepository) GetByID(ctx context.Context, id uuid.UUID) (*GrowthRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM growth_monitoring WHERE id = $1`, growthCols)

	g, err := scanGrowth(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("growth record not found: %s", id)
		}
		return nil, fmt.Errorf("getting growth record: %w", err)
	}
	return g, nil
}

func (r *PostgresGrowthRepository) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*GrowthRecord, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM growth_monitoring WHERE resident_id = $1`
	if err := r.conn(ctx).QueryRow(ctx, countQuery, residentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting growth records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM growth_monitoring
		WHERE resident_id = $1
		ORDER BY measurement_date ASC, created_at ASC
		LIMIT $2 OFFSET $3`, growthCols)

	rows, err := r.conn(ctx).Query(ctx, query, residentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing growth records: %w", err)
	}
	defer rows.Close()

	records, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *PostgresGrowthRepository) LatestByResident(ctx context.Context, residentID uuid.UUID) (*GrowthRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM growth_monitoring
		WHERE resident_id = $1
		ORDER BY measurement_date DESC, created_at DESC
		LIMIT 1`, growthCols)

	g, err := scanGrowth(r.conn(ctx).QueryRow(ctx, query, residentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no growth records for resident: %s", residentID)
		}
		return nil, fmt.Errorf("getting latest growth record: %w", err)
	}
	return g, nil
}

func (r *PostgresGrowthRepository) ListMalnourished(ctx context.Context) ([]*MalnourishedChild, error) {
	// DISTINCT ON picks the newest record per child before the z-score filter.
	query := `
		SELECT resident_id, resident_name, unique_id, village_area,
			age_months, z_score_weight, nutrition_status, measurement_date
		FROM (
			SELECT DISTINCT ON (g.resident_id)
				g.resident_id, r.name AS resident_name, r.unique_id, r.village_area,
				g.age_months, g.z_score_weight, g.nutrition_status, g.measurement_date
			FROM growth_monitoring g
			JOIN residents r ON r.id = g.resident_id
			ORDER BY g.resident_id, g.measurement_date DESC, g.created_at DESC
		) latest
		WHERE z_score_weight < -2
		ORDER BY z_score_weight ASC`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing malnourished children: %w", err)
	}
	defer rows.Close()

	var children []*MalnourishedChild
	for rows.Next() {
		var c MalnourishedChild
		err := rows.Scan(
			&c.ResidentID, &c.ResidentName, &c.UniqueID, &c.VillageArea,
			&c.AgeMonths, &c.ZScoreWeight, &c.NutritionStatus, &c.MeasurementDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning malnourished child: %w", err)
		}
		children = append(children, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating malnourished children: %w", err)
	}
	return children, nil
}

func (r *PostgresGrowthRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM growth_monitoring WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting growth record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("growth record not found: %s", id)
	}
	return nil
}

func collect(rows pgx.Rows) ([]*GrowthRecord, error) {
	var records []*GrowthRecord
	for rows.Next() {
		g, err := scanGrowth(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning growth record: %w", err)
		}
		records = append(records, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating growth records: %w", err)
	}
	return records, nil
}
