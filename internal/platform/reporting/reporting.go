package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/metrics"
)

// Measure is a named dashboard query. The SQL reads raw columns and the
// derived fields stored at entry time (z-scores, status colors, EDD); it
// never recomputes a clinical derivation.
type Measure struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SQL         string `json:"-"`
}

// Report holds the result of evaluating one measure.
type Report struct {
	Key         string           `json:"key"`
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generated_at"`
	Rows        []map[string]any `json:"rows"`
}

// Catalog is the list of available dashboard measures.
var Catalog = []Measure{
	{
		Key:         "headline",
		Title:       "Headline Figures",
		Description: "Total residents, registrations and visits this month, children under five, active pregnancies",
		SQL: `SELECT
			(SELECT COUNT(*) FROM residents) AS total_residents,
			(SELECT COUNT(*) FROM residents
				WHERE date_trunc('month', registration_date) = date_trunc('month', NOW())) AS residents_this_month,
			(SELECT COUNT(*) FROM visits
				WHERE date_trunc('month', visit_date) = date_trunc('month', NOW())) AS visits_this_month,
			(SELECT COUNT(*) FROM residents WHERE age < 5) AS children_under_five,
			(SELECT COUNT(DISTINCT pregnancy_id) FROM maternal_health
				WHERE visit_type = 'ANC' AND lmp_date >= NOW() - INTERVAL '280 days') AS active_pregnancies`,
	},
	{
		Key:         "age_bands",
		Title:       "Age Distribution",
		Description: "Residents bucketed into demographic age bands, unknown ages excluded",
		SQL: `SELECT CASE
				WHEN age < 18 THEN 'Child'
				WHEN age < 40 THEN 'Adult'
				WHEN age < 60 THEN 'Middle Age'
				ELSE 'Senior'
			END AS age_band, COUNT(*) AS total
			FROM residents
			WHERE age IS NOT NULL
			GROUP BY age_band
			ORDER BY total DESC`,
	},
	{
		Key:         "gender_distribution",
		Title:       "Gender Distribution",
		Description: "Resident counts by gender",
		SQL: `SELECT gender, COUNT(*) AS total
			FROM residents
			GROUP BY gender
			ORDER BY total DESC`,
	},
	{
		Key:         "registrations_monthly",
		Title:       "Monthly Registrations",
		Description: "New resident registrations per calendar month",
		SQL: `SELECT to_char(registration_date, 'YYYY-MM') AS month, COUNT(*) AS total
			FROM residents
			GROUP BY month
			ORDER BY month`,
	},
	{
		Key:         "visits_monthly",
		Title:       "Monthly Visits",
		Description: "Clinical visits per calendar month",
		SQL: `SELECT to_char(visit_date, 'YYYY-MM') AS month, COUNT(*) AS total
			FROM visits
			GROUP BY month
			ORDER BY month`,
	},
	{
		Key:         "visits_by_worker",
		Title:       "Visits by Health Worker",
		Description: "Visit counts per recording health worker",
		SQL: `SELECT COALESCE(health_worker, 'Unknown') AS health_worker, COUNT(*) AS total
			FROM visits
			GROUP BY COALESCE(health_worker, 'Unknown')
			ORDER BY total DESC`,
	},
	{
		Key:         "village_distribution",
		Title:       "Village Distribution",
		Description: "Resident counts by village area",
		SQL: `SELECT COALESCE(village_area, 'Unknown') AS village_area, COUNT(*) AS total
			FROM residents
			GROUP BY COALESCE(village_area, 'Unknown')
			ORDER BY total DESC`,
	},
	{
		Key:         "child_nutrition",
		Title:       "Child Nutrition Overview",
		Description: "Children split Normal vs Malnourished on the latest stored weight-for-age z-score",
		SQL: `SELECT CASE WHEN z_score_weight < -2 THEN 'Malnourished' ELSE 'Normal' END AS category,
			COUNT(*) AS total
			FROM (
				SELECT DISTINCT ON (resident_id) z_score_weight
				FROM growth_monitoring
				ORDER BY resident_id, measurement_date DESC, created_at DESC
			) latest
			GROUP BY category
			ORDER BY category`,
	},
	{
		Key:         "maternal_summary",
		Title:       "Maternal Program Summary",
		Description: "ANC/PNC visit counts, active pregnancies and high-risk pregnancies",
		SQL: `SELECT
			(SELECT COUNT(*) FROM maternal_health WHERE visit_type = 'ANC') AS anc_visits,
			(SELECT COUNT(*) FROM maternal_health WHERE visit_type = 'PNC') AS pnc_visits,
			(SELECT COUNT(DISTINCT pregnancy_id) FROM maternal_health
				WHERE visit_type = 'ANC' AND lmp_date >= NOW() - INTERVAL '280 days') AS active_pregnancies,
			(SELECT COUNT(*) FROM (
				SELECT DISTINCT ON (resident_id) systolic_bp, hemoglobin, danger_signs
				FROM maternal_health
				WHERE visit_type = 'ANC'
				ORDER BY resident_id, visit_date DESC, created_at DESC
			) latest
			WHERE systolic_bp >= 140
				OR (hemoglobin > 0 AND hemoglobin < 11)
				OR COALESCE(danger_signs, '') <> '') AS high_risk_pregnancies`,
	},
	{
		Key:         "ncd_summary",
		Title:       "NCD Program Summary",
		Description: "Tracked NCD patients overall, by condition, and by latest stored status color",
		SQL: `SELECT 'patients' AS dimension, 'All' AS label, COUNT(DISTINCT resident_id) AS total
			FROM ncd_followup
			UNION ALL
			SELECT 'condition', condition_type, COUNT(DISTINCT resident_id)
			FROM ncd_followup
			GROUP BY condition_type
			UNION ALL
			SELECT 'status', status_color, COUNT(*)
			FROM (
				SELECT DISTINCT ON (resident_id) status_color
				FROM ncd_followup
				ORDER BY resident_id, visit_date DESC, created_at DESC
			) latest
			GROUP BY status_color
			ORDER BY dimension, total DESC`,
	},
	{
		Key:         "ncd_uncontrolled_bp_trend",
		Title:       "Uncontrolled BP Trend",
		Description: "Monthly NCD checkups with systolic above 140 over the last 180 days",
		SQL: `SELECT to_char(visit_date, 'YYYY-MM') AS month, COUNT(*) AS total
			FROM ncd_followup
			WHERE systolic_bp > 140 AND visit_date >= NOW() - INTERVAL '180 days'
			GROUP BY month
			ORDER BY month`,
	},
}

// FindMeasure looks up a catalog measure by key.
func FindMeasure(key string) *Measure {
	for i := range Catalog {
		if Catalog[i].Key == key {
			return &Catalog[i]
		}
	}
	return nil
}

// Handler serves the reports API.
type Handler struct {
	pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports", h.ListMeasures)
	api.GET("/reports/:key", h.Evaluate)
}

// ListMeasures returns the measure catalog without SQL bodies.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"measures": Catalog,
		"total":    len(Catalog),
	})
}

// Evaluate runs one measure and returns its rows.
func (h *Handler) Evaluate(c echo.Context) error {
	measure := FindMeasure(c.Param("key"))
	if measure == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}

	start := time.Now()
	rows, err := h.query(c.Request().Context(), measure.SQL)
	metrics.RecordDBQuery("report_"+measure.Key, time.Since(start))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("evaluating measure: %v", err))
	}

	return c.JSON(http.StatusOK, Report{
		Key:         measure.Key,
		Title:       measure.Title,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	})
}

// query runs a measure's SQL and maps each row by column name.
func (h *Handler) query(ctx context.Context, sql string) ([]map[string]any, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	results := []map[string]any{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
