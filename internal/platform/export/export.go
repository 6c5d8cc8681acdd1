// Package export renders registry data as downloadable CSV files and styled
// XLSX workbooks. Each dataset has a fixed, documented column order; the
// queries read stored rows only and never recompute derived fields.
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
	"github.com/vht/vht/internal/platform/metrics"
)

// Dataset keys accepted by the export endpoint.
const (
	DatasetResidents      = "residents"
	DatasetVisits         = "visits"
	DatasetMedicalHistory = "medical-history"

	// DatasetAll bundles every dataset into one workbook, one sheet each.
	DatasetAll = "all"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	ErrUnknownDataset = errors.New("unknown export dataset")
	ErrTooManyRows    = errors.New("export exceeds the configured row cap")
)

// Datasets lists the single-entity dataset keys in workbook sheet order.
var Datasets = []string{DatasetResidents, DatasetVisits, DatasetMedicalHistory}

// Range restricts an export by date. A zero From or To leaves that side
// unbounded; To is inclusive of the whole day it names.
type Range struct {
	From time.Time
	To   time.Time
}

// Table is one dataset snapshot ready for encoding. Rows are already
// formatted as display strings in the same order as Headers.
type Table struct {
	Key     string
	Title   string
	Headers []string
	Rows    [][]string
}

// datasetSpec fixes the column order and date filter for one dataset.
type datasetSpec struct {
	Title      string
	Headers    []string
	SelectSQL  string
	DateColumn string
	OrderBy    string
}

var specs = map[string]datasetSpec{
	DatasetResidents: {
		Title: "Residents",
		Headers: []string{"Registry No", "Name", "Age", "Gender", "Phone", "Village/Area",
			"Address", "Registration Date", "Registered By"},
		SelectSQL: `SELECT r.unique_id, r.name, r.age, r.gender, r.phone, r.village_area,
			r.address, r.registration_date, r.registered_by
		FROM residents r`,
		DateColumn: "r.registration_date",
		OrderBy:    "r.unique_id",
	},
	DatasetVisits: {
		Title: "Visits",
		Headers: []string{"Registry No", "Resident Name", "Visit Date", "Visit Type",
			"Systolic BP", "Diastolic BP", "Temperature (F)", "Pulse Rate", "SpO2",
			"Weight (kg)", "Height (cm)", "BMI", "BMI Category",
			"Symptoms", "Diagnosis", "Treatment", "Health Worker", "Notes"},
		SelectSQL: `SELECT r.unique_id, r.name, v.visit_date, v.visit_type, v.systolic_bp,
			v.diastolic_bp, v.temperature_f, v.pulse_rate, v.spo2, v.weight_kg, v.height_cm,
			v.bmi, v.bmi_category, v.symptoms, v.diagnosis, v.treatment, v.health_worker, v.notes
		FROM visits v
		JOIN residents r ON r.id = v.resident_id`,
		DateColumn: "v.visit_date",
		OrderBy:    "v.visit_date, r.unique_id",
	},
	DatasetMedicalHistory: {
		Title: "Medical History",
		Headers: []string{"Registry No", "Resident Name", "Chronic Conditions", "Allergies",
			"Current Medications", "Past Surgeries", "Family History", "Immunization Notes",
			"Updated By", "Updated At"},
		SelectSQL: `SELECT r.unique_id, r.name, h.chronic_conditions, h.allergies,
			h.current_medications, h.past_surgeries, h.family_history, h.immunization_notes,
			h.updated_by, h.updated_at
		FROM medical_history h
		JOIN residents r ON r.id = h.resident_id`,
		DateColumn: "h.updated_at",
		OrderBy:    "r.unique_id",
	},
}

const defaultRowCap = 50000

// Exporter runs dataset queries and materializes them as Tables.
type Exporter struct {
	pool   *pgxpool.Pool
	rowCap int
}

// NewExporter creates an exporter. rowCap bounds the number of rows a single
// dataset may return; values below one fall back to the default.
func NewExporter(pool *pgxpool.Pool, rowCap int) *Exporter {
	if rowCap < 1 {
		rowCap = defaultRowCap
	}
	return &Exporter{pool: pool, rowCap: rowCap}
}

func (e *Exporter) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return e.pool
}

// Fetch materializes one dataset. The range filters on the dataset's date
// column; exceeding the row cap aborts with ErrTooManyRows rather than
// truncating silently.
func (e *Exporter) Fetch(ctx context.Context, dataset string, rng Range) (*Table, error) {
	spec, ok := specs[dataset]
	if !ok {
		return nil, ErrUnknownDataset
	}
	return e.fetch(ctx, dataset, spec, rng)
}

// FetchAll materializes every dataset inside a single transaction, so the
// combined workbook is a consistent snapshot of the registry.
func (e *Exporter) FetchAll(ctx context.Context, rng Range) ([]*Table, error) {
	tables := make([]*Table, 0, len(Datasets))
	err := db.InTx(ctx, e.pool, func(ctx context.Context) error {
		for _, key := range Datasets {
			t, err := e.fetch(ctx, key, specs[key], rng)
			if err != nil {
				return err
			}
			tables = append(tables, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (e *Exporter) fetch(ctx context.Context, key string, spec datasetSpec, rng Range) (*Table, error) {
	query, args := buildQuery(spec, rng, e.rowCap+1)

	start := time.Now()
	defer func() { metrics.RecordDBQuery("export_"+key, time.Since(start)) }()

	rows, err := e.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", key, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("export %s: read row: %w", key, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = formatCell(v)
		}
		out = append(out, rec)
		if len(out) > e.rowCap {
			return nil, ErrTooManyRows
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("export %s: %w", key, err)
	}

	return &Table{Key: key, Title: spec.Title, Headers: spec.Headers, Rows: out}, nil
}

// buildQuery appends the optional date-range filter and the row limit. The
// upper bound is widened by a day so To covers its whole calendar day.
func buildQuery(spec datasetSpec, rng Range, limit int) (string, []interface{}) {
	query := spec.SelectSQL + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if !rng.From.IsZero() {
		query += fmt.Sprintf(` AND %s >= $%d`, spec.DateColumn, idx)
		args = append(args, rng.From)
		idx++
	}
	if !rng.To.IsZero() {
		query += fmt.Sprintf(` AND %s < $%d`, spec.DateColumn, idx)
		args = append(args, rng.To.AddDate(0, 0, 1))
		idx++
	}

	query += ` ORDER BY ` + spec.OrderBy + fmt.Sprintf(` LIMIT $%d`, idx)
	args = append(args, limit)
	return query, args
}

// formatCell renders a scanned value as spreadsheet text. Midnight-exact
// timestamps print as bare dates, matching how date columns come back.
func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}
