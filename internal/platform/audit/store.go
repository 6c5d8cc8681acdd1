package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
)

// Entry is one stored access-trail row.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	WorkerID   string    `json:"worker_id"`
	Role       string    `json:"role"`
	Resource   string    `json:"resource"`
	ResidentID string    `json:"resident_id,omitempty"`
	Action     string    `json:"action"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SearchParams filter the trail. Zero fields do not filter; To covers the
// whole day it names.
type SearchParams struct {
	WorkerID   string
	ResidentID string
	Action     string
	Resource   string
	From       time.Time
	To         time.Time
}

// Summary aggregates the matching slice of the trail.
type Summary struct {
	Total      int            `json:"total"`
	ByAction   map[string]int `json:"by_action"`
	ByResource map[string]int `json:"by_resource"`
	ByWorker   map[string]int `json:"by_worker"`
}

// topWorkers bounds the by-worker breakdown in summaries.
const topWorkers = 10

// Store reads the trail back for the admin endpoints.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return s.pool
}

const auditCols = `id, worker_id, role, resource, resident_id, action,
	ip_address, user_agent, path, method, status_code, request_id, occurred_at`

// searchWhere renders the filter as a WHERE tail and returns the next free
// placeholder index.
func searchWhere(p SearchParams) (string, []interface{}, int) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if p.WorkerID != "" {
		where += fmt.Sprintf(` AND worker_id = $%d`, idx)
		args = append(args, p.WorkerID)
		idx++
	}
	if p.ResidentID != "" {
		where += fmt.Sprintf(` AND resident_id = $%d`, idx)
		args = append(args, p.ResidentID)
		idx++
	}
	if p.Action != "" {
		where += fmt.Sprintf(` AND action = $%d`, idx)
		args = append(args, p.Action)
		idx++
	}
	if p.Resource != "" {
		where += fmt.Sprintf(` AND resource = $%d`, idx)
		args = append(args, p.Resource)
		idx++
	}
	if !p.From.IsZero() {
		where += fmt.Sprintf(` AND occurred_at >= $%d`, idx)
		args = append(args, p.From)
		idx++
	}
	if !p.To.IsZero() {
		where += fmt.Sprintf(` AND occurred_at < $%d`, idx)
		args = append(args, p.To.AddDate(0, 0, 1))
		idx++
	}
	return where, args, idx
}

// Search returns matching entries, newest first.
func (s *Store) Search(ctx context.Context, p SearchParams, limit, offset int) ([]*Entry, int, error) {
	where, args, idx := searchWhere(p)

	var total int
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := `SELECT ` + auditCols + ` FROM audit_log` + where +
		fmt.Sprintf(` ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.Role, &e.Resource, &e.ResidentID,
			&e.Action, &e.IPAddress, &e.UserAgent, &e.Path, &e.Method,
			&e.StatusCode, &e.RequestID, &e.OccurredAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

// Summarize aggregates matching entries by action, resource, and worker.
func (s *Store) Summarize(ctx context.Context, p SearchParams) (*Summary, error) {
	where, args, _ := searchWhere(p)

	sum := &Summary{
		ByAction:   make(map[string]int),
		ByResource: make(map[string]int),
		ByWorker:   make(map[string]int),
	}
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&sum.Total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}
	if err := s.groupCount(ctx, `action`, where, args, sum.ByAction, 0); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, `resource`, where, args, sum.ByResource, 0); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, `worker_id`, where, args, sum.ByWorker, topWorkers); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *Store) groupCount(ctx context.Context, column, where string, args []interface{}, into map[string]int, limit int) error {
	query := `SELECT ` + column + `, COUNT(*) FROM audit_log` + where +
		` GROUP BY ` + column + ` ORDER BY COUNT(*) DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("group audit entries by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan audit group: %w", err)
		}
		into[key] = n
	}
	return rows.Err()
}
