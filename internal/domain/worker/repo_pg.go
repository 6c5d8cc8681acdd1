package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
)

type workerRepoPG struct{ pool *pgxpool.Pool }

func NewWorkerRepoPG(pool *pgxpool.Pool) WorkerRepository {
	return &workerRepoPG{pool: pool}
}

func (r *workerRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const workerCols = `id, username, full_name, password_hash, role, active, created_at, updated_at`

func (r *workerRepoPG) scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(&w.ID, &w.Username, &w.FullName, &w.PasswordHash,
		&w.Role, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *workerRepoPG) Create(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_workers (id, username, full_name, password_hash, role, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		w.ID, w.Username, w.FullName, w.PasswordHash, w.Role, w.Active)
	return err
}

func (r *workerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return r.scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM health_workers WHERE id = $1`, id))
}

func (r *workerRepoPG) GetByUsername(ctx context.Context, username string) (*Worker, error) {
	return r.scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM health_workers WHERE username = $1`, username))
}

func (r *workerRepoPG) Update(ctx context.Context, w *Worker) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_workers SET full_name=$2, password_hash=$3, role=$4, active=$5, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.FullName, w.PasswordHash, w.Role, w.Active)
	return err
}

func (r *workerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM health_workers WHERE id = $1`, id)
	return err
}

func (r *workerRepoPG) List(ctx context.Context, limit, offset int) ([]*Worker, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM health_workers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+workerCols+` FROM health_workers ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Worker
	for rows.Next() {
		w, err := r.scanWorker(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, nil
}
