package identifier

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
)

// Allocator hands out the next resident identifier for a year. Unlike the
// pure scan in Next, an Allocator must stay collision-free under concurrent
// registrations.
type Allocator interface {
	NextID(ctx context.Context, year int) (string, error)
}

// AllocatorPG allocates identifiers from a per-year counter row, incremented
// in a single upsert statement so two concurrent registrations can never
// observe the same sequence. The counter is seeded from existing identifiers
// by migration; residents additionally carry a unique constraint as a
// backstop, with the caller retrying allocation on conflict.
type AllocatorPG struct {
	pool *pgxpool.Pool
}

func NewAllocatorPG(pool *pgxpool.Pool) *AllocatorPG {
	return &AllocatorPG{pool: pool}
}

func (a *AllocatorPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return a.pool
}

const nextSeqSQL = `
INSERT INTO resident_id_seq (year, last_seq)
VALUES ($1, 1)
ON CONFLICT (year) DO UPDATE SET last_seq = resident_id_seq.last_seq + 1
RETURNING last_seq`

// NextID returns a freshly allocated identifier for the given year.
func (a *AllocatorPG) NextID(ctx context.Context, year int) (string, error) {
	var seq int
	if err := a.conn(ctx).QueryRow(ctx, nextSeqSQL, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("allocate resident id for year %d: %w", year, err)
	}
	return Format(year, seq), nil
}
