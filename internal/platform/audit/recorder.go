// Package audit persists the access trail emitted by the audit middleware
// and serves the admin endpoints that read it back.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vht/vht/internal/platform/db"
	"github.com/vht/vht/internal/platform/metrics"
	"github.com/vht/vht/internal/platform/middleware"
)

// insertTimeout bounds the audit write, which runs after the response is
// sent and therefore outside the request's own context.
const insertTimeout = 5 * time.Second

// Recorder stores middleware audit entries in the audit_log table.
type Recorder struct {
	q db.Querier
}

var _ middleware.AuditRecorder = (*Recorder)(nil)

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{q: pool}
}

// RecordAccess inserts one access-trail row.
func (r *Recorder) RecordAccess(entry middleware.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_log (id, worker_id, role, resource, resident_id, action,
			ip_address, user_agent, path, method, status_code, request_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		uuid.New(), entry.WorkerID, entry.Role, entry.Resource, entry.ResidentID,
		entry.Action, entry.IPAddress, entry.UserAgent, entry.Path, entry.Method,
		entry.StatusCode, entry.RequestID, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	metrics.RecordAuditEntry()
	return nil
}
