package visit

import (
	"context"

	"github.com/google/uuid"
)

// VisitRepository defines persistence operations for clinical visits.
type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*Visit, int, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*RecentVisit, int, error)
	CountByWorker(ctx context.Context) ([]*WorkerVisitCount, error)
}
