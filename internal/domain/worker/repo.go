package worker

import (
	"context"

	"github.com/google/uuid"
)

// WorkerRepository defines persistence operations for health-worker accounts.
type WorkerRepository interface {
	Create(ctx context.Context, w *Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	GetByUsername(ctx context.Context, username string) (*Worker, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Worker, int, error)
}
