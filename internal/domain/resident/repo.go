package resident

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateUniqueID signals that an insert collided with an existing
// registry number. The service retries with a fresh allocation.
var ErrDuplicateUniqueID = errors.New("unique_id already exists")

// ResidentRepository defines persistence operations for residents.
type ResidentRepository interface {
	Create(ctx context.Context, r *Resident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*Resident, error)
	Update(ctx context.Context, r *Resident) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Resident, int, error)
	ListByVillage(ctx context.Context, village string, limit, offset int) ([]*Resident, int, error)
	Search(ctx context.Context, params SearchParams, limit, offset int) ([]*Resident, int, error)
	SetPhotoID(ctx context.Context, id uuid.UUID, photoID *string) error
}
