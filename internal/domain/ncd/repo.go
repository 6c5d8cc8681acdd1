package ncd

import (
	"context"

	"github.com/google/uuid"
)

// NCDRepository defines data access for NCD follow-up records.
type NCDRepository interface {
	Create(ctx context.Context, f *NCDFollowup) error
	GetByID(ctx context.Context, id uuid.UUID) (*NCDFollowup, error)
	ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*NCDFollowup, int, error)
	ListByStatus(ctx context.Context, statusColor string, limit, offset int) ([]*NCDFollowup, int, error)
	// DueList returns patients whose latest follow-up is more than
	// thresholdDays old, most overdue first.
	DueList(ctx context.Context, thresholdDays int) ([]*DueFollowup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
