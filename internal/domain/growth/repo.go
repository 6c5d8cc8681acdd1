package growth

import (
	"context"

	"github.com/google/uuid"
)

// GrowthRepository defines data access for growth monitoring records.
type GrowthRepository interface {
	Create(ctx context.Context, g *GrowthRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*GrowthRecord, error)
	// ListByResident returns a child's records oldest first so the series
	// plots as a growth curve.
	ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*GrowthRecord, int, error)
	LatestByResident(ctx context.Context, residentID uuid.UUID) (*GrowthRecord, error)
	// ListMalnourished returns the latest record per child, keeping only
	// children whose weight-for-age z-score is below -2.
	ListMalnourished(ctx context.Context) ([]*MalnourishedChild, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
