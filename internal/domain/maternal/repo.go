package maternal

import (
	"context"

	"github.com/google/uuid"
)

// MaternalRepository defines data access for ANC and PNC visit records.
type MaternalRepository interface {
	Create(ctx context.Context, v *MaternalVisit) error
	GetByID(ctx context.Context, id uuid.UUID) (*MaternalVisit, error)
	ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*MaternalVisit, int, error)
	// ListByPregnancy returns all visits sharing a pregnancy identifier,
	// oldest first, so the series reads as the pregnancy timeline.
	ListByPregnancy(ctx context.Context, pregnancyID string) ([]*MaternalVisit, error)
	// LatestANCByResident returns the mother's most recent antenatal visit,
	// used to carry the pregnancy identifier across visits.
	LatestANCByResident(ctx context.Context, residentID uuid.UUID) (*MaternalVisit, error)
	// ListHighRisk returns the latest ANC visit per mother that meets a
	// referral criterion.
	ListHighRisk(ctx context.Context) ([]*HighRiskPregnancy, error)
	// ActivePregnancyCount counts distinct pregnancies whose LMP falls
	// within the last 280 days, i.e. the EDD has not yet passed.
	ActivePregnancyCount(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
