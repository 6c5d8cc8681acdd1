package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vht/vht/internal/platform/auth"
)

// Service provides business logic for resident medical history.
type Service struct {
	histories HistoryRepository
}

// NewService creates a new history domain service.
func NewService(histories HistoryRepository) *Service {
	return &Service{histories: histories}
}

func (s *Service) GetHistory(ctx context.Context, residentID uuid.UUID) (*MedicalHistory, error) {
	return s.histories.GetByResident(ctx, residentID)
}

// UpsertHistory writes the resident's single history row, stamping the
// editing worker from the auth context.
func (s *Service) UpsertHistory(ctx context.Context, h *MedicalHistory) error {
	if h.ResidentID == uuid.Nil {
		return fmt.Errorf("resident_id is required")
	}
	if name := auth.WorkerNameFromContext(ctx); name != "" {
		h.UpdatedBy = &name
	}
	return s.histories.Upsert(ctx, h)
}

func (s *Service) DeleteHistory(ctx context.Context, residentID uuid.UUID) error {
	return s.histories.Delete(ctx, residentID)
}
