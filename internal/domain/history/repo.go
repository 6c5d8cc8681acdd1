package history

import (
	"context"

	"github.com/google/uuid"
)

// HistoryRepository defines persistence operations for medical history.
type HistoryRepository interface {
	GetByResident(ctx context.Context, residentID uuid.UUID) (*MedicalHistory, error)
	Upsert(ctx context.Context, h *MedicalHistory) error
	Delete(ctx context.Context, residentID uuid.UUID) error
}
