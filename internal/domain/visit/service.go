package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vht/vht/internal/clinical"
	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/metrics"
	"github.com/vht/vht/internal/platform/middleware"
)

var validVisitTypes = map[string]bool{
	TypeRegular:   true,
	TypeFollowUp:  true,
	TypeEmergency: true,
	TypeScreening: true,
}

// Service provides business logic for clinical visits.
type Service struct {
	visits VisitRepository
}

// NewService creates a new visit domain service.
func NewService(visits VisitRepository) *Service {
	return &Service{visits: visits}
}

// sanitizeVisit strips null bytes and control characters from the free-text
// clinical narrative fields.
func sanitizeVisit(v *Visit) {
	v.Symptoms = sanitizeField(v.Symptoms)
	v.Diagnosis = sanitizeField(v.Diagnosis)
	v.Treatment = sanitizeField(v.Treatment)
	v.Notes = sanitizeField(v.Notes)
}

func sanitizeField(s *string) *string {
	if s == nil {
		return nil
	}
	clean := middleware.SanitizeString(*s)
	return &clean
}

// validateVisit checks identity, type, and every vital range, collecting all
// messages so the caller sees the full set of problems at once.
func validateVisit(v *Visit) []string {
	var msgs []string
	if v.ResidentID == uuid.Nil {
		msgs = append(msgs, "resident_id is required")
	}
	if v.VisitType == "" || !validVisitTypes[v.VisitType] {
		msgs = append(msgs, "Visit type must be Regular, Follow-up, Emergency, or Screening")
	}
	msgs = append(msgs, clinical.ValidateVitals(clinical.VitalsInput{
		Systolic:    v.Systolic,
		Diastolic:   v.Diastolic,
		Temperature: v.Temperature,
		Pulse:       v.Pulse,
		SpO2:        v.SpO2,
		WeightKg:    v.WeightKg,
		HeightCm:    v.HeightCm,
	})...)
	return msgs
}

// deriveBMI stamps the stored BMI fields from the recorded weight and height.
func deriveBMI(v *Visit) {
	v.BMI = clinical.BMI(v.WeightKg, v.HeightCm)
	if v.BMI != nil {
		cat := clinical.BMICategory(v.BMI)
		v.BMICategory = &cat
	} else {
		v.BMICategory = nil
	}
}

// CreateVisit validates the full form, derives BMI, and stores the visit.
func (s *Service) CreateVisit(ctx context.Context, v *Visit) error {
	sanitizeVisit(v)
	if msgs := validateVisit(v); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.HealthWorker == nil {
		if name := auth.WorkerNameFromContext(ctx); name != "" {
			v.HealthWorker = &name
		}
	}
	deriveBMI(v)
	if err := s.visits.Create(ctx, v); err != nil {
		return err
	}
	metrics.RecordVisit()
	return nil
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.visits.GetByID(ctx, id)
}

// UpdateVisit re-validates and re-derives BMI before storing.
func (s *Service) UpdateVisit(ctx context.Context, v *Visit) error {
	existing, err := s.visits.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	v.ResidentID = existing.ResidentID
	sanitizeVisit(v)
	if msgs := validateVisit(v); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = existing.VisitDate
	}
	deriveBMI(v)
	return s.visits.Update(ctx, v)
}

func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.visits.Delete(ctx, id)
}

func (s *Service) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	return s.visits.ListByResident(ctx, residentID, limit, offset)
}

func (s *Service) ListRecent(ctx context.Context, limit, offset int) ([]*RecentVisit, int, error) {
	return s.visits.ListRecent(ctx, limit, offset)
}

func (s *Service) CountByWorker(ctx context.Context) ([]*WorkerVisitCount, error) {
	return s.visits.CountByWorker(ctx)
}
