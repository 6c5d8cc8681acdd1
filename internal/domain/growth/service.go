package growth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vht/vht/internal/clinical"
	"github.com/vht/vht/internal/domain/resident"
	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/metrics"
)

const (
	minAgeMonths = 0
	maxAgeMonths = 60
)

// ResidentDirectory resolves a resident so the service can pick the
// sex-specific reference table. Satisfied by resident.Service.
type ResidentDirectory interface {
	GetResident(ctx context.Context, id uuid.UUID) (*resident.Resident, error)
}

type Service struct {
	repo      GrowthRepository
	residents ResidentDirectory
}

func NewService(repo GrowthRepository, residents ResidentDirectory) *Service {
	return &Service{repo: repo, residents: residents}
}

func validateGrowth(g *GrowthRecord) []string {
	var msgs []string
	if g.ResidentID == uuid.Nil {
		msgs = append(msgs, "Resident is required")
	}
	if g.AgeMonths < minAgeMonths || g.AgeMonths > maxAgeMonths {
		msgs = append(msgs, fmt.Sprintf("Age in months must be between %d and %d", minAgeMonths, maxAgeMonths))
	}
	if g.WeightKg <= 0 {
		msgs = append(msgs, "Weight is required")
	} else if ok, msg := clinical.ValidateWeight(&g.WeightKg); !ok {
		msgs = append(msgs, msg)
	}
	if g.HeightCm <= 0 {
		msgs = append(msgs, "Height is required")
	} else if ok, msg := clinical.ValidateHeight(&g.HeightCm); !ok {
		msgs = append(msgs, msg)
	}
	if g.MUACCm != nil && (*g.MUACCm < 5 || *g.MUACCm > 30) {
		msgs = append(msgs, "MUAC must be between 5 and 30 cm")
	}
	return msgs
}

// derive computes the stored assessment fields from the raw measurements.
func derive(g *GrowthRecord, gender string) {
	g.ZScoreWeight = clinical.GrowthZScore(g.WeightKg, g.AgeMonths, gender, clinical.MetricWeightForAge)
	g.ZScoreHeight = clinical.GrowthZScore(g.HeightCm, g.AgeMonths, gender, clinical.MetricHeightForAge)
	g.NutritionStatus = clinical.NutritionStatus(g.ZScoreWeight)

	g.MUACStatus = nil
	if status := clinical.MUACStatus(g.MUACCm); status != "" {
		g.MUACStatus = &status
	}

	g.Alerts = nil
	if g.NutritionStatus == clinical.NutritionUnderweight {
		g.Alerts = append(g.Alerts, "Underweight: weight-for-age z-score below -2")
	}
	if g.ZScoreHeight < -2 {
		g.Alerts = append(g.Alerts, "Stunting: height-for-age z-score below -2")
	}
	if g.MUACStatus != nil && *g.MUACStatus == clinical.MUACSevere {
		g.Alerts = append(g.Alerts, "Severe acute malnutrition: MUAC below 11.5 cm, refer immediately")
	}
	if g.MUACStatus != nil && *g.MUACStatus == clinical.MUACModerate {
		g.Alerts = append(g.Alerts, "Moderate acute malnutrition: MUAC below 12.5 cm")
	}
}

// Record validates a measurement, derives z-scores and status against the
// child's sex-specific reference table, and stores the result.
func (s *Service) Record(ctx context.Context, g *GrowthRecord) error {
	if msgs := validateGrowth(g); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	child, err := s.residents.GetResident(ctx, g.ResidentID)
	if err != nil {
		return fmt.Errorf("resident not found: %w", err)
	}

	if g.MeasurementDate.IsZero() {
		g.MeasurementDate = time.Now().UTC()
	}
	if g.HealthWorker == nil {
		if name := auth.WorkerNameFromContext(ctx); name != "" {
			g.HealthWorker = &name
		}
	}

	derive(g, child.Gender)

	if err := s.repo.Create(ctx, g); err != nil {
		return err
	}
	metrics.RecordGrowthCheck(g.NutritionStatus)
	return nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*GrowthRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*GrowthRecord, int, error) {
	return s.repo.ListByResident(ctx, residentID, limit, offset)
}

func (s *Service) LatestByResident(ctx context.Context, residentID uuid.UUID) (*GrowthRecord, error) {
	return s.repo.LatestByResident(ctx, residentID)
}

func (s *Service) ListMalnourished(ctx context.Context) ([]*MalnourishedChild, error) {
	return s.repo.ListMalnourished(ctx)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
