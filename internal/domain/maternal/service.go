package maternal

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

// ResidentDirectory resolves mothers before a visit is recorded. Satisfied
// by resident.Service.
type ResidentDirectory interface {
	GetResident(ctx context.Context, id uuid.UUID) (*resident.Resident, error)
}

type Service struct {
	repo      MaternalRepository
	residents ResidentDirectory
}

func NewService(repo MaternalRepository, residents ResidentDirectory) *Service {
	return &Service{repo: repo, residents: residents}
}

var validUrineAlbumin = map[string]bool{
	AlbuminNil:       true,
	AlbuminTrace:     true,
	AlbuminPlus:      true,
	AlbuminPlusPlus:  true,
	AlbuminThreePlus: true,
}

var validSupplementStatus = map[string]bool{
	SupplementRegular:    true,
	SupplementIrregular:  true,
	SupplementNotStarted: true,
}

func validateShared(v *MaternalVisit) []string {
	var msgs []string
	if v.ResidentID == uuid.Nil {
		msgs = append(msgs, "Resident is required")
	}
	if ok, msg := clinical.ValidateBloodPressure(v.SystolicBP, v.DiastolicBP); !ok {
		msgs = append(msgs, msg)
	}
	if v.Hemoglobin != nil && (*v.Hemoglobin < 3 || *v.Hemoglobin > 20) {
		msgs = append(msgs, "Hemoglobin must be between 3 and 20 g/dL")
	}
	return msgs
}

func validateANC(v *MaternalVisit) []string {
	msgs := validateShared(v)
	if v.LMPDate == nil {
		msgs = append(msgs, "LMP date is required")
	}
	if v.FundalHeightCm != nil && (*v.FundalHeightCm < 4 || *v.FundalHeightCm > 50) {
		msgs = append(msgs, "Fundal height must be between 4 and 50 cm")
	}
	if v.FetalHeartRate != nil && (*v.FetalHeartRate < 60 || *v.FetalHeartRate > 220) {
		msgs = append(msgs, "Fetal heart rate must be between 60 and 220 bpm")
	}
	if v.UrineAlbumin != nil && !validUrineAlbumin[*v.UrineAlbumin] {
		msgs = append(msgs, "Urine albumin must be Nil, Trace, +, ++, or +++")
	}
	if v.TTDose != nil && (*v.TTDose < 0 || *v.TTDose > 5) {
		msgs = append(msgs, "TT dose must be between 0 and 5")
	}
	if v.CalciumIronStatus != nil && !validSupplementStatus[*v.CalciumIronStatus] {
		msgs = append(msgs, "Calcium/iron status must be Regular, Irregular, or Not Started")
	}
	return msgs
}

func validatePNC(v *MaternalVisit) []string {
	msgs := validateShared(v)
	if v.DeliveryDate == nil {
		msgs = append(msgs, "Delivery date is required")
	}
	return msgs
}

func (s *Service) stamp(ctx context.Context, v *MaternalVisit) {
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.HealthWorker == nil {
		if name := auth.WorkerNameFromContext(ctx); name != "" {
			v.HealthWorker = &name
		}
	}
}

func dangerSigns(v *MaternalVisit) string {
	if v.DangerSigns == nil {
		return ""
	}
	return *v.DangerSigns
}

// CreateANC records an antenatal visit: validates the form, carries or mints
// the pregnancy identifier, derives EDD, gestational week and alerts, and
// stores the result.
func (s *Service) CreateANC(ctx context.Context, v *MaternalVisit) error {
	v.VisitType = TypeANC
	if msgs := validateANC(v); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if _, err := s.residents.GetResident(ctx, v.ResidentID); err != nil {
		return fmt.Errorf("resident not found: %w", err)
	}

	s.stamp(ctx, v)

	if v.PregnancyID == nil {
		pid := s.resolvePregnancyID(ctx, v)
		v.PregnancyID = &pid
	}

	v.EDDDate = clinical.EDD(v.LMPDate)
	v.GestationalWeek = clinical.GestationalWeek(v.LMPDate, &v.VisitDate)
	v.Alerts = clinical.ANCAlerts(v.SystolicBP, v.DiastolicBP, v.Hemoglobin, dangerSigns(v))

	if err := s.repo.Create(ctx, v); err != nil {
		return err
	}
	metrics.RecordANCVisit(clinical.HighRiskANC(v.SystolicBP, v.Hemoglobin, dangerSigns(v)))
	return nil
}

// resolvePregnancyID reuses the identifier of the mother's ongoing pregnancy.
// A new one is minted when she has no antenatal history or the previous EDD
// has already passed by the visit date.
func (s *Service) resolvePregnancyID(ctx context.Context, v *MaternalVisit) string {
	latest, err := s.repo.LatestANCByResident(ctx, v.ResidentID)
	if err == nil && latest.PregnancyID != nil &&
		latest.EDDDate != nil && !latest.EDDDate.Before(v.VisitDate) {
		return *latest.PregnancyID
	}
	return NewPregnancyID()
}

// CreatePNC records a postnatal visit: validates the form, derives days
// postpartum and alerts, and stores the result.
func (s *Service) CreatePNC(ctx context.Context, v *MaternalVisit) error {
	v.VisitType = TypePNC
	if msgs := validatePNC(v); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if _, err := s.residents.GetResident(ctx, v.ResidentID); err != nil {
		return fmt.Errorf("resident not found: %w", err)
	}

	s.stamp(ctx, v)

	v.DaysPostpartum = clinical.DaysPostpartum(v.DeliveryDate, &v.VisitDate)
	v.Alerts = clinical.PNCAlerts(v.SystolicBP, v.Hemoglobin, dangerSigns(v))

	if err := s.repo.Create(ctx, v); err != nil {
		return err
	}
	metrics.RecordPNCVisit()
	return nil
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*MaternalVisit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*MaternalVisit, int, error) {
	return s.repo.ListByResident(ctx, residentID, limit, offset)
}

func (s *Service) ListByPregnancy(ctx context.Context, pregnancyID string) ([]*MaternalVisit, error) {
	return s.repo.ListByPregnancy(ctx, pregnancyID)
}

func (s *Service) ListHighRisk(ctx context.Context) ([]*HighRiskPregnancy, error) {
	return s.repo.ListHighRisk(ctx)
}

func (s *Service) ActivePregnancyCount(ctx context.Context) (int, error) {
	return s.repo.ActivePregnancyCount(ctx)
}

func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
