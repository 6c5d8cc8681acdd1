package ncd

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
	// DefaultDueThresholdDays is the follow-up interval the due list assumes
	// when no threshold is given.
	DefaultDueThresholdDays = 30
	// criticalAfterDays marks patients unseen for longer as critical.
	criticalAfterDays = 60

	minBloodSugar = 30
	maxBloodSugar = 600
)

// ResidentDirectory resolves patients before a follow-up is recorded.
// Satisfied by resident.Service.
type ResidentDirectory interface {
	GetResident(ctx context.Context, id uuid.UUID) (*resident.Resident, error)
}

type Service struct {
	repo      NCDRepository
	residents ResidentDirectory
}

func NewService(repo NCDRepository, residents ResidentDirectory) *Service {
	return &Service{repo: repo, residents: residents}
}

var validConditions = map[string]bool{
	ConditionHypertension: true,
	ConditionDiabetes:     true,
	ConditionBoth:         true,
	ConditionOther:        true,
}

var validMissedDays = map[string]bool{
	clinical.MissedNone: true,
	clinical.MissedFew:  true,
	clinical.MissedMany: true,
}

var validFootExam = map[string]bool{
	clinical.FootNoIssues:    true,
	clinical.FootMinorIssues: true,
	clinical.FootOpenUlcer:   true,
	clinical.FootNotExamined: true,
}

var validAdherence = map[string]bool{
	AdherenceYes:       true,
	AdherenceNo:        true,
	AdherencePartially: true,
}

var validStatusColors = map[string]bool{
	clinical.StatusRed:    true,
	clinical.StatusYellow: true,
	clinical.StatusGreen:  true,
}

func validateFollowup(f *NCDFollowup) []string {
	var msgs []string
	if f.ResidentID == uuid.Nil {
		msgs = append(msgs, "Resident is required")
	}
	if !validConditions[f.ConditionType] {
		msgs = append(msgs, "Condition must be Hypertension, Diabetes, Hypertension + Diabetes, or Other")
	}
	if ok, msg := clinical.ValidateBloodPressure(f.SystolicBP, f.DiastolicBP); !ok {
		msgs = append(msgs, msg)
	}
	if f.FBS != nil && (*f.FBS < minBloodSugar || *f.FBS > maxBloodSugar) {
		msgs = append(msgs, fmt.Sprintf("Fasting blood sugar must be between %d and %d mg/dL", minBloodSugar, maxBloodSugar))
	}
	if f.RBS != nil && (*f.RBS < minBloodSugar || *f.RBS > maxBloodSugar) {
		msgs = append(msgs, fmt.Sprintf("Random blood sugar must be between %d and %d mg/dL", minBloodSugar, maxBloodSugar))
	}
	if f.MissedMedicationDays != nil && !validMissedDays[*f.MissedMedicationDays] {
		msgs = append(msgs, "Missed medication days must be 0 days, 1-2 days, or 3+ days")
	}
	if f.FootExamStatus != nil && !validFootExam[*f.FootExamStatus] {
		msgs = append(msgs, "Foot exam status must be No Issues, Minor Issues, Open Ulcer, or Not Examined")
	}
	if f.MedicationAdherence != nil && !validAdherence[*f.MedicationAdherence] {
		msgs = append(msgs, "Medication adherence must be Yes, No, or Partially")
	}
	return msgs
}

// CreateFollowup validates a checkup, derives the traffic-light status and
// critical alerts, and stores the result.
func (s *Service) CreateFollowup(ctx context.Context, f *NCDFollowup) error {
	if msgs := validateFollowup(f); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if _, err := s.residents.GetResident(ctx, f.ResidentID); err != nil {
		return fmt.Errorf("resident not found: %w", err)
	}

	if f.VisitDate.IsZero() {
		f.VisitDate = time.Now().UTC()
	}
	if f.HealthWorker == nil {
		if name := auth.WorkerNameFromContext(ctx); name != "" {
			f.HealthWorker = &name
		}
	}

	missed := ""
	if f.MissedMedicationDays != nil {
		missed = *f.MissedMedicationDays
	}
	foot := ""
	if f.FootExamStatus != nil {
		foot = *f.FootExamStatus
	}
	f.StatusColor = clinical.NCDStatusColor(missed, f.SystolicBP, f.RBS, foot, f.VisionChange)
	f.Alerts = clinical.NCDCriticalAlerts(f.SystolicBP, f.DiastolicBP, f.FBS, f.RBS)
	attachIndicators(f)

	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}
	metrics.RecordNCDFollowup(f.StatusColor)
	return nil
}

// attachIndicators labels the point readings on a followup. The labels are
// recomputed on every read, not stored.
func attachIndicators(f *NCDFollowup) {
	if v := clinical.BPIndicator(f.SystolicBP, f.DiastolicBP); v != "" {
		f.BPIndicator = &v
	}
	if v := clinical.FBSIndicator(f.FBS); v != "" {
		f.FBSIndicator = &v
	}
	if v := clinical.RBSIndicator(f.RBS); v != "" {
		f.RBSIndicator = &v
	}
}

func (s *Service) GetFollowup(ctx context.Context, id uuid.UUID) (*NCDFollowup, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attachIndicators(f)
	return f, nil
}

func (s *Service) ListByResident(ctx context.Context, residentID uuid.UUID, limit, offset int) ([]*NCDFollowup, int, error) {
	followups, total, err := s.repo.ListByResident(ctx, residentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, f := range followups {
		attachIndicators(f)
	}
	return followups, total, nil
}

func (s *Service) ListByStatus(ctx context.Context, statusColor string, limit, offset int) ([]*NCDFollowup, int, error) {
	if !validStatusColors[statusColor] {
		return nil, 0, fmt.Errorf("status must be Red, Yellow, or Green")
	}
	followups, total, err := s.repo.ListByStatus(ctx, statusColor, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, f := range followups {
		attachIndicators(f)
	}
	return followups, total, nil
}

// DueList returns patients past their follow-up interval, most overdue
// first. A non-positive threshold falls back to the default of 30 days.
func (s *Service) DueList(ctx context.Context, thresholdDays int) ([]*DueFollowup, error) {
	if thresholdDays <= 0 {
		thresholdDays = DefaultDueThresholdDays
	}
	due, err := s.repo.DueList(ctx, thresholdDays)
	if err != nil {
		return nil, err
	}
	for _, d := range due {
		d.Critical = d.DaysOverdue+thresholdDays > criticalAfterDays
	}
	return due, nil
}

func (s *Service) DeleteFollowup(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
