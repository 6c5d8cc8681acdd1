package visit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// =========== Mock Repository ===========

type mockVisitRepo struct {
	store map[uuid.UUID]*Visit
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{store: make(map[uuid.UUID]*Visit)}
}

func (m *mockVisitRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	m.store[v.ID] = v
	return nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return v, nil
}

func (m *mockVisitRepo) Update(_ context.Context, v *Visit) error {
	if _, ok := m.store[v.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[v.ID] = v
	return nil
}

func (m *mockVisitRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockVisitRepo) ListByResident(_ context.Context, residentID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	var result []*Visit
	for _, v := range m.store {
		if v.ResidentID == residentID {
			result = append(result, v)
		}
	}
	return result, len(result), nil
}

func (m *mockVisitRepo) ListRecent(_ context.Context, limit, offset int) ([]*RecentVisit, int, error) {
	var result []*RecentVisit
	for _, v := range m.store {
		result = append(result, &RecentVisit{Visit: *v, ResidentName: "Resident", ResidentUniqueID: "VH-2025-0001"})
	}
	return result, len(result), nil
}

func (m *mockVisitRepo) CountByWorker(_ context.Context) ([]*WorkerVisitCount, error) {
	counts := map[string]int{}
	for _, v := range m.store {
		name := "Unknown"
		if v.HealthWorker != nil {
			name = *v.HealthWorker
		}
		counts[name]++
	}
	var result []*WorkerVisitCount
	for name, n := range counts {
		result = append(result, &WorkerVisitCount{HealthWorker: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

// =========== Helpers ===========

func newTestService() *Service {
	return NewService(newMockVisitRepo())
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validVisit() *Visit {
	return &Visit{
		ResidentID: uuid.New(),
		VisitType:  TypeRegular,
		Systolic:   intPtr(120),
		Diastolic:  intPtr(80),
		WeightKg:   floatPtr(70),
		HeightCm:   floatPtr(175),
	}
}

// =========== Create Tests ===========

func TestCreateVisit_Success(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	if err := svc.CreateVisit(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == uuid.Nil {
		t.Fatal("expected non-nil ID")
	}
	if v.VisitDate.IsZero() {
		t.Error("expected visit date to default to now")
	}
}

func TestCreateVisit_DerivesBMI(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	if err := svc.CreateVisit(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.BMI == nil || *v.BMI != 22.9 {
		t.Errorf("expected BMI 22.9, got %v", v.BMI)
	}
	if v.BMICategory == nil || *v.BMICategory != "Normal" {
		t.Errorf("expected category Normal, got %v", v.BMICategory)
	}
}

func TestCreateVisit_NoBMIWithoutHeight(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	v.HeightCm = nil
	if err := svc.CreateVisit(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.BMI != nil {
		t.Errorf("expected nil BMI, got %v", *v.BMI)
	}
	if v.BMICategory != nil {
		t.Errorf("expected nil category, got %v", *v.BMICategory)
	}
}

func TestCreateVisit_MissingResident(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	v.ResidentID = uuid.Nil
	if err := svc.CreateVisit(context.Background(), v); err == nil {
		t.Fatal("expected error for missing resident_id")
	}
}

func TestCreateVisit_InvalidType(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	v.VisitType = "Drop-in"
	if err := svc.CreateVisit(context.Background(), v); err == nil {
		t.Fatal("expected error for invalid visit type")
	}
}

func TestCreateVisit_AggregatesVitalsErrors(t *testing.T) {
	svc := newTestService()
	v := &Visit{
		ResidentID: uuid.New(),
		VisitType:  TypeRegular,
		Systolic:   intPtr(80),
		Diastolic:  intPtr(120),
		Pulse:      intPtr(300),
		SpO2:       intPtr(50),
	}
	err := svc.CreateVisit(context.Background(), v)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"Diastolic BP must be less than Systolic BP",
		"Pulse",
		"SpO2",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}

// =========== Update Tests ===========

func TestUpdateVisit_RederivesBMI(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	svc.CreateVisit(context.Background(), v)

	update := &Visit{
		ID:        v.ID,
		VisitType: TypeFollowUp,
		WeightKg:  floatPtr(80),
		HeightCm:  floatPtr(175),
	}
	if err := svc.UpdateVisit(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.BMI == nil || *update.BMI != 26.1 {
		t.Errorf("expected BMI 26.1 after update, got %v", update.BMI)
	}
	if update.BMICategory == nil || *update.BMICategory != "Overweight" {
		t.Errorf("expected Overweight after update, got %v", update.BMICategory)
	}
}

func TestUpdateVisit_KeepsResident(t *testing.T) {
	svc := newTestService()
	v := validVisit()
	svc.CreateVisit(context.Background(), v)

	update := &Visit{
		ID:         v.ID,
		ResidentID: uuid.New(),
		VisitType:  TypeRegular,
	}
	if err := svc.UpdateVisit(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.ResidentID != v.ResidentID {
		t.Error("expected resident_id to be immutable on update")
	}
}

func TestUpdateVisit_NotFound(t *testing.T) {
	svc := newTestService()
	update := &Visit{ID: uuid.New(), VisitType: TypeRegular}
	if err := svc.UpdateVisit(context.Background(), update); err == nil {
		t.Fatal("expected error for unknown visit")
	}
}

// =========== List Tests ===========

func TestListByResident(t *testing.T) {
	svc := newTestService()
	residentID := uuid.New()
	for i := 0; i < 3; i++ {
		v := validVisit()
		v.ResidentID = residentID
		svc.CreateVisit(context.Background(), v)
	}
	svc.CreateVisit(context.Background(), validVisit())

	items, total, err := svc.ListByResident(context.Background(), residentID, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("expected 3 visits, got %d", total)
	}
}

func TestCountByWorker(t *testing.T) {
	svc := newTestService()
	sita := "Sita Sharma"
	radha := "Radha Patel"
	for i := 0; i < 3; i++ {
		v := validVisit()
		v.HealthWorker = &sita
		svc.CreateVisit(context.Background(), v)
	}
	v := validVisit()
	v.HealthWorker = &radha
	svc.CreateVisit(context.Background(), v)

	counts, err := svc.CountByWorker(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(counts))
	}
	if counts[0].HealthWorker != sita || counts[0].Count != 3 {
		t.Errorf("expected Sita Sharma with 3 visits first, got %+v", counts[0])
	}
}
