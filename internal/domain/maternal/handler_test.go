package maternal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo, uuid.UUID) {
	svc, repo, dir := newTestService()
	motherID := addMother(repo, dir, "Radha Devi", "VH-2025-0003")
	return NewHandler(svc), echo.New(), motherID
}

func TestHandler_CreateANC(t *testing.T) {
	h, e, motherID := newTestHandler()
	body := `{"resident_id":"` + motherID.String() + `","visit_date":"2025-03-12T00:00:00Z","lmp_date":"2025-01-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateANC(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created MaternalVisit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("error unmarshaling: %v", err)
	}
	if created.GestationalWeek == nil || *created.GestationalWeek != 10 {
		t.Errorf("gestational week = %v, want 10", created.GestationalWeek)
	}
	if created.PregnancyID == nil || !strings.HasPrefix(*created.PregnancyID, "PREG-") {
		t.Errorf("pregnancy id = %v, want PREG- prefix", created.PregnancyID)
	}
}

func TestHandler_CreateANC_MissingLMP(t *testing.T) {
	h, e, motherID := newTestHandler()
	body := `{"resident_id":"` + motherID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.CreateANC(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if !strings.Contains(he.Message.(string), "LMP date is required") {
		t.Errorf("message %q missing LMP requirement", he.Message)
	}
}

func TestHandler_CreatePNC(t *testing.T) {
	h, e, motherID := newTestHandler()
	body := `{"resident_id":"` + motherID.String() + `","visit_date":"2025-06-08T00:00:00Z","delivery_date":"2025-06-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreatePNC(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created MaternalVisit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("error unmarshaling: %v", err)
	}
	if created.DaysPostpartum == nil || *created.DaysPostpartum != 7 {
		t.Errorf("days postpartum = %v, want 7", created.DaysPostpartum)
	}
}

func TestHandler_GetVisit(t *testing.T) {
	h, e, motherID := newTestHandler()
	lmp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &lmp}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(v.ID.String())
	if err := h.GetVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetVisit_NotFound(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	if err := h.GetVisit(c); err == nil {
		t.Error("expected error for not found")
	}
}

func TestHandler_ListByResident(t *testing.T) {
	h, e, motherID := newTestHandler()
	lmp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &lmp}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(motherID.String())
	if err := h.ListByResident(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected 1 visit, got %d", resp.Total)
	}
}

func TestHandler_ListByPregnancy(t *testing.T) {
	h, e, motherID := newTestHandler()
	lmp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &lmp}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pid")
	c.SetParamValues(*v.PregnancyID)
	if err := h.ListByPregnancy(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), *v.PregnancyID) {
		t.Error("expected pregnancy id in response")
	}
}

func TestHandler_ListHighRisk(t *testing.T) {
	h, e, motherID := newTestHandler()
	lmp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &lmp, SystolicBP: intPtr(155)}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListHighRisk(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Radha Devi") {
		t.Error("expected high risk mother in response")
	}
}

func TestHandler_ActivePregnancyCount(t *testing.T) {
	h, e, motherID := newTestHandler()
	recentLMP := time.Now().UTC().AddDate(0, 0, -60)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &recentLMP}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ActivePregnancyCount(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]int
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["active_pregnancies"] != 1 {
		t.Errorf("active pregnancies = %d, want 1", resp["active_pregnancies"])
	}
}

func TestHandler_DeleteVisit(t *testing.T) {
	h, e, motherID := newTestHandler()
	lmp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &MaternalVisit{ResidentID: motherID, LMPDate: &lmp}
	h.svc.CreateANC(context.Background(), v)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(v.ID.String())
	if err := h.DeleteVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e, _ := newTestHandler()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}

	expected := []string{
		"POST:/api/v1/maternal/anc",
		"POST:/api/v1/maternal/pnc",
		"GET:/api/v1/maternal/high-risk",
		"GET:/api/v1/maternal/pregnancies/active",
		"GET:/api/v1/maternal/by-pregnancy/:pid",
		"GET:/api/v1/maternal/:id",
		"DELETE:/api/v1/maternal/:id",
		"GET:/api/v1/residents/:id/maternal",
	}
	for _, path := range expected {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}
