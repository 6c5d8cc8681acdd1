package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newETagEcho(t *testing.T, body string) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(ETag(DefaultETagConfig()))
	e.GET("/api/v1/reports/headline", func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	})
	e.GET("/api/v1/reports/broken", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	e.POST("/api/v1/reports/headline", func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	})
	return e
}

func TestETag_SetsHeadersOnGET(t *testing.T) {
	e := newETagEcho(t, `{"population":1240}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag header to be set")
	}
	if rec.Header().Get("Cache-Control") != "private, max-age=60" {
		t.Errorf("unexpected Cache-Control: %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("Vary") == "" {
		t.Error("expected Vary header to be set")
	}
	if rec.Body.String() != `{"population":1240}` {
		t.Errorf("body was altered: %q", rec.Body.String())
	}
}

func TestETag_ReturnsNotModifiedOnMatch(t *testing.T) {
	e := newETagEcho(t, `{"population":1240}`)

	// First request captures the ETag.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag from first request")
	}

	// Second request revalidates with If-None-Match.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for 304, got %q", rec.Body.String())
	}
}

func TestETag_DifferentBodyDifferentTag(t *testing.T) {
	e1 := newETagEcho(t, `{"population":1240}`)
	e2 := newETagEcho(t, `{"population":1241}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	rec1 := httptest.NewRecorder()
	e1.ServeHTTP(rec1, req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	rec2 := httptest.NewRecorder()
	e2.ServeHTTP(rec2, req)

	if rec1.Header().Get("ETag") == rec2.Header().Get("ETag") {
		t.Error("expected different ETags for different bodies")
	}
}

func TestETag_SkipsNonGET(t *testing.T) {
	e := newETagEcho(t, "ok")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/headline", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Header().Get("ETag") != "" {
		t.Error("expected no ETag on POST response")
	}
}

func TestETag_SkipsErrorResponses(t *testing.T) {
	e := newETagEcho(t, "ok")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/broken", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") != "" {
		t.Error("expected no ETag on error response")
	}
}

func TestETag_WildcardMatch(t *testing.T) {
	e := newETagEcho(t, `{"population":1240}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/headline", nil)
	req.Header.Set("If-None-Match", "*")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304 for wildcard If-None-Match, got %d", rec.Code)
	}
}

func TestEtagMatch(t *testing.T) {
	tests := []struct {
		header string
		etag   string
		want   bool
	}{
		{`W/"abc"`, `W/"abc"`, true},
		{`"abc"`, `W/"abc"`, true}, // weak comparison
		{`W/"abc", W/"def"`, `W/"def"`, true},
		{`W/"abc"`, `W/"def"`, false},
		{`*`, `W/"anything"`, true},
		{``, `W/"abc"`, false},
	}
	for _, tt := range tests {
		if got := etagMatch(tt.header, tt.etag); got != tt.want {
			t.Errorf("etagMatch(%q, %q) = %v, want %v", tt.header, tt.etag, got, tt.want)
		}
	}
}
