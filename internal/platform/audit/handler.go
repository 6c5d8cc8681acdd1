package audit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vht/vht/pkg/pagination"
)

// Handler serves the access-trail review endpoints. Mount it on an
// admin-guarded group.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/audit", h.Search)
	g.GET("/audit/summary", h.Summary)
}

func parseSearchParams(c echo.Context) (SearchParams, error) {
	p := SearchParams{
		WorkerID:   c.QueryParam("worker_id"),
		ResidentID: c.QueryParam("resident_id"),
		Action:     c.QueryParam("action"),
		Resource:   c.QueryParam("resource"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return p, fmt.Errorf("from must be a date in YYYY-MM-DD form")
		}
		p.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return p, fmt.Errorf("to must be a date in YYYY-MM-DD form")
		}
		p.To = t
	}
	return p, nil
}

// Search handles GET /audit.
func (h *Handler) Search(c echo.Context) error {
	params, err := parseSearchParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page := pagination.FromContext(c)

	entries, total, err := h.store.Search(c.Request().Context(), params, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, page.Limit, page.Offset))
}

// Summary handles GET /audit/summary.
func (h *Handler) Summary(c echo.Context) error {
	params, err := parseSearchParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sum, err := h.store.Summarize(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}
