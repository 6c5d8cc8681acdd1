package growth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/growth/malnourished", h.ListMalnourished)
	api.GET("/growth/:id", h.GetRecord)
	api.GET("/residents/:id/growth", h.ListByResident)
	api.GET("/residents/:id/growth/latest", h.Latest)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleHealthWorker))
	write.POST("/growth", h.Record)
	write.DELETE("/growth/:id", h.DeleteRecord)
}

func (h *Handler) Record(c echo.Context) error {
	var g GrowthRecord
	if err := c.Bind(&g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.Record(c.Request().Context(), &g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid growth record id")
	}

	g, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) ListByResident(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}

	page := pagination.FromContext(c)
	records, total, err := h.svc.ListByResident(c.Request().Context(), residentID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, page.Limit, page.Offset))
}

func (h *Handler) Latest(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}

	g, err := h.svc.LatestByResident(c.Request().Context(), residentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) ListMalnourished(c echo.Context) error {
	children, err := h.svc.ListMalnourished(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"children": children,
		"total":    len(children),
	})
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid growth record id")
	}

	if err := h.svc.DeleteRecord(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
