package maternal

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
	api.GET("/maternal/high-risk", h.ListHighRisk)
	api.GET("/maternal/pregnancies/active", h.ActivePregnancyCount)
	api.GET("/maternal/by-pregnancy/:pid", h.ListByPregnancy)
	api.GET("/maternal/:id", h.GetVisit)
	api.GET("/residents/:id/maternal", h.ListByResident)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleHealthWorker))
	write.POST("/maternal/anc", h.CreateANC)
	write.POST("/maternal/pnc", h.CreatePNC)
	write.DELETE("/maternal/:id", h.DeleteVisit)
}

func (h *Handler) CreateANC(c echo.Context) error {
	var v MaternalVisit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.CreateANC(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) CreatePNC(c echo.Context) error {
	var v MaternalVisit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.CreatePNC(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid maternal visit id")
	}

	v, err := h.svc.GetVisit(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListByResident(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}

	page := pagination.FromContext(c)
	visits, total, err := h.svc.ListByResident(c.Request().Context(), residentID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, page.Limit, page.Offset))
}

func (h *Handler) ListByPregnancy(c echo.Context) error {
	pid := c.Param("pid")
	if pid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pregnancy id is required")
	}

	visits, err := h.svc.ListByPregnancy(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"pregnancy_id": pid,
		"visits":       visits,
		"total":        len(visits),
	})
}

func (h *Handler) ListHighRisk(c echo.Context) error {
	pregnancies, err := h.svc.ListHighRisk(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"pregnancies": pregnancies,
		"total":       len(pregnancies),
	})
}

func (h *Handler) ActivePregnancyCount(c echo.Context) error {
	count, err := h.svc.ActivePregnancyCount(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"active_pregnancies": count})
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid maternal visit id")
	}

	if err := h.svc.DeleteVisit(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
