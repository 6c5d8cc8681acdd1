package ncd

import (
	"net/http"
	"strconv"

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
	api.GET("/ncd/due", h.DueList)
	api.GET("/ncd/by-status/:color", h.ListByStatus)
	api.GET("/ncd/:id", h.GetFollowup)
	api.GET("/residents/:id/ncd", h.ListByResident)

	write := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleHealthWorker))
	write.POST("/ncd", h.CreateFollowup)
	write.DELETE("/ncd/:id", h.DeleteFollowup)
}

func (h *Handler) CreateFollowup(c echo.Context) error {
	var f NCDFollowup
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.CreateFollowup(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFollowup(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ncd followup id")
	}

	f, err := h.svc.GetFollowup(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListByResident(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}

	page := pagination.FromContext(c)
	followups, total, err := h.svc.ListByResident(c.Request().Context(), residentID, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(followups, total, page.Limit, page.Offset))
}

func (h *Handler) ListByStatus(c echo.Context) error {
	page := pagination.FromContext(c)
	followups, total, err := h.svc.ListByStatus(c.Request().Context(), c.Param("color"), page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(followups, total, page.Limit, page.Offset))
}

func (h *Handler) DueList(c echo.Context) error {
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a non-negative integer")
		}
		days = parsed
	}

	due, err := h.svc.DueList(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"patients": due,
		"total":    len(due),
	})
}

func (h *Handler) DeleteFollowup(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ncd followup id")
	}

	if err := h.svc.DeleteFollowup(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
