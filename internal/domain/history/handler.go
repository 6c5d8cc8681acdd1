package history

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/auth"
)

// Handler provides HTTP handlers for medical history.
type Handler struct {
	svc *Service
}

// NewHandler creates a new history domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the per-resident history routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := auth.RequireRole(auth.RoleAdmin, auth.RoleHealthWorker)

	api.GET("/residents/:id/history", h.GetHistory)
	api.PUT("/residents/:id/history", h.UpsertHistory, write)
	api.DELETE("/residents/:id/history", h.DeleteHistory, write)
}

func (h *Handler) GetHistory(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}
	mh, err := h.svc.GetHistory(c.Request().Context(), residentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medical history not found")
	}
	return c.JSON(http.StatusOK, mh)
}

func (h *Handler) UpsertHistory(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}
	var mh MedicalHistory
	if err := c.Bind(&mh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mh.ResidentID = residentID
	if err := h.svc.UpsertHistory(c.Request().Context(), &mh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, mh)
}

func (h *Handler) DeleteHistory(c echo.Context) error {
	residentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}
	if err := h.svc.DeleteHistory(c.Request().Context(), residentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
