package worker

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/pkg/pagination"
)

// Handler provides HTTP handlers for worker accounts and login.
type Handler struct {
	svc *Service
}

// NewHandler creates a new worker domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the login route onto the public group and account
// management onto the authenticated group. Account management is admin only;
// password change is self-service.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.POST("/auth/login", h.Login)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/workers", h.CreateWorker)
	admin.GET("/workers", h.ListWorkers)
	admin.GET("/workers/:id", h.GetWorker)
	admin.PUT("/workers/:id", h.UpdateWorker)
	admin.DELETE("/workers/:id", h.DeleteWorker)

	api.PUT("/workers/me/password", h.ChangePassword)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	resp, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateWorker(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.CreateWorker(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.GetWorker(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "worker not found")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListWorkers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListWorkers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.UpdateWorker(c.Request().Context(), id, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWorker(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteWorker(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword updates the calling worker's own password.
func (h *Handler) ChangePassword(c echo.Context) error {
	workerID := auth.WorkerIDFromContext(c.Request().Context())
	id, err := uuid.Parse(workerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid worker identity")
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password updated"})
}
