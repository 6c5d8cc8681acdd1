package resident

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/blobstore"
	"github.com/vht/vht/pkg/pagination"
)

// Handler provides HTTP handlers for the resident registry.
type Handler struct {
	svc *Service
}

// NewHandler creates a new resident domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all resident routes. Reads are open to every
// authenticated role; writes require health_worker or admin.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := auth.RequireRole(auth.RoleAdmin, auth.RoleHealthWorker)

	api.GET("/residents", h.ListResidents)
	api.GET("/residents/search", h.SearchResidents)
	api.GET("/residents/:id", h.GetResident)
	api.GET("/residents/by-uid/:uid", h.GetResidentByUniqueID)
	api.GET("/residents/:id/photo", h.GetPhoto)

	api.POST("/residents", h.RegisterResident, write)
	api.PUT("/residents/:id", h.UpdateResident, write)
	api.DELETE("/residents/:id", h.DeleteResident, write)
	api.POST("/residents/:id/photo", h.UploadPhoto, write)
	api.DELETE("/residents/:id/photo", h.DeletePhoto, write)
}

func (h *Handler) RegisterResident(c echo.Context) error {
	var r Resident
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetResident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.GetResident(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "resident not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetResidentByUniqueID(c echo.Context) error {
	r, err := h.svc.GetResidentByUniqueID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "resident not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListResidents(c echo.Context) error {
	pg := pagination.FromContext(c)
	if village := c.QueryParam("village"); village != "" {
		items, total, err := h.svc.ListByVillage(c.Request().Context(), village, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListResidents(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SearchResidents(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := SearchParams{
		Query:   c.QueryParam("q"),
		Village: c.QueryParam("village"),
	}
	items, total, err := h.svc.SearchResidents(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateResident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var r Resident
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id
	if err := h.svc.UpdateResident(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteResident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteResident(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadPhoto accepts a multipart form with a "photo" file field.
func (h *Handler) UploadPhoto(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "photo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	meta, err := h.svc.UploadPhoto(c.Request().Context(), id, file.Header.Get("Content-Type"), src)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrInvalidContentType):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, blobstore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, meta)
}

func (h *Handler) GetPhoto(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rc, meta, err := h.svc.GetPhoto(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, blobstore.ErrPhotoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "photo not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) DeletePhoto(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePhoto(c.Request().Context(), id); err != nil {
		if errors.Is(err, blobstore.ErrPhotoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "photo not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
