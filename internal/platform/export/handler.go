package export

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vht/vht/internal/platform/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves dataset downloads.
type Handler struct {
	exporter *Exporter
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// RegisterRoutes registers the export endpoint on the provided group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/exports/:entity", h.Export)
}

// Export handles GET /exports/:entity?format=csv|xlsx&from=&to=. The special
// entity "all" produces one workbook with a sheet per dataset.
func (h *Handler) Export(c echo.Context) error {
	entity := c.Param("entity")

	format := c.QueryParam("format")
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be csv or xlsx")
	}

	rng, err := parseRange(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var tables []*Table
	switch entity {
	case DatasetAll:
		if format != FormatXLSX {
			return echo.NewHTTPError(http.StatusBadRequest, "the combined export is only available as xlsx")
		}
		tables, err = h.exporter.FetchAll(ctx, rng)
	default:
		var t *Table
		t, err = h.exporter.Fetch(ctx, entity, rng)
		tables = []*Table{t}
	}
	switch {
	case errors.Is(err, ErrUnknownDataset):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTooManyRows):
		return echo.NewHTTPError(http.StatusBadRequest, "export exceeds the row cap; narrow the date range")
	case err != nil:
		return err
	}

	filename := fmt.Sprintf("%s_%s.%s", entity, time.Now().UTC().Format("20060102_150405"), format)
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case FormatCSV:
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().WriteHeader(http.StatusOK)
		err = WriteCSV(c.Response(), tables[0])
	case FormatXLSX:
		c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		c.Response().WriteHeader(http.StatusOK)
		err = WriteXLSX(c.Response(), tables...)
	}
	if err != nil {
		return err
	}

	metrics.RecordExport(entity, format)
	return nil
}

// parseRange reads the optional from/to query parameters as calendar dates.
func parseRange(c echo.Context) (Range, error) {
	var rng Range
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return rng, fmt.Errorf("from must be a date in YYYY-MM-DD form")
		}
		rng.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return rng, fmt.Errorf("to must be a date in YYYY-MM-DD form")
		}
		rng.To = t
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return rng, fmt.Errorf("to must not be before from")
	}
	return rng, nil
}
