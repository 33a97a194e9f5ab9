package serving

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the Serving Layer's three read operations (§4.6)
// onto e, the same echo instance the operational health surface uses.
// These are the only HTTP-visible operations the core pipeline exposes;
// everything else (charts, maps, tabs) is the external dashboard's concern.
func (v *View) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/unified", v.handleUnified)
	e.GET("/v1/hourly", v.handleHourly)
	e.GET("/v1/peak", v.handlePeak)
}

func (v *View) handleUnified(c echo.Context) error {
	maxAge := 1 * time.Hour
	if q := c.QueryParam("max_age_seconds"); q != "" {
		secs, err := strconv.Atoi(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_age_seconds")
		}
		maxAge = time.Duration(secs) * time.Second
	}

	rows, source, err := v.GetUnifiedView(c.Request().Context(), maxAge)
	if err != nil {
		v.Logger.Errorw("serving: unified view failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"source": source,
		"rows":   rows,
	})
}

func (v *View) handleHourly(c echo.Context) error {
	days := 7
	if q := c.QueryParam("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		days = n
	}

	rows, err := v.GetHourlySeries(c.Request().Context(), days)
	if err != nil {
		v.Logger.Errorw("serving: hourly series failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (v *View) handlePeak(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	summary, err := v.GetPeakSummary(c.Request().Context(), date)
	if err != nil {
		v.Logger.Errorw("serving: peak summary failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if summary == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, summary)
}
