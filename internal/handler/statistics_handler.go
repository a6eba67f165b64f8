package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"clegacy/internal/service"
)

const defaultAccessLogLimit = 10

// StatisticsHandler serves the dashboard aggregates and the access log.
type StatisticsHandler struct {
	stats     service.StatisticsService
	accessLog service.AccessLogger
}

// NewStatisticsHandler creates a statistics handler.
func NewStatisticsHandler(stats service.StatisticsService, accessLog service.AccessLogger) *StatisticsHandler {
	return &StatisticsHandler{stats: stats, accessLog: accessLog}
}

// GetStatistics godoc
// @Summary Dashboard statistics
// @Tags statistics
// @Produce json
// @Success 200 {object} model.Statistics
// @Router /statistics [get]
func (h *StatisticsHandler) GetStatistics(c echo.Context) error {
	stats, err := h.stats.Compute(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// RecentAccesses godoc
// @Summary Most recent access log entries, newest first
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(10)
// @Success 200 {array} model.AccessLogEntry
// @Failure 400 {object} errors.ErrorResponse
// @Router /access-log [get]
func (h *StatisticsHandler) RecentAccesses(c echo.Context) error {
	limit := defaultAccessLogLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest("invalid limit")
		}
		limit = n
	}
	entries, err := h.accessLog.Recent(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
