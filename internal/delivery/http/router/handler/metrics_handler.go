package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"unified-push-server/internal/usecase"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// MetricsHandler backs the admin read path (§6).
type MetricsHandler struct {
	reader usecase.MetricsReader
	logger *slog.Logger
}

// NewMetricsHandler is the constructor for MetricsHandler, injected by Fx.
func NewMetricsHandler(reader usecase.MetricsReader, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{reader: reader, logger: logger}
}

// ListMessages handles GET /rest/metrics/messages/application/:id.
func (h *MetricsHandler) ListMessages(c echo.Context) error {
	appID := c.Param("id")
	if appID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "application id required")
	}

	ctx := c.Request().Context()

	exists, err := h.reader.ApplicationExists(ctx, appID)
	if err != nil {
		h.logger.Error("failed to look up application", slog.Any("error", err))

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up application")
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "application not found")
	}

	page := parseIntDefault(c.QueryParam("page"), 0)
	if page < 0 {
		page = 0
	}

	perPage := parseIntDefault(c.QueryParam("per_page"), defaultPerPage)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	ascending := !strings.EqualFold(c.QueryParam("sort"), "desc")

	search := c.QueryParam("search")

	result, err := h.reader.ListMessages(ctx, appID, page, perPage, ascending, search)
	if err != nil {
		h.logger.Error("failed to list push messages", slog.Any("error", err))

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list push messages")
	}

	snapshot := h.reader.Snapshot(appID)
	c.Response().Header().Set("total", strconv.FormatInt(result.Total, 10))
	c.Response().Header().Set("receivers", strconv.FormatInt(snapshot["receivers"], 10))
	c.Response().Header().Set("appOpenedCounter", strconv.FormatInt(snapshot["appOpenedCounter"], 10))

	return c.JSON(http.StatusOK, result.Messages)
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
