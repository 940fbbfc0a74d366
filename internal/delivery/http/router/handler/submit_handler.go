package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"unified-push-server/internal/domain/entity"
	domainerrors "unified-push-server/internal/domain/errors"
	"unified-push-server/internal/usecase"
)

// submitRequest is the wire body of POST /rest/sender (§6): a
// UnifiedPushMessage plus the target application id.
type submitRequest struct {
	AppID string `json:"appId" validate:"required,uuid"`
	entity.UnifiedPushMessage
}

// SubmitHandler backs the push submission entry point (§3, §6).
type SubmitHandler struct {
	splitter usecase.JobSplitter
	logger   *slog.Logger
}

// NewSubmitHandler is the constructor for SubmitHandler, injected by Fx.
func NewSubmitHandler(splitter usecase.JobSplitter, logger *slog.Logger) *SubmitHandler {
	return &SubmitHandler{splitter: splitter, logger: logger}
}

// Submit handles POST /rest/sender.
func (h *SubmitHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	info, err := h.splitter.Split(c.Request().Context(), req.AppID, req.UnifiedPushMessage, c.RealIP(), c.Request().Header.Get("X-Client-Identifier"))
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return c.JSON(appErr.HTTPCode(), map[string]string{"code": appErr.ErrorCode(), "message": appErr.Message()})
		}

		h.logger.Error("push submission failed", slog.Any("error", err))

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to accept push message")
	}

	return c.JSON(http.StatusAccepted, map[string]string{"id": info.ID})
}
