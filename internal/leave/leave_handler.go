package leave

import (
	"net/http"
	"time"

	leaveerrors "hr-ops/internal/leave/errors"
	"hr-ops/internal/shared/apperror"
	"hr-ops/internal/shared/contextutil"
	"hr-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("http leave sync validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	from, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidDateFormat)
		return
	}
	to, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidDateFormat)
		return
	}

	result, err := h.service.Sync(c.Request.Context(), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSyncResponse(result), nil)
}
