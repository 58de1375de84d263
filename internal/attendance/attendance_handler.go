package attendance

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	attendanceerrors "hr-ops/internal/attendance/errors"
	"hr-ops/internal/shared/apperror"
	"hr-ops/internal/shared/contextutil"
	"hr-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 10 << 20

type Handler struct {
	service        ImportService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(service ImportService, maxUploadBytes int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes, logger: l}
}

// writeServiceError adds the failed stage to the error details so callers can
// tell a rejected file from a storage failure.
func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	details := httpErr.Details

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		d := map[string]any{"stage": string(stageErr.Stage)}
		if m, ok := details.(map[string]any); ok {
			for k, v := range m {
				d[k] = v
			}
		}
		details = d
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, details)
}

// Upload imports a spreadsheet sent as the multipart field "file". The
// upload is not archived.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(c, attendanceerrors.ErrFileTooLarge)
			return
		}
		writeServiceError(c, attendanceerrors.ErrMissingFile)
		return
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xls", ".xlsx":
	default:
		writeServiceError(c, attendanceerrors.ErrUnreadableFile.WithDetails(map[string]any{
			"filename": fh.Filename,
		}))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeServiceError(c, attendanceerrors.ErrMissingFile)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		contextutil.GetLogger(c.Request.Context(), h.logger).Error("read uploaded file failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), Source{Name: fh.Filename, Data: data})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toImportResponse(result), nil)
}

// ImportFolder imports the next file waiting in the raw folder.
func (h *Handler) ImportFolder(c *gin.Context) {
	result, err := h.service.ImportFromFolder(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toImportResponse(result), nil)
}
