package timelogerrors

import (
	"net/http"

	"hr-ops/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrStoreFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to store timelog entries",
		http.StatusInternalServerError,
	)
)
