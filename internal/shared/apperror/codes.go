package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInvalidState   = "INVALID_STATE"
	CodeInvalidFormat  = "INVALID_FORMAT"
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeTooManyRequest = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUpstreamError      = "UPSTREAM_ERROR"
)
