package zoho

import (
	"fmt"

	"hr-ops/internal/shared/apperror"
)

// APIError is a non-200 response from a Zoho endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zoho api status %d: %s", e.Status, e.Body)
}

func (e *APIError) AppError() *apperror.AppError {
	return apperror.ErrUpstream.WithDetails(map[string]any{"upstream_status": e.Status})
}

// TokenError reports a failed access-token refresh.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("zoho access token: %v", e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func (e *TokenError) AppError() *apperror.AppError {
	return apperror.ErrUpstream
}
