package employeeerrors

import (
	"hr-ops/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same id already exists",
		http.StatusConflict,
	)
	ErrEmployeeEmailExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidLabel = apperror.New(
		apperror.CodeInvalidInput,
		"Employee label must look like \"<id> - <name>\"",
		http.StatusBadRequest,
	)
)
