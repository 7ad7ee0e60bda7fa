package dto

import (
	"net/http"

	"github.com/shopstack/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeInternalError = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP statuses
var errorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeReferenceNotFound:      http.StatusNotFound,
	shared.CodeValidationFailed:       http.StatusBadRequest,
	shared.CodeInvalidQuantity:        http.StatusUnprocessableEntity,
	shared.CodeInvalidAmount:          http.StatusUnprocessableEntity,
	shared.CodeInvalidStateTransition: http.StatusConflict,
	shared.CodeConcurrencyConflict:    http.StatusConflict,
	CodeBadRequest:                    http.StatusBadRequest,
	CodeInternalError:                 http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
// for codes the transport does not recognize.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
