package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the engine. Every operation failure maps to one of
// these; the transport layer translates codes to HTTP statuses.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeReferenceNotFound      = "REFERENCE_NOT_FOUND"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInvalidQuantity        = "INVALID_QUANTITY"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// NewValidationError creates a VALIDATION_FAILED error
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationFailed, message)
}

// NewReferenceNotFoundError creates a REFERENCE_NOT_FOUND error
func NewReferenceNotFoundError(message string) *DomainError {
	return NewDomainError(CodeReferenceNotFound, message)
}

// NewInvalidStateError creates an INVALID_STATE_TRANSITION error
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidStateTransition, message)
}

// NewInvalidQuantityError creates an INVALID_QUANTITY error
func NewInvalidQuantityError(message string) *DomainError {
	return NewDomainError(CodeInvalidQuantity, message)
}

// NewInvalidAmountError creates an INVALID_AMOUNT error
func NewInvalidAmountError(message string) *DomainError {
	return NewDomainError(CodeInvalidAmount, message)
}

// CodeOf returns the domain error code for err, or empty string if err is not
// a DomainError.
func CodeOf(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err carries the NOT_FOUND code
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsConcurrencyConflict reports whether err carries the CONCURRENCY_CONFLICT code
func IsConcurrencyConflict(err error) bool {
	return CodeOf(err) == CodeConcurrencyConflict
}
