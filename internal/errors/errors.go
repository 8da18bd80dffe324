package errors

import "fmt"

// Error codes
const (
	ErrCodeCardNotFound     = "CARD_NOT_FOUND"
	ErrCodeInvalidRating    = "INVALID_RATING"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "CARD_NOT_FOUND", "INVALID_RATING")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewCardNotFoundError creates a CARD_NOT_FOUND error for the given card id
func NewCardNotFoundError(id string) *AppError {
	return &AppError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("card not found: %s", id),
		Status:  404,
	}
}

// NewInvalidRatingError creates an INVALID_RATING error. The rating was
// rejected before any state mutation.
func NewInvalidRatingError(rating string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidRating,
		Message: fmt.Sprintf("invalid rating: %s", rating),
		Status:  400,
	}
}

// NewStoreUnavailableError creates a STORE_UNAVAILABLE error wrapping the
// failed read/write. The caller owns retry policy.
func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: "card store unavailable",
		Status:  503,
		Err:     err,
	}
}

// NewValidationError creates a VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewBadRequestError creates a BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInternalError creates an INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
