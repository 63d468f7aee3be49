package errors

import "fmt"

// ErrorCode represents a snag error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrIO             ErrorCode = "IO_ERROR"        // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// SnagError represents a structured error with code and HTTP status.
type SnagError struct {
	Code    ErrorCode
	Status  int
	Message string
}

// Error implements the error interface.
func (e *SnagError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SnagError {
	return &SnagError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record or asset.
func NewNotFound(identifier string) *SnagError {
	return &SnagError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
	}
}

// NewIO creates a 500 error wrapping a filesystem failure.
func NewIO(err error) *SnagError {
	msg := "i/o error"
	if err != nil {
		msg = err.Error()
	}
	return &SnagError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SnagError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SnagError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a SnagError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SnagError); ok {
		return sErr.Code == code
	}
	return false
}
