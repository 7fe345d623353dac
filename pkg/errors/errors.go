package errors

import (
	"errors"
	"fmt"
)

// AppError is a structured error raised at the module's input boundaries.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches another AppError by code.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Boundary errors.
var (
	ErrConfigInvalid = &AppError{
		Code:    "CONFIG_INVALID",
		Message: "Invalid configuration",
	}

	ErrCatalogInvalid = &AppError{
		Code:    "CATALOG_INVALID",
		Message: "Invalid permission catalog",
	}

	ErrSelectionInvalid = &AppError{
		Code:    "SELECTION_INVALID",
		Message: "Invalid saved permission selection",
	}

	ErrScriptInvalid = &AppError{
		Code:    "SCRIPT_INVALID",
		Message: "Invalid permission script",
	}

	ErrInternal = &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal error",
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:     ErrInternal.Code,
		Message:  message,
		Internal: err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternal.WithInternal(err)
}
