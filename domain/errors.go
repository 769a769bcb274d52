package domain

import "fmt"

// Error codes used across the pipeline
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeIncompleteData    = "INCOMPLETE_DATA"
	ErrCodeMissingAnalysis   = "MISSING_ANALYSIS"
	ErrCodeEmissionFailed    = "EMISSION_FAILED"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// DomainError is the typed error carried across component boundaries
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an arbitrary code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an error for malformed caller input
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates an error for a missing input file
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewIncompleteDataError creates an error for a structural invariant violation.
// Raised only under the fail-fast validation policy.
func NewIncompleteDataError(message string) error {
	return NewDomainError(ErrCodeIncompleteData, message, nil)
}

// NewMissingAnalysisError creates an error for a required category that is
// absent on one or more pages. Raised only under the fail-fast policy.
func NewMissingAnalysisError(message string) error {
	return NewDomainError(ErrCodeMissingAnalysis, message, nil)
}

// NewEmissionError creates an error for a report destination that could not
// be written. Always surfaced to the caller, never swallowed.
func NewEmissionError(message string, cause error) error {
	return NewDomainError(ErrCodeEmissionFailed, message, cause)
}

// NewOutputError creates an error for output rendering failures
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewConfigError creates an error for configuration problems
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewUnsupportedFormatError creates an error for an unknown output format
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}
