// Package errors defines the categorized error types used across the
// ledger validation service.
//
// Every user-facing failure is a *LedgerError carrying a category, a stable
// machine-readable code, a human-readable message and, where helpful, a
// suggestion for fixing the problem. Errors wrap their cause so callers can
// use errors.Is/As on the chain.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups related error codes.
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryWorkbook      ErrorCategory = "workbook"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryNetwork       ErrorCategory = "network"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// File errors (upload acceptance)
	CodeInvalidFileType ErrorCode = "invalid_file_type"
	CodeFileTooLarge    ErrorCode = "file_too_large"
	CodeFileCorrupted   ErrorCode = "file_corrupted"

	// Parse errors (malformed CSV/Excel)
	CodeParseFailed   ErrorCode = "parse_failed"
	CodeEncodingError ErrorCode = "encoding_error"
	CodeEmptyWorkbook ErrorCode = "empty_workbook"

	// Validation errors
	CodeInvalidRule   ErrorCode = "invalid_rule"
	CodeUnknownFix    ErrorCode = "unknown_fix"
	CodeInvalidAmount ErrorCode = "invalid_amount"

	// Workbook state errors
	CodeNoActiveWorkbook  ErrorCode = "no_active_workbook"
	CodeUnknownSheet      ErrorCode = "unknown_sheet"
	CodeInvalidCellTarget ErrorCode = "invalid_cell_target"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Network errors (SMTP delivery)
	CodeDeliveryFailed ErrorCode = "delivery_failed"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// LedgerError is the base error type for all application errors.
type LedgerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional structured information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error category to an HTTP response status.
func (e *LedgerError) HTTPStatus() int {
	switch e.Category {
	case CategoryFile, CategoryParse, CategoryValidation:
		return 400
	case CategoryWorkbook:
		if e.Code == CodeNoActiveWorkbook {
			return 404
		}
		return 400
	case CategoryConfiguration:
		return 500
	case CategoryNetwork:
		return 502
	default:
		return 500
	}
}

// WithContext adds context information to the error.
func (e *LedgerError) WithContext(key string, value interface{}) *LedgerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *LedgerError) WithSuggestion(suggestion string) *LedgerError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LedgerError.
func New(category ErrorCategory, code ErrorCode, message string) *LedgerError {
	return &LedgerError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with LedgerError context.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *LedgerError {
	if err == nil {
		return nil
	}
	return &LedgerError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// UploadError creates an upload-acceptance error for a rejected file.
func UploadError(code ErrorCode, filename string, sizeBytes int) *LedgerError {
	var message, suggestion string

	switch code {
	case CodeInvalidFileType:
		message = fmt.Sprintf("invalid file type: %s", filename)
		suggestion = "only CSV and Excel (.xlsx) files are allowed"
	case CodeFileTooLarge:
		message = fmt.Sprintf("file too large: %s (%d bytes)", filename, sizeBytes)
		suggestion = "maximum upload size is 5 MiB"
	default:
		message = fmt.Sprintf("file rejected: %s", filename)
		suggestion = "check the file and try again"
	}

	return New(CategoryFile, code, message).
		WithSuggestion(suggestion).
		WithContext("filename", filename).
		WithContext("size_bytes", sizeBytes)
}

// ParseError creates a parsing error for a malformed upload.
func ParseError(filename string, err error) *LedgerError {
	message := fmt.Sprintf("could not parse file %s", filename)
	return Wrap(err, CategoryParse, CodeParseFailed, message).
		WithSuggestion("the file may have inconsistent formatting; try cleaning it or check for extra commas").
		WithContext("filename", filename)
}

// WorkbookError creates a workbook-state error.
func WorkbookError(code ErrorCode, detail string) *LedgerError {
	var message, suggestion string

	switch code {
	case CodeNoActiveWorkbook:
		message = "no data loaded"
		suggestion = "upload a file first"
	case CodeUnknownSheet:
		message = fmt.Sprintf("unknown sheet: %s", detail)
		suggestion = "check the sheet name against the uploaded workbook"
	case CodeInvalidCellTarget:
		message = fmt.Sprintf("invalid cell target: %s", detail)
		suggestion = "row and column must reference an existing cell"
	default:
		message = fmt.Sprintf("workbook error: %s", detail)
		suggestion = "check the request and try again"
	}

	result := New(CategoryWorkbook, code, message).WithSuggestion(suggestion)
	if detail != "" {
		result = result.WithContext("detail", detail)
	}
	return result
}

// ConfigurationError creates a configuration-related error.
func ConfigurationError(code ErrorCode, setting string, err error) *LedgerError {
	var message, suggestion string

	switch code {
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "set the value via flag, config file or environment"
	default:
		message = fmt.Sprintf("invalid configuration for %s", setting)
		suggestion = "check the configuration documentation for valid values"
	}

	var result *LedgerError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}
	return result.WithSuggestion(suggestion).WithContext("setting", setting)
}

// DeliveryError creates an SMTP delivery error.
func DeliveryError(recipient string, err error) *LedgerError {
	return Wrap(err, CategoryNetwork, CodeDeliveryFailed,
		fmt.Sprintf("email delivery to %s failed", recipient)).
		WithSuggestion("check SMTP host, port and credentials").
		WithContext("recipient", recipient)
}

// InternalError creates an internal error.
func InternalError(operation string, err error) *LedgerError {
	return Wrap(err, CategoryInternal, CodeUnexpectedError,
		fmt.Sprintf("unexpected error during %s", operation)).
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// IsLedgerError checks if an error is a LedgerError.
func IsLedgerError(err error) bool {
	_, ok := err.(*LedgerError)
	return ok
}

// AsLedgerError extracts a LedgerError from an error chain.
func AsLedgerError(err error) (*LedgerError, bool) {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error unless it already is a LedgerError.
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *LedgerError {
	if err == nil {
		return nil
	}
	if ledgerErr, ok := AsLedgerError(err); ok {
		return ledgerErr
	}
	return Wrap(err, category, code, message)
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	if ledgerErr, ok := AsLedgerError(err); ok {
		return ledgerErr.Code == code
	}
	return false
}

// Summarize joins the messages of several errors into one line.
func Summarize(errs []error) string {
	if len(errs) == 0 {
		return "no errors"
	}
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
