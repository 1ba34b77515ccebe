package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller specified an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a resource that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates an internal defect, never a data-content problem
	CodeInternal Code = "internal"

	// CodeValidation indicates a rulebook document failed validation
	CodeValidation Code = "validation"

	// CodeUnsupportedMechanic indicates a mechanics type or effect kind
	// outside the recognized vocabulary
	CodeUnsupportedMechanic Code = "unsupported_mechanic"

	// CodeUnknownFormulaToken indicates a formula referenced an attribute
	// or aggregate the snapshot cannot resolve
	CodeUnknownFormulaToken Code = "unknown_formula_token"

	// CodeInsufficientResource indicates a spend exceeded the pool's current value
	CodeInsufficientResource Code = "insufficient_resource"

	// CodeDanglingEnhancement indicates a passive_enhancement named a
	// feature that is not in the resolved set
	CodeDanglingEnhancement Code = "dangling_enhancement"

	// CodeInvariantViolation indicates a resource pool invariant broke
	// outside its own mutation methods; a defect, not a user error
	CodeInvariantViolation Code = "invariant_violation"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta carries diagnostic context such as the offending feature or formula
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving its code
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(appErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Helper constructors for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// UnsupportedMechanicf creates a formatted unsupported mechanic error
func UnsupportedMechanicf(format string, args ...any) *Error {
	return Newf(CodeUnsupportedMechanic, format, args...)
}

// UnknownFormulaTokenf creates a formatted unknown formula token error
func UnknownFormulaTokenf(format string, args ...any) *Error {
	return Newf(CodeUnknownFormulaToken, format, args...)
}

// InsufficientResourcef creates a formatted insufficient resource error
func InsufficientResourcef(format string, args ...any) *Error {
	return Newf(CodeInsufficientResource, format, args...)
}

// DanglingEnhancementf creates a formatted dangling enhancement error
func DanglingEnhancementf(format string, args ...any) *Error {
	return Newf(CodeDanglingEnhancement, format, args...)
}

// InvariantViolationf creates a formatted invariant violation error
func InvariantViolationf(format string, args ...any) *Error {
	return Newf(CodeInvariantViolation, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInsufficientResource checks if the error is an insufficient resource error
func IsInsufficientResource(err error) bool {
	return Is(err, CodeInsufficientResource)
}

// IsUnsupportedMechanic checks if the error is an unsupported mechanic error
func IsUnsupportedMechanic(err error) bool {
	return Is(err, CodeUnsupportedMechanic)
}

// IsUnknownFormulaToken checks if the error is an unknown formula token error
func IsUnknownFormulaToken(err error) bool {
	return Is(err, CodeUnknownFormulaToken)
}

// IsDanglingEnhancement checks if the error is a dangling enhancement error
func IsDanglingEnhancement(err error) bool {
	return Is(err, CodeDanglingEnhancement)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}

// ValidationBatch collects validation errors so a data author sees every
// problem in a document, not just the first
type ValidationBatch struct {
	Document string
	Errors   []*Error
}

// NewValidationBatch creates an empty batch for the named document
func NewValidationBatch(document string) *ValidationBatch {
	return &ValidationBatch{Document: document}
}

// Add appends an error to the batch, ignoring nils
func (b *ValidationBatch) Add(err *Error) {
	if err == nil {
		return
	}
	b.Errors = append(b.Errors, err)
}

// Addf appends a formatted error to the batch
func (b *ValidationBatch) Addf(code Code, format string, args ...any) {
	b.Errors = append(b.Errors, Newf(code, format, args...))
}

// Empty reports whether the batch collected no errors
func (b *ValidationBatch) Empty() bool {
	return len(b.Errors) == 0
}

// Err returns the batch as a single error, or nil if the batch is empty
func (b *ValidationBatch) Err() error {
	if b.Empty() {
		return nil
	}
	return b
}

// Error joins every collected message
func (b *ValidationBatch) Error() string {
	msgs := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%s: %d validation error(s): %s",
		b.Document, len(b.Errors), strings.Join(msgs, "; "))
}
