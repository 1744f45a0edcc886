package grpctypes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/broady/grpctypes/loader"
	"github.com/broady/grpctypes/pretty"
	"github.com/broady/grpctypes/typescript"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodePatternExpansion ErrorCode = "pattern_expansion" // Glob failed or matched nothing
	CodeSchemaLoad       ErrorCode = "schema_load"       // Parse or resolution failure
	CodeUnexpectedNode   ErrorCode = "unexpected_node"   // Schema tree holds an unknown entry kind
	CodeFormat           ErrorCode = "format"            // Pretty-printer rejected the output
	CodeInvalidArgument  ErrorCode = "invalid_argument"
	CodeNotFound         ErrorCode = "not_found"
	CodeCanceled         ErrorCode = "canceled"
	CodeDeadlineExceeded ErrorCode = "deadline_exceeded"
	CodeInternal         ErrorCode = "internal"
)

// Error is the error type returned by Generate and its helpers, and the JSON
// error envelope of the dev server.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsCode reports whether err, or any error it wraps, is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details, Err: e.Err}
}

// ToError maps any error to an *Error. Errors that already carry a code keep
// it; known causes from the pipeline packages get theirs; everything else is
// internal.
func ToError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return wrapError(CodeDeadlineExceeded, err, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return wrapError(CodeCanceled, err, "canceled")
	case errors.Is(err, loader.ErrNoMatches):
		return wrapError(CodePatternExpansion, err, "no files matched")
	case errors.Is(err, pretty.ErrUnbalanced), errors.Is(err, pretty.ErrUnsupportedParser):
		return wrapError(CodeFormat, err, "format declarations")
	}

	var kindErr *typescript.UnexpectedKindError
	if errors.As(err, &kindErr) {
		return wrapError(CodeUnexpectedNode, err, kindErr.Error())
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]any)
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Namespace()] = msg
			messages = append(messages, ve.Namespace()+": "+msg)
		}
		return &Error{
			Code:    CodeInvalidArgument,
			Message: strings.Join(messages, "; "),
			Details: details,
			Err:     err,
		}
	}

	return wrapError(CodeInternal, err, err.Error())
}

// HTTPStatus maps an ErrorCode to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument, CodePatternExpansion:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSchemaLoad:
		return http.StatusUnprocessableEntity
	case CodeCanceled:
		return 499 // Client Closed Request (Nginx standard)
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "max":
		return fmt.Sprintf("must have at most %s entries", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "typemapping":
		return "must be KEY:VALUE with both sides set"
	case "pattern":
		return "must be a clean relative path"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
