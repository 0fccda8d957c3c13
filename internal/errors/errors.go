// Package errors implements the domain error taxonomy of the call-graph
// core: configuration faults and invariant violations are returned to
// callers as *DomainError; file and resolution faults are funneled into the
// diagnostic stream instead (see internal/observability).
package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	CodeFile          ErrorCode = "FILE_ERROR"
	CodeResolution    ErrorCode = "RESOLUTION_ERROR"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

const (
	CtxPath           = "path"
	CtxModuleSpec     = "module_specifier"
	CtxQualifiedName  = "qualified_name"
	CtxCalleeToken    = "callee_token"
	CtxSourceID       = "source_id"
	CtxEdgeKind       = "edge_kind"
)

// DomainError is the error type surfaced across package boundaries. Its
// Code discriminates configuration faults, file faults, resolution faults,
// and internal invariant violations.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func New(code ErrorCode, msg string) *DomainError {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) *DomainError {
	return &DomainError{Code: code, Message: msg, Err: err}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Fatal reports whether an error of this taxonomy must abort a build rather
// than be dropped to the diagnostic stream.
func Fatal(code ErrorCode) bool {
	return code == CodeConfiguration || code == CodeInternal
}
