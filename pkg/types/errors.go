package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind identifies the class of failure reported by an Error.
type ErrorKind string

const (
	// KindPrecondition is returned when an operation is invoked in the wrong
	// authentication state or without the credential fields it needs.
	KindPrecondition ErrorKind = "precondition_violation"

	// KindElementTimeout is returned when an expected element or navigation
	// never appeared within the driver's wait budget.
	KindElementTimeout ErrorKind = "element_timeout"

	// KindVerificationNotFound is returned when no usable verification email
	// arrived before the retry budget ran out.
	KindVerificationNotFound ErrorKind = "verification_not_found"

	// KindResolutionFailure is returned when a package name or repository
	// string could not be resolved to a repository.
	KindResolutionFailure ErrorKind = "resolution_failure"
)

// Sentinels usable with errors.Is to test an error's kind.
var (
	ErrPrecondition         = &Error{Kind: KindPrecondition}
	ErrElementTimeout       = &Error{Kind: KindElementTimeout}
	ErrVerificationNotFound = &Error{Kind: KindVerificationNotFound}
	ErrResolutionFailure    = &Error{Kind: KindResolutionFailure}
)

// Error is the single error type returned by ghauto operations.
// Only the context fields relevant to Kind are populated.
type Error struct {
	Kind ErrorKind

	// Op is the public operation that failed (signin, star, verify, ...)
	Op string

	// Message is a short human readable reason
	Message string

	// Step is the workflow step index, 1-based, when a step failed
	Step int

	// Selector is the CSS selector or URL the failed step targeted
	Selector string

	// Address is the email address being verified
	Address string

	// Package is the package name or repository string being resolved
	Package string

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	var details []string
	if e.Step > 0 {
		details = append(details, fmt.Sprintf("step %d", e.Step))
	}
	if e.Selector != "" {
		details = append(details, fmt.Sprintf("target %q", e.Selector))
	}
	if e.Address != "" {
		details = append(details, fmt.Sprintf("address %q", e.Address))
	}
	if e.Package != "" {
		details = append(details, fmt.Sprintf("package %q", e.Package))
	}
	if len(details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(details, ", "))
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. It lets callers
// compare against the Err* sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewPreconditionError returns a KindPrecondition error for op.
func NewPreconditionError(op, message string) *Error {
	return &Error{Kind: KindPrecondition, Op: op, Message: message}
}
