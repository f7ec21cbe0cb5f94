package procedure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for errors.Is() checking. Every error produced by the
// call engine wraps exactly one of these.
var (
	ErrBinding     = errors.New("binding error")
	ErrSealed      = errors.New("bindings sealed")
	ErrNotFound    = errors.New("not found")
	ErrReservation = errors.New("reservation failed")
	ErrArgument    = errors.New("argument error")
	ErrExecution   = errors.New("execution error")
	ErrInterrupted = errors.New("call interrupted")
)

// Error is the single error type surfaced by procedure calls. Kind is one of
// the sentinel errors above; Err holds the underlying cause, if any.
type Error struct {
	Kind      error
	Procedure string
	Msg       string
	Err       error
}

// Errorf creates an Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Procedure != "" {
		sb.WriteString("procedure ")
		sb.WriteString(e.Procedure)
		sb.WriteString(": ")
	}
	if e.Msg != "" {
		sb.WriteString(e.Msg)
	} else if e.Kind != nil {
		sb.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WithProcedure returns a copy of e annotated with a procedure id. An
// existing annotation is kept.
func (e *Error) WithProcedure(id string) *Error {
	if e.Procedure != "" {
		return e
	}
	cp := *e
	cp.Procedure = id
	return &cp
}

// Wrap converts err into a procedure error. Errors that already carry an
// *Error are returned unchanged; anything else becomes an ErrExecution
// error with err as its cause.
func Wrap(id string, err error) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Kind: ErrExecution, Procedure: id, Msg: "unexpected error", Err: err}
}

// IsKnown reports whether err is (or wraps) a procedure error.
func IsKnown(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}
